// Package domain contains the core study entities and value objects: course
// sessions and their day-indexed study plans, progress sets, generated test
// questions and flashcards, and paper analyses. It is independent of any
// storage, LLM or delivery mechanism.
package domain
