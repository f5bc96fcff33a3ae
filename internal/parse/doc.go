// Package parse turns the line-oriented text a language model returns into
// typed records: multiple-choice questions, flashcards and numbered topics.
//
// Question and flashcard parsing share one small state machine with two
// states, awaiting a record and inside a record. A record is flushed when
// the next record starts or the input ends, and a flushed record is kept
// only if it is complete. Incomplete records are dropped silently because
// malformed model output is a normal occurrence. Blank and unrecognized
// lines are ignored. All functions are pure.
package parse
