// Package service contains the study planner and paper analyzer use cases.
//
// Services coordinate the language model, the prompt library, the response
// parsers and the stores. They never mutate a session's state directly:
// every change is expressed as an events.Transition and dispatched, so the
// state reducer and the persistence handler see the same sequence of changes.
//
// Service methods return sentinel errors for expected conditions (a course
// that does not exist, a model answer with no usable questions) and wrap
// everything else in ServiceError. The API layer maps both to status codes.
package service
