// Package generation defines the boundary between the application core and
// the language model. Callers depend on the Completer interface; the Gemini
// client in platform/gemini implements it, and Backoff decorates any
// Completer with the bounded retry policy used for quota errors.
package generation
