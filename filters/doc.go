// Package filters contains the built-in filter prototypes
// that can be registered on an interpreter.
//
// Prototypes are never executed directly: every Pipeline
// referencing one receives its own clone.
package filters
