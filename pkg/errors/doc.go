// Package errors provides error handling utilities for the flocker module.
//
// It wraps the standard library's errors and fmt packages with convenience
// helpers (New, Errorf, Wrap, Wrapf, Is, As), defines the sentinel errors
// shared across packages, and provides the LockError type that every lock
// operation failure is reported as. A lock being held elsewhere is never an
// error anywhere in this module; non-blocking acquisition reports it as a
// plain boolean outcome instead.
package errors
