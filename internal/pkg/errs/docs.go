// Package errs provides the standardized error types used across the dispatch
// engine. It implements one consistent pattern for error creation, formatting,
// and unwrapping.
//
// The package covers the failure taxonomy of the engine:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value fails validation
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
//   - ObjectNotFoundError: a referenced object does not exist
//   - BusinessRuleError: an operation was rejected by a dispatch rule
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type carrying the error details
//   - constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// Callers classify failures with errors.Is against the sentinels rather than
// matching message strings, which keeps the HTTP layer's status-code mapping
// and the scheduler's retry accounting independent of wording.
package errs
