// Package errs provides standardized error types for the orders application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ObjectNotFoundError: an order is absent from the store
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError:
//     constraint violations (price, items, status)
//   - InfrastructureError: the store, cache or broker is unreachable
//   - SerializationError: a cache value cannot be encoded
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Transport adapters classify errors with errors.Is against the sentinels
// and never inspect messages.
package errs
