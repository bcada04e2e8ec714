// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to list endpoints",
//	    cause,
//	    map[string]interface{}{
//	        "url": listURL,
//	    },
//	)
package errors
