// Package defaults provides centralized configuration constants for portreport.
//
// This package defines timeout values, concurrency limits, and other
// configuration defaults used across the codebase. Centralizing these values
// ensures consistency and makes tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/dvega/portreport/pkg/defaults"
//
//	client := &http.Client{Timeout: defaults.RequestTimeout}
package defaults
