// Package http interprets raw HTTP responses captured from a subprocess.
//
// It provides:
//   - Splitting captured output into header and body sections
//   - Content tag detection from the Content-Type header
//   - Status line and header lookup helpers
package http
