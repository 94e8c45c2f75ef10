// Package env extracts variable declarations for restmd.
//
// It provides functionality for:
//   - Scanning buffer text for `@name = value` declarations
//   - Loading additional bindings from .env files
//   - Last-wins lookup over an ordered binding list
package env
