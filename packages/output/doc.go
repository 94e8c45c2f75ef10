// Package output renders executed requests.
//
// Supported output formats:
//   - Markdown: the request/response document appended to the output surface
//   - Console: colored per-request status lines for the terminal
//   - JSON: machine-readable batch reports
//
// Markdown rendering is pure. Console and JSON formatters write to an
// io.Writer. Error output is handled by each formatter's FormatError.
package output
