// Package host defines what the executor needs from an editor and provides
// two implementations.
//
// File reads requests from a .http file on disk and writes results to a
// Markdown file or a terminal. Memory keeps everything in process and is
// used by the MCP server and by tests.
package host
