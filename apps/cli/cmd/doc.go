// Package cmd implements the restmd CLI commands using Cobra.
//
// Available commands:
//   - run: Execute requests from a .http file and print Markdown
//   - session: Interactive prompt that keeps execution state between commands
//   - mcp: Serve restmd tools over MCP on stdio
//   - init: Create a config file and an example request file
//   - version: Show restmd version information
//   - completion: Generate shell completion scripts
//
// Global flags override the config file and RESTMD_* environment variables.
package cmd
