// Package runner executes batches of REST requests through shell commands.
//
// It provides functionality for:
//   - Translating request blocks into command strings
//   - Running each command under a hard deadline
//   - Sequential or parallel batch execution with input-order results
//   - Fail-fast batches that commit the request counter only on success
//   - Latency statistics across batches
package runner
