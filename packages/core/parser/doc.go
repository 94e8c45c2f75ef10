// Package parser splits REST-client buffers into request blocks.
//
// Blocks are separated by lines starting with "###". Text after the marker
// names the block. Line numbers are 1-based and inclusive.
package parser
