// Package config handles configuration loading and management for restmd.
//
// It provides functionality for:
//   - Loading configuration from .restmd.yaml, .restmd.yml or restmd.yaml
//   - Default configuration values
//   - RESTMD_* environment overrides
//
// Precedence is defaults, then the config file, then the environment.
// Command-line flags are applied on top by the CLI.
package config
