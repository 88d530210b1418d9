// Package config defines the securetoken-cli configuration.
//
// Configuration lives in ~/.securetoken/cli.yaml and can be overridden
// with SECURETOKEN_* environment variables. It covers the local store
// location, output and logging preferences, and the token fields
// declared for records created through the CLI.
//
// @design DS-0503
package config
