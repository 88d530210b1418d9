// Package command provides CLI command definitions for securetoken-cli.
//
// Commands operate on a local Badger-backed record store. The token
// fields declared in the CLI configuration are registered as a schema,
// so records created here auto-populate their token attributes before
// the first write.
//
// Command groups:
//
//   - generate: raw token generation, optionally unique against the store
//   - record: create, get, list, regenerate, delete
//   - config: show, init, validate
//
// @design DS-0504
package command
