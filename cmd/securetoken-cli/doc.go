// Package main provides the entry point for securetoken-cli.
//
// The CLI manages secure token fields on records stored in a local
// Badger database:
//
//   - Token generation (raw, or unique against the store)
//   - Record management (create, get, list, delete)
//   - Token rotation (regenerate one field and persist it)
//   - Configuration management
//
// Usage:
//
//	securetoken-cli [command] [flags]
//	securetoken-cli generate --size 36 --count 5
//	securetoken-cli record create --kind user
//	securetoken-cli record regenerate sr-01h2xcejqtf2nbrexx3vqjhp41 auth_token
//
// @design DS-0601
package main
