// Package storage provides durable record storage for securetoken.
//
// The Badger-backed store persists records and a token value index:
//
//   - rec:{id} holds the JSON-encoded record
//   - idx:{attribute}:{value} maps an indexed token value to its record ID
//
// Record writes and their index entries share one transaction, so the
// index is the storage-level uniqueness constraint backing the library's
// best-effort check.
//
// @design DS-0102
// @adr AD-0402
package storage
