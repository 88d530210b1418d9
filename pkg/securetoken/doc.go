// Package securetoken populates record fields with secure random tokens.
//
// A Field binds one named attribute of a persisted record type to a
// base58 token generator. Declared fields are populated automatically
// before a record's first write and can be rotated on demand.
//
// Token Format:
//
//   - Base58 alphabet (58 symbols, no 0/O/I/l)
//   - Default length: 24 characters
//   - Entropy: log2(58) bits per character, about 140 bits at default length
//
// Uniqueness:
//
// A field may opt in to a best-effort uniqueness check against the
// persistence collaborator. The check-then-write window is inherent;
// a storage-level unique constraint remains the real guarantee.
//
// @design DS-0101
// @adr AD-0101
package securetoken
