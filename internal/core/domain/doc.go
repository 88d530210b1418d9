// Package domain defines the core domain models for securetoken.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Record: a persisted entity carrying named string fields
//   - Errors: domain-specific error definitions
//
// All domain models implement validation, cloning, and version
// control for optimistic locking.
//
// @design DS-0102
package domain
