// Package service provides domain services for securetoken.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for storage dependencies and
// own the pre-create contract: every declared token field is populated
// exactly once, before a record's first successful write.
//
// @design DS-0103
package service
