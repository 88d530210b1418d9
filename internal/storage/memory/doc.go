// Package memory provides in-memory record storage for securetoken.
//
// It implements the record repository and the securetoken persistence
// collaborator using map-based indexes:
//
//   - Primary index: RecordID -> Record
//   - Token index: attribute -> value -> RecordID, one per declared field
//
// Thread Safety:
//
// All operations are guarded by a single RWMutex. Read operations use
// RLock, write operations use Lock. Records are cloned on the way in and
// out to prevent external modification.
//
// @design DS-0102
package memory
