package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("ST-REC-4040", "record not found")
	if err.Error() != "[ST-REC-4040] record not found" {
		t.Errorf("Error() = %q", err.Error())
	}

	withDetails := err.WithDetails("id sr-xyz")
	if withDetails.Error() != "[ST-REC-4040] record not found: id sr-xyz" {
		t.Errorf("Error() = %q", withDetails.Error())
	}
}

func TestDomainError_Is(t *testing.T) {
	base := ErrRecordNotFound
	derived := ErrRecordNotFound.WithDetails("extra")

	if !errors.Is(derived, base) {
		t.Error("errors.Is should match same code")
	}
	if errors.Is(derived, ErrRecordConflict) {
		t.Error("errors.Is should not match different codes")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("disk failure")
	err := ErrStorageError.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("create record: %w", err)
	if GetErrorCode(wrapped) != "ST-SYS-5001" {
		t.Errorf("GetErrorCode() = %q, want ST-SYS-5001", GetErrorCode(wrapped))
	}
}
