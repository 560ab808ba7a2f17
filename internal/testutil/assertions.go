package testutil

import (
	"errors"
	"testing"

	"github.com/clinicore/hospital-portal/internal/httperr"
)

// AssertBusinessError checks that err is a BusinessError with the
// expected code.
func AssertBusinessError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected business error with code %q, got nil", expectedCode)
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("expected BusinessError, got %T: %v", err, err)
	}

	if be.Code != expectedCode {
		t.Errorf("expected error code %q, got %q", expectedCode, be.Code)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
