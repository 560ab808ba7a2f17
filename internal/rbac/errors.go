package rbac

import (
	"errors"
	"fmt"
)

// ErrUnprovisioned means the identity is authenticated but has no usable
// profile row: either the row is missing or it carries no valid role.
var ErrUnprovisioned = errors.New("profile not provisioned")

// DependencyError wraps a Profile Store failure. Callers must never treat
// it as "no role": the guard turns it into a denial (fail-closed).
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("rbac: %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func IsDependencyError(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
