package types

import "fmt"

// ValidationError reports a malformed or constraint-violating payload,
// such as a reference to a user with the wrong role.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PermissionError reports an authenticated principal attempting an
// operation they are not authorized for.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// NotFoundError covers rows that do not exist and rows outside the
// caller's visibility set. The two cases are indistinguishable on
// purpose so unauthorized existence is never observable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports a state transition that has already completed,
// such as acknowledging feedback twice.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// DependencyError reports an absent external collaborator, such as the
// document renderer backing the PDF export.
type DependencyError struct {
	Dependency string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s is not available", e.Dependency)
}
