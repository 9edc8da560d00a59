package binding

import "fmt"

// BindingError is a custom error type for binding registry errors
type BindingError string

// Error implements the error interface
func (e BindingError) Error() string {
	return string(e)
}

const (
	ErrNotBound      BindingError = "member has no bound steam account"
	ErrAlreadyBound  BindingError = "steam account already bound to another member"
	ErrInvalidInput  BindingError = "group, member and steam IDs are required"
	ErrNilConfig     BindingError = "config cannot be nil"
	ErrNilRepository BindingError = "binding repository cannot be nil"
)

// ConflictError is returned when a Steam account is already bound to a
// different member of the same group
type ConflictError struct {
	GroupID       string
	SteamID       string
	OwnerMemberID string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("steam account %s is already bound to member %s", e.SteamID, e.OwnerMemberID)
}

// Is lets errors.Is match ErrAlreadyBound
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyBound
}
