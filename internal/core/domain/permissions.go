package domain

import "go.trai.ch/zerr"

// Access is the level granted for a permission scope.
type Access string

const (
	// AccessRead grants read-only access.
	AccessRead Access = "read"
	// AccessWrite grants read and write access.
	AccessWrite Access = "write"
	// AccessNone revokes the scope entirely.
	AccessNone Access = "none"
)

// Permissions maps scope names (contents, pull-requests, ...) to their
// granted access. A scope absent from an explicit block is AccessNone.
type Permissions map[string]Access

// DefaultPermissions is applied when a workflow declares no permissions
// block: read-only access to repository contents and pull requests.
func DefaultPermissions() Permissions {
	return Permissions{
		"contents":      AccessRead,
		"pull-requests": AccessRead,
	}
}

// Validate checks every declared access level.
func (p Permissions) Validate() error {
	for scope, access := range p {
		switch access {
		case AccessRead, AccessWrite, AccessNone:
		default:
			return zerr.With(zerr.With(ErrInvalidPermission, "scope", scope), "access", string(access))
		}
	}
	return nil
}

// Allows reports whether the scope grants at least the requested access.
func (p Permissions) Allows(scope string, want Access) bool {
	got, ok := p[scope]
	if !ok {
		return false
	}
	switch want {
	case AccessRead:
		return got == AccessRead || got == AccessWrite
	case AccessWrite:
		return got == AccessWrite
	}
	return false
}
