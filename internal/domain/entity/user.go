// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. A user may be authorized for any
// number of registered applications and carries the role ids that drive
// request-time authorization decisions.
type User struct {
	ID                 uuid.UUID   // The unique identifier for the user.
	Username           string      // Login name; defaults to the email address on registration.
	FirstName          string      // The user's given name.
	LastName           string      // The user's family name.
	Email              string      // The user's primary contact email, used as the login identifier.
	PasswordHash       string      // The bcrypt-hashed password. The plaintext is never stored.
	PasswordResetToken string      // The currently outstanding reset token, empty when none is pending.
	HasGrantedAccess   bool        // False until an administrator grants access; login is refused while false.
	GrantedAccessOn    *time.Time  // When access was granted, nil while still pending.
	RoleIDs            []string    // Role identifiers embedded into token claims.
	ApplicationIDs     []uuid.UUID // Applications this user may log in against.
	CreatedAt          time.Time   // Timestamp of when this account was created.
	UpdatedAt          time.Time   // Timestamp of the last modification to this account.
}

// CanAccessApplication reports whether the user is authorized for the given application.
func (u *User) CanAccessApplication(applicationID uuid.UUID) bool {
	return slices.Contains(u.ApplicationIDs, applicationID)
}
