package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for a user account.
// It indicates how the user authenticates (local database or OIDC).
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
)

// Status represents the organizational status of a member.
// The status describes what kind of member someone is; it is orthogonal to the
// roles assigned to the account, with one exception: StatusAdministration is
// treated as an implicit grant of every permission by the authorization service.
type Status string

const (
	// StatusParent is a parent or legal guardian of one or more cadets.
	StatusParent Status = "parent"
	// StatusCadet is a regular cadet member.
	StatusCadet Status = "cadet"
	// StatusAMC is an assistant instructor (aide-moniteur cadet).
	StatusAMC Status = "AMC"
	// StatusAnimateur is a staff instructor.
	StatusAnimateur Status = "animateur"
	// StatusAdministration is an administrative account with full access.
	StatusAdministration Status = "administration"
)

// Statuses lists every valid member status.
var Statuses = []Status{
	StatusParent,
	StatusCadet,
	StatusAMC,
	StatusAnimateur,
	StatusAdministration,
}

// Valid reports whether s is one of the known member statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// User represents a member account in the system.
// Users can authenticate via local database password or OIDC.
// Authorization is driven by the roles assigned through the user_roles table.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the account is active and can log in.
	Active bool
	// Email is the unique address used for login.
	Email string `gorm:"unique;size:255;not null"`
	// Password is the Argon2id hashed password (only used for local authentication).
	Password string `gorm:"size:255"`
	// Name is the member's last or family name.
	Name string `gorm:"size:100"`
	// FirstName is the member's first or given name.
	FirstName string `gorm:"size:100"`
	// Rank is the member's rank within the organization (e.g. "sergent").
	Rank string `gorm:"size:100"`
	// Status is the organizational status of the member.
	Status Status `gorm:"type:varchar(20);not null;default:'cadet'"`
	// Roles are the roles assigned to this user through the user_roles table.
	Roles []Role `gorm:"many2many:user_roles"`
	// AuthSource indicates how this user authenticates (local or oidc).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the external identifier for OIDC users (sub claim).
	ExternalID string `gorm:"size:255"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating local user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
