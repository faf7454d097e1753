package domain

import (
	"context"
	"time"
)

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusApproved UserStatus = "APPROVED"
	StatusRejected UserStatus = "REJECTED"
)

// UserRole is the account role. Only USER exists today.
type UserRole string

const (
	RoleUser UserRole = "USER"
)

// User represents a registered account. The comment core only ever
// consumes the opaque ID; everything else belongs to identity handling.
type User struct {
	ID               string     // Unique identifier (uuid)
	FullName         string     // Display name
	Email            string     // Login email (unique)
	PasswordHash     string     // Bcrypt hashed password
	Status           UserStatus // Moderation state, PENDING on registration
	Role             UserRole   // Always USER for now
	LastActivityDate time.Time  // Last day the account did anything
	CreatedAt        time.Time  // Account creation timestamp
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id string) (User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// GetByEmail retrieves a user by their email.
	// Used during login to verify credentials.
	GetByEmail(ctx context.Context, email string) (User, error)

	GetByIDs(ctx context.Context, userIDs []string) ([]User, error)

	// TouchActivity sets last_activity_date to the given day for the
	// given users. Used by the activity worker, never by handlers.
	TouchActivity(ctx context.Context, userIDs []string, day time.Time) error
}

// UserUsecase defines the business logic contract for identity operations.
type UserUsecase interface {
	// Register creates a new account in PENDING status.
	// Returns ErrConflict if the email is already taken.
	Register(ctx context.Context, fullName, email, password string) (User, error)

	// Login verifies credentials and returns a signed JWT.
	// Returns ErrBadParamInput if the password is incorrect.
	Login(ctx context.Context, email, password string) (string, error)
}
