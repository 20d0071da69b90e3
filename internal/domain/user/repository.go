package user

import "context"

// UserRepository defines data access methods for user accounts.
type UserRepository interface {
	// Create creates a new user and returns it with generated fields set
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListDirectory returns id, name and email for every user. Used to
	// label live map markers.
	ListDirectory(ctx context.Context) ([]User, error)

	// ListIDsByRole returns the ids of all users carrying the given role.
	ListIDsByRole(ctx context.Context, role Role) ([]string, error)
}
