package users

import "context"

// Repo persists user accounts.
type Repo interface {
	// Upsert inserts the user or refreshes the mutable profile fields
	// of an existing row with the same ID.
	Upsert(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
