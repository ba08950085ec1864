package resumes

import "context"

// Repo defines persistence for resumes. Implementations enforce the two
// cross-record invariants at write time, regardless of caller: at most
// one default resume per user, and globally unique public slugs.
// Create and Update return the stored record, since the store assigns
// slugs and refreshes timestamps.
type Repo interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	GetByID(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, r Resume) (Resume, error)
	Delete(ctx context.Context, userID, id string) error
	GetBySlug(ctx context.Context, slug string) (Resume, error)
}
