package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used when no
// database is configured. Both invariants are applied while the write
// lock is held, so concurrent writers always settle on a single default
// per user and unique slugs.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

// Create stores a new resume, applying default and slug invariants.
func (r *MemoryRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	r.applyInvariantsLocked(&res)
	r.data[res.ID] = res.clone()
	return res.clone(), nil
}

// GetByID returns a resume scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.data[id]
	if !ok || res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return res.clone(), nil
}

// ListByUser returns the user's resumes ordered by last update, newest
// first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Resume{}
	for _, res := range r.data {
		if res.UserID == userID {
			out = append(out, res.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a stored resume, applying default and slug invariants.
func (r *MemoryRepo) Update(ctx context.Context, res Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[res.ID]
	if !ok || existing.UserID != res.UserID {
		return Resume{}, ErrNotFound
	}

	res.CreatedAt = existing.CreatedAt
	res.UpdatedAt = time.Now().UTC()
	r.applyInvariantsLocked(&res)
	r.data[res.ID] = res.clone()
	return res.clone(), nil
}

// Delete removes a resume scoped to its owner. A second delete of the
// same ID reports ErrNotFound.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.data[id]
	if !ok || res.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// GetBySlug returns the resume published under the given slug. Records
// that carry the slug but are no longer public are not returned.
func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.data {
		if res.IsPublic && res.PublicSlug == slug {
			return res.clone(), nil
		}
	}
	return Resume{}, ErrNotFound
}

// applyInvariantsLocked enforces the default-resume and slug invariants
// for a record about to be written. Callers must hold the write lock.
func (r *MemoryRepo) applyInvariantsLocked(res *Resume) {
	if res.IsDefault {
		for id, other := range r.data {
			if id != res.ID && other.UserID == res.UserID && other.IsDefault {
				other.IsDefault = false
				r.data[id] = other
			}
		}
	}

	if !res.IsPublic {
		res.PublicSlug = ""
		return
	}
	if res.PublicSlug != "" {
		return
	}
	res.PublicSlug = r.nextSlugLocked(Slugify(res.PersonalInfo.FirstName, res.PersonalInfo.LastName))
}

func (r *MemoryRepo) nextSlugLocked(base string) string {
	used := make(map[string]struct{})
	for _, other := range r.data {
		if other.PublicSlug != "" {
			used[other.PublicSlug] = struct{}{}
		}
	}
	for n := 0; ; n++ {
		candidate := slugCandidate(base, n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

var _ Repo = (*MemoryRepo)(nil)
