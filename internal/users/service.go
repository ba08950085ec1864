package users

import "context"

// Service wraps account persistence.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Upsert records a sign-in, creating the account on first contact.
func (s *Service) Upsert(ctx context.Context, u User) (User, error) {
	return s.Repo.Upsert(ctx, u)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.Repo.GetByID(ctx, id)
}
