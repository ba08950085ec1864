package resumes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"resume-platform/internal/shared/metrics"
)

// Service contains the resume business logic. Every operation except
// GetBySlug is scoped to the calling user; the user ID is always an
// explicit parameter, never ambient state.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns the user's resumes ordered by last update, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns a single resume owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// Create validates and stores a new resume for the user.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}

	res := Resume{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          req.Title,
		PersonalInfo:   req.PersonalInfo,
		Education:      req.Education,
		Experience:     req.Experience,
		Skills:         req.Skills,
		Projects:       req.Projects,
		Certifications: req.Certifications,
		Languages:      req.Languages,
		IsDefault:      req.IsDefault,
		IsPublic:       req.IsPublic,
	}
	normalize(&res)

	if err := validateResume(res); err != nil {
		return Resume{}, err
	}

	created, err := s.Repo.Create(ctx, res)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeCreated()
	if created.IsPublic {
		metrics.IncResumePublished()
	}
	return created, nil
}

// Update merges a partial payload into the stored resume. Fields absent
// from the payload are left untouched; a present section replaces that
// section wholesale.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}

	current, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	wasPublic := current.IsPublic
	merged := mergeUpdate(current, req)
	normalize(&merged)

	if err := validateResume(merged); err != nil {
		return Resume{}, err
	}

	updated, err := s.Repo.Update(ctx, merged)
	if err != nil {
		return Resume{}, err
	}
	if updated.IsPublic && !wasPublic {
		metrics.IncResumePublished()
	}
	return updated, nil
}

// Delete removes a resume. Deleting an already-deleted ID reports
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	metrics.IncResumeDeleted()
	return nil
}

// SetDefault marks the target as the user's default resume. The store
// clears every sibling's flag in the same operation, so the invariant
// holds even if a prior race left multiple defaults behind.
func (s *Service) SetDefault(ctx context.Context, userID, id string) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}

	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	res.IsDefault = true
	return s.Repo.Update(ctx, res)
}

// Duplicate copies a resume into a new private, non-default record
// titled "<original> (Copy)". The copy never inherits the public slug.
func (s *Service) Duplicate(ctx context.Context, userID, id string) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}

	src, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	dup := src.clone()
	dup.ID = uuid.NewString()
	dup.Title = src.Title + " (Copy)"
	dup.IsDefault = false
	dup.IsPublic = false
	dup.PublicSlug = ""

	created, err := s.Repo.Create(ctx, dup)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeDuplicated()
	return created, nil
}

// TogglePublic flips a resume's visibility. Going private clears the
// slug; going public leaves slug assignment to the store, which only
// generates one when none is present.
func (s *Service) TogglePublic(ctx context.Context, userID, id string) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}

	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	res.IsPublic = !res.IsPublic
	if !res.IsPublic {
		res.PublicSlug = ""
	}

	updated, err := s.Repo.Update(ctx, res)
	if err != nil {
		return Resume{}, err
	}
	if updated.IsPublic {
		metrics.IncResumePublished()
	}
	return updated, nil
}

// GetBySlug returns a published resume by its public slug. Records that
// have since been made private are not found.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Resume, error) {
	if strings.TrimSpace(slug) == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetBySlug(ctx, slug)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id required")
	}
	return nil
}

func mergeUpdate(current Resume, req UpdateRequest) Resume {
	out := current
	if req.Title != nil {
		out.Title = *req.Title
	}
	if req.PersonalInfo != nil {
		out.PersonalInfo = *req.PersonalInfo
	}
	if req.Education != nil {
		out.Education = *req.Education
	}
	if req.Experience != nil {
		out.Experience = *req.Experience
	}
	if req.Skills != nil {
		out.Skills = *req.Skills
	}
	if req.Projects != nil {
		out.Projects = *req.Projects
	}
	if req.Certifications != nil {
		out.Certifications = *req.Certifications
	}
	if req.Languages != nil {
		out.Languages = *req.Languages
	}
	if req.IsDefault != nil {
		out.IsDefault = *req.IsDefault
	}
	if req.IsPublic != nil {
		out.IsPublic = *req.IsPublic
		// Same eager-clear policy as TogglePublic.
		if !out.IsPublic {
			out.PublicSlug = ""
		}
	}
	return out
}

// normalize trims the fields validation inspects and fills per-entry
// defaults the editing UI would otherwise pre-select.
func normalize(res *Resume) {
	res.Title = strings.TrimSpace(res.Title)
	res.PersonalInfo.FirstName = strings.TrimSpace(res.PersonalInfo.FirstName)
	res.PersonalInfo.LastName = strings.TrimSpace(res.PersonalInfo.LastName)
	res.PersonalInfo.Email = strings.TrimSpace(res.PersonalInfo.Email)

	for i := range res.Skills {
		if strings.TrimSpace(res.Skills[i].Level) == "" {
			res.Skills[i].Level = DefaultSkillLevel
		}
		if strings.TrimSpace(res.Skills[i].Category) == "" {
			res.Skills[i].Category = DefaultSkillCategory
		}
	}
	for i := range res.Languages {
		if strings.TrimSpace(res.Languages[i].Proficiency) == "" {
			res.Languages[i].Proficiency = DefaultLanguageProficiency
		}
	}
}
