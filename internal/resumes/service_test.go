package resumes

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo())
}

func createRequest() CreateRequest {
	return CreateRequest{
		Title: "Backend Engineer",
		PersonalInfo: PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		},
	}
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := createRequest()
	req.Skills = []Skill{{Name: "Go"}}
	req.Languages = []Language{{Name: "Spanish"}}

	res, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if res.CreatedAt.IsZero() || res.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
	if res.Skills[0].Level != DefaultSkillLevel || res.Skills[0].Category != DefaultSkillCategory {
		t.Fatalf("skill defaults not applied: %+v", res.Skills[0])
	}
	if res.Languages[0].Proficiency != DefaultLanguageProficiency {
		t.Fatalf("language default not applied: %+v", res.Languages[0])
	}
	if res.IsDefault || res.IsPublic || res.PublicSlug != "" {
		t.Fatalf("new resume should be private non-default: %+v", res)
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	svc := newTestService()

	req := createRequest()
	req.Title = ""
	req.PersonalInfo.Email = "nope"

	_, err := svc.Create(context.Background(), "user-1", req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", verr.Fields)
	}
}

func TestSetDefaultClearsSiblings(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := createRequest()
	req.IsDefault = true
	first, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	promoted, err := svc.SetDefault(ctx, "user-1", second.ID)
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if !promoted.IsDefault {
		t.Fatalf("promoted resume should be default")
	}

	defaults := 0
	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, r := range list {
		if r.IsDefault {
			defaults++
			if r.ID != second.ID {
				t.Fatalf("wrong resume is default: %s", r.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	demoted, err := svc.Get(ctx, "user-1", first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if demoted.IsDefault {
		t.Fatalf("previous default should have been cleared")
	}
}

func TestSetDefaultRepairsMultipleDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Seed a corrupted state directly, bypassing the write invariant.
	repo.data["a"] = Resume{ID: "a", UserID: "user-1", Title: "A", IsDefault: true}
	repo.data["b"] = Resume{ID: "b", UserID: "user-1", Title: "B", IsDefault: true}
	repo.data["c"] = Resume{ID: "c", UserID: "user-1", Title: "C",
		PersonalInfo: PersonalInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}}

	if _, err := svc.SetDefault(ctx, "user-1", "c"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	// Promotion clears every stale default in the same write.
	defaults := []string{}
	for id, r := range repo.data {
		if r.IsDefault {
			defaults = append(defaults, id)
		}
	}
	if len(defaults) != 1 || defaults[0] != "c" {
		t.Fatalf("expected only c default, got %v", defaults)
	}
}

func TestDefaultInvariantScopedPerUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	reqA := createRequest()
	reqA.IsDefault = true
	a, err := svc.Create(ctx, "user-a", reqA)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}

	reqB := createRequest()
	reqB.IsDefault = true
	if _, err := svc.Create(ctx, "user-b", reqB); err != nil {
		t.Fatalf("create b: %v", err)
	}

	got, err := svc.Get(ctx, "user-a", a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("another user's default must not clear this user's")
	}
}

func TestDuplicateProducesPrivateCopy(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := createRequest()
	req.IsDefault = true
	req.IsPublic = true
	req.Skills = []Skill{{Name: "Go", Level: "Expert", Category: "Technical"}}
	src, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if src.PublicSlug == "" {
		t.Fatalf("source should have a slug")
	}

	dup, err := svc.Duplicate(ctx, "user-1", src.ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.ID == src.ID {
		t.Fatalf("duplicate must get a new ID")
	}
	if dup.Title != "Backend Engineer (Copy)" {
		t.Fatalf("duplicate title = %q", dup.Title)
	}
	if dup.IsDefault || dup.IsPublic || dup.PublicSlug != "" {
		t.Fatalf("duplicate must be private and non-default: %+v", dup)
	}
	if len(dup.Skills) != 1 || dup.Skills[0].Level != "Expert" {
		t.Fatalf("duplicate should copy sections: %+v", dup.Skills)
	}

	// Source keeps its flags.
	srcAfter, err := svc.Get(ctx, "user-1", src.ID)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if !srcAfter.IsDefault || !srcAfter.IsPublic || srcAfter.PublicSlug != src.PublicSlug {
		t.Fatalf("source changed by duplication: %+v", srcAfter)
	}
}

func TestTogglePublicAssignsAndClearsSlug(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := svc.TogglePublic(ctx, "user-1", res.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublic || published.PublicSlug != "jane-doe" {
		t.Fatalf("publish result: %+v", published)
	}

	fetched, err := svc.GetBySlug(ctx, "jane-doe")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if fetched.ID != res.ID {
		t.Fatalf("slug resolves to wrong resume")
	}

	unpublished, err := svc.TogglePublic(ctx, "user-1", res.ID)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.IsPublic || unpublished.PublicSlug != "" {
		t.Fatalf("unpublish result: %+v", unpublished)
	}
	if _, err := svc.GetBySlug(ctx, "jane-doe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after unpublish, got %v", err)
	}
}

func TestSlugCollisionAppendsCounter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, "user-2", createRequest())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	p1, err := svc.TogglePublic(ctx, "user-1", first.ID)
	if err != nil {
		t.Fatalf("publish first: %v", err)
	}
	p2, err := svc.TogglePublic(ctx, "user-2", second.ID)
	if err != nil {
		t.Fatalf("publish second: %v", err)
	}

	if p1.PublicSlug != "jane-doe" || p2.PublicSlug != "jane-doe-1" {
		t.Fatalf("slugs = %q, %q", p1.PublicSlug, p2.PublicSlug)
	}
}

func TestSlugStableAcrossUpdates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := createRequest()
	req.IsPublic = true
	res, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	slug := res.PublicSlug
	if slug == "" {
		t.Fatalf("expected slug on public create")
	}

	// Renaming the owner must not rename the published URL.
	newInfo := res.PersonalInfo
	newInfo.FirstName = "Janet"
	updated, err := svc.Update(ctx, "user-1", res.ID, UpdateRequest{PersonalInfo: &newInfo})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PublicSlug != slug {
		t.Fatalf("slug changed: %q -> %q", slug, updated.PublicSlug)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Staff Engineer"
	updated, err := svc.Update(ctx, "user-1", res.ID, UpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Staff Engineer" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.PersonalInfo.FirstName != "Jane" {
		t.Fatalf("untouched section was modified: %+v", updated.PersonalInfo)
	}

	// Replacing a section replaces it wholesale.
	skills := []Skill{{Name: "Rust"}}
	updated, err = svc.Update(ctx, "user-1", res.ID, UpdateRequest{Skills: &skills})
	if err != nil {
		t.Fatalf("update skills: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Rust" {
		t.Fatalf("skills = %+v", updated.Skills)
	}
	if updated.Skills[0].Level != DefaultSkillLevel {
		t.Fatalf("defaults not applied on update: %+v", updated.Skills[0])
	}
}

func TestUpdateToPrivateClearsSlug(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := createRequest()
	req.IsPublic = true
	res, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	private := false
	updated, err := svc.Update(ctx, "user-1", res.ID, UpdateRequest{IsPublic: &private})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsPublic || updated.PublicSlug != "" {
		t.Fatalf("expected private slugless resume: %+v", updated)
	}
}

func TestUpdateRejectsInvalidMerge(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	_, err = svc.Update(ctx, "user-1", res.ID, UpdateRequest{Title: &empty})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Stored record is untouched.
	got, err := svc.Get(ctx, "user-1", res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Backend Engineer" {
		t.Fatalf("stored title = %q", got.Title)
	}
}

func TestOwnershipScoping(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner get: %v", err)
	}
	if err := svc.Delete(ctx, "user-2", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner delete: %v", err)
	}
	title := "Stolen"
	if _, err := svc.Update(ctx, "user-2", res.ID, UpdateRequest{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner update: %v", err)
	}
	if _, err := svc.Duplicate(ctx, "user-2", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner duplicate: %v", err)
	}
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", res.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestListOrderedByLastUpdate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, "user-1", createRequest())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Touch the older record so it sorts first.
	title := "Updated"
	if _, err := svc.Update(ctx, "user-1", first.ID, UpdateRequest{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("wrong order: %s, %s", list[0].ID, list[1].ID)
	}
}
