package resumes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgTestResume() Resume {
	return Resume{
		ID:     "res-1",
		UserID: "user-1",
		Title:  "Backend Engineer",
		PersonalInfo: PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		},
	}
}

func TestPGRepoCreatePrivateResume(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	res := pgTestResume()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			res.ID,
			res.UserID,
			res.Title,
			sqlmock.AnyArg(), // personal_info
			sqlmock.AnyArg(), // education
			sqlmock.AnyArg(), // experience
			sqlmock.AnyArg(), // skills
			sqlmock.AnyArg(), // projects
			sqlmock.AnyArg(), // certifications
			sqlmock.AnyArg(), // languages
			false,
			false,
			sqlmock.AnyArg(), // public_slug (NULL)
			sqlmock.AnyArg(), // created_at
			sqlmock.AnyArg(), // updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), res)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublicSlug != "" {
		t.Fatalf("private create should not assign a slug, got %q", created.PublicSlug)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not stamped: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreatePublicDefaultAppliesInvariants(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	res := pgTestResume()
	res.IsDefault = true
	res.IsPublic = true

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes").
		WithArgs(res.UserID, res.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT public_slug").
		WithArgs("jane-doe").
		WillReturnRows(sqlmock.NewRows([]string{"public_slug"}).
			AddRow("jane-doe").
			AddRow("jane-doe-1"))
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			res.ID,
			res.UserID,
			res.Title,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			true,
			true,
			"jane-doe-2",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), res)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublicSlug != "jane-doe-2" {
		t.Fatalf("slug = %q, want jane-doe-2", created.PublicSlug)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRetriesOnSlugRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	res := pgTestResume()
	res.IsPublic = true

	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "resumes_public_slug_key"}

	// First attempt loses the race to a concurrent publisher.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT public_slug").
		WithArgs("jane-doe").
		WillReturnRows(sqlmock.NewRows([]string{"public_slug"}))
	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(uniqueErr)
	mock.ExpectRollback()

	// Second attempt sees the winner's slug and picks the next one.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT public_slug").
		WithArgs("jane-doe").
		WillReturnRows(sqlmock.NewRows([]string{"public_slug"}).AddRow("jane-doe"))
	mock.ExpectExec("INSERT INTO resumes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), res)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublicSlug != "jane-doe-1" {
		t.Fatalf("slug = %q, want jane-doe-1", created.PublicSlug)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRowReportsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	res := pgTestResume()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := repo.Update(context.Background(), res); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteMissingRowReportsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("missing", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
