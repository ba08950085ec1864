package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres. Both invariants run inside the
// writing transaction: sibling default flags are cleared before the row
// is written, and slug assignment is backed by the partial unique index
// on public_slug, with the whole transaction retried when a concurrent
// publisher wins the same candidate slug.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

const slugRetryAttempts = 3

const resumeColumns = `id, user_id, title, personal_info, education, experience, skills, projects, certifications, languages, is_default, is_public, public_slug, created_at, updated_at`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	var out Resume
	err := r.withSlugRetry(ctx, func(tx *sql.Tx) error {
		stored := res
		now := time.Now().UTC()
		stored.CreatedAt = now
		stored.UpdatedAt = now
		if err := applyWriteInvariants(ctx, tx, &stored); err != nil {
			return err
		}

		cols, err := marshalSections(stored)
		if err != nil {
			return err
		}

		const query = `
INSERT INTO resumes (
    id, user_id, title, personal_info, education, experience, skills,
    projects, certifications, languages, is_default, is_public,
    public_slug, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		if _, err := tx.ExecContext(ctx, query,
			stored.ID,
			stored.UserID,
			stored.Title,
			cols.personalInfo,
			cols.education,
			cols.experience,
			cols.skills,
			cols.projects,
			cols.certifications,
			cols.languages,
			stored.IsDefault,
			stored.IsPublic,
			nullableSlug(stored.PublicSlug),
			stored.CreatedAt,
			stored.UpdatedAt,
		); err != nil {
			return err
		}

		out = stored
		return nil
	})
	if err != nil {
		return Resume{}, err
	}
	return out, nil
}

// GetByID fetches a resume scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// ListByUser lists a user's resumes ordered by last update, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update replaces a stored resume scoped to its owner.
func (r *PGRepo) Update(ctx context.Context, res Resume) (Resume, error) {
	var out Resume
	err := r.withSlugRetry(ctx, func(tx *sql.Tx) error {
		stored := res
		stored.UpdatedAt = time.Now().UTC()
		if err := applyWriteInvariants(ctx, tx, &stored); err != nil {
			return err
		}

		cols, err := marshalSections(stored)
		if err != nil {
			return err
		}

		const query = `
UPDATE resumes
SET title = $3,
    personal_info = $4,
    education = $5,
    experience = $6,
    skills = $7,
    projects = $8,
    certifications = $9,
    languages = $10,
    is_default = $11,
    is_public = $12,
    public_slug = $13,
    updated_at = $14
WHERE id = $1 AND user_id = $2`
		result, err := tx.ExecContext(ctx, query,
			stored.ID,
			stored.UserID,
			stored.Title,
			cols.personalInfo,
			cols.education,
			cols.experience,
			cols.skills,
			cols.projects,
			cols.certifications,
			cols.languages,
			stored.IsDefault,
			stored.IsPublic,
			nullableSlug(stored.PublicSlug),
			stored.UpdatedAt,
		)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		out = stored
		return nil
	})
	if err != nil {
		return Resume{}, err
	}
	return out, nil
}

// Delete removes a resume scoped to its owner.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBySlug returns the resume published under the given slug.
func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE public_slug = $1 AND is_public
LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

// withSlugRetry runs fn in a transaction and retries it when the commit
// loses a slug uniqueness race to a concurrent publisher.
func (r *PGRepo) withSlugRetry(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < slugRetryAttempts; attempt++ {
		tx, err := r.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("assign public slug: %w", lastErr)
}

// applyWriteInvariants enforces the default-resume and slug invariants
// for a record about to be written within tx.
func applyWriteInvariants(ctx context.Context, tx *sql.Tx, res *Resume) error {
	if res.IsDefault {
		const clearSiblings = `
UPDATE resumes
SET is_default = FALSE
WHERE user_id = $1 AND id <> $2 AND is_default`
		if _, err := tx.ExecContext(ctx, clearSiblings, res.UserID, res.ID); err != nil {
			return fmt.Errorf("clear default siblings: %w", err)
		}
	}

	if !res.IsPublic {
		res.PublicSlug = ""
		return nil
	}
	if res.PublicSlug != "" {
		return nil
	}

	base := Slugify(res.PersonalInfo.FirstName, res.PersonalInfo.LastName)
	slug, err := nextFreeSlug(ctx, tx, base)
	if err != nil {
		return err
	}
	res.PublicSlug = slug
	return nil
}

// nextFreeSlug picks the first unused candidate for base. The partial
// unique index on public_slug is the true guard; this keeps the common
// case collision-free without locking.
func nextFreeSlug(ctx context.Context, tx *sql.Tx, base string) (string, error) {
	const query = `
SELECT public_slug
FROM resumes
WHERE public_slug = $1 OR public_slug LIKE $1 || '-%'`
	rows, err := tx.QueryContext(ctx, query, base)
	if err != nil {
		return "", fmt.Errorf("load used slugs: %w", err)
	}
	defer rows.Close()

	used := make(map[string]struct{})
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return "", err
		}
		used[slug] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	for n := 0; ; n++ {
		candidate := slugCandidate(base, n)
		if _, taken := used[candidate]; !taken {
			return candidate, nil
		}
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableSlug(slug string) sql.NullString {
	if slug == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: slug, Valid: true}
}

type sectionColumns struct {
	personalInfo   []byte
	education      []byte
	experience     []byte
	skills         []byte
	projects       []byte
	certifications []byte
	languages      []byte
}

func marshalSections(res Resume) (sectionColumns, error) {
	normalized := res.clone()
	var cols sectionColumns
	var err error
	if cols.personalInfo, err = json.Marshal(normalized.PersonalInfo); err != nil {
		return cols, fmt.Errorf("encode personal info: %w", err)
	}
	if cols.education, err = json.Marshal(normalized.Education); err != nil {
		return cols, fmt.Errorf("encode education: %w", err)
	}
	if cols.experience, err = json.Marshal(normalized.Experience); err != nil {
		return cols, fmt.Errorf("encode experience: %w", err)
	}
	if cols.skills, err = json.Marshal(normalized.Skills); err != nil {
		return cols, fmt.Errorf("encode skills: %w", err)
	}
	if cols.projects, err = json.Marshal(normalized.Projects); err != nil {
		return cols, fmt.Errorf("encode projects: %w", err)
	}
	if cols.certifications, err = json.Marshal(normalized.Certifications); err != nil {
		return cols, fmt.Errorf("encode certifications: %w", err)
	}
	if cols.languages, err = json.Marshal(normalized.Languages); err != nil {
		return cols, fmt.Errorf("encode languages: %w", err)
	}
	return cols, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var personalInfo, education, experience, skills, projects, certifications, languages []byte
	var slug sql.NullString
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&personalInfo,
		&education,
		&experience,
		&skills,
		&projects,
		&certifications,
		&languages,
		&res.IsDefault,
		&res.IsPublic,
		&slug,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if slug.Valid {
		res.PublicSlug = slug.String
	}

	sections := []struct {
		data []byte
		dst  any
	}{
		{personalInfo, &res.PersonalInfo},
		{education, &res.Education},
		{experience, &res.Experience},
		{skills, &res.Skills},
		{projects, &res.Projects},
		{certifications, &res.Certifications},
		{languages, &res.Languages},
	}
	for _, s := range sections {
		if len(s.data) == 0 {
			continue
		}
		if err := json.Unmarshal(s.data, s.dst); err != nil {
			return Resume{}, fmt.Errorf("decode resume sections: %w", err)
		}
	}
	return res.clone(), nil
}

var _ Repo = (*PGRepo)(nil)
