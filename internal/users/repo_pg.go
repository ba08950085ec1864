package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores users in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

const upsertUserQuery = `
INSERT INTO users (id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (id) DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name,
    picture_url = EXCLUDED.picture_url,
    updated_at = NOW()
RETURNING id, email, full_name, picture_url, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, u User) (User, error) {
	row := r.DB.QueryRowContext(ctx, upsertUserQuery, u.ID, u.Email, u.Name, nullable(u.PictureURL))
	return scanUser(row)
}

const getUserQuery = `
SELECT id, email, full_name, picture_url, created_at, updated_at
FROM users
WHERE id = $1`

func (r *PGRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, getUserQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u       User
		picture sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &picture, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.PictureURL = picture.String
	return u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
