package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateEmail = errors.New("a user with that email already exists")

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Create(ctx context.Context, u *User) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, phone, college, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'user'))
		RETURNING id, role, created_at
	`, strings.ToLower(u.Email), u.FullName, u.Phone, u.College, u.Password.Hash(), u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	var hash []byte
	err := r.q.QueryRow(ctx, `
		SELECT id, email, full_name, phone, college, avatar_url, role, password_hash, created_at
		FROM profiles WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.College, &u.AvatarURL, &u.Role, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Password.SetHash(hash)
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	var hash []byte
	err := r.q.QueryRow(ctx, `
		SELECT id, email, full_name, phone, college, avatar_url, role, password_hash, created_at
		FROM profiles WHERE email = $1
	`, strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.College, &u.AvatarURL, &u.Role, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u.Password.SetHash(hash)
	return &u, nil
}
