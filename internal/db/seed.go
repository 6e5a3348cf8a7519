package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/open-gym/backend/internal/config"
	"github.com/open-gym/backend/internal/security"
)

// EnsureBootstrapUser seeds an initial account when one is configured. Every
// /user route sits behind the auth gate, so without this a fresh database
// has no way to ever issue a token.
func EnsureBootstrapUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return nil
	}

	return SeedUser(ctx, pool, cfg.SecretKey, SeedParams{
		Username:  cfg.BootstrapUsername,
		FirstName: cfg.BootstrapFirstName,
		LastName:  cfg.BootstrapLastName,
		Email:     cfg.BootstrapEmail,
		Password:  cfg.BootstrapPassword,
	})
}

// SeedParams describes an account to seed directly, bypassing the API.
type SeedParams struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// SeedUser inserts the account if it does not already exist. Existing rows
// are left untouched, password included.
func SeedUser(ctx context.Context, pool *pgxpool.Pool, secret string, p SeedParams) error {
	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, p.Username).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// Two steps: the salt is derived from the server-assigned created_at, so
	// the row has to exist before the digest can be computed.

	var id int64
	var createdAt time.Time

	err = pool.QueryRow(ctx,
		`INSERT INTO users (username, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		p.Username, p.FirstName, p.LastName, p.Email,
	).Scan(&id, &createdAt)

	if err != nil {
		return err
	}

	digest, err := security.HashPassword(secret, p.Password, security.Salt(createdAt))

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`UPDATE users SET hashed_password = $2 WHERE id = $1`, id, digest)

	return err
}
