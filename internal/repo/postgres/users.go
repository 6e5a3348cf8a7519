package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/open-gym/backend/internal/domain/user"
	"github.com/open-gym/backend/internal/observability"
)

const userColumns = `id, username, first_name, last_name, email, hashed_password, is_active, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users ORDER BY id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			var u user.User

			if err := rows.Scan(scanTargets(&u)...); err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Create inserts the row without a password hash; timestamps come from the
// server so the creation-time salt is the database's clock, not ours.
func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (username, first_name, last_name, email)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			req.Username, req.FirstName, req.LastName, req.Email,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		return user.User{}, classifyUnique(err)
	}

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
			SET username = $2,
					first_name = $3,
					last_name = $4,
					email = $5,
					updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, req.Username, req.FirstName, req.LastName, req.Email,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, classifyUnique(err)
	}

	return u, nil
}

// Delete removes the row and returns it, so callers can echo the deleted
// record back to the client.
func (r *UsersRepo) Delete(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.delete", func() error {
		return r.pool.QueryRow(ctx,
			`DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) SetPassword(ctx context.Context, id int64, digest string) (user.User, error) {
	var u user.User

	err := r.observe("users.set_password", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users SET hashed_password = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, digest,
		).Scan(scanTargets(&u)...)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func scanTargets(u *user.User) []interface{} {
	return []interface{}{
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.HashedPassword,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	}
}

// classifyUnique maps 23505 violations onto the domain's taken errors using
// the constraint name.
func classifyUnique(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return user.ErrUsernameTaken
		case "users_email_key":
			return user.ErrEmailTaken
		}
	}

	return err
}
