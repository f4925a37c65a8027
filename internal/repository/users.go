package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clemente-pps/flixfinder/internal/domain"
)

// UsersRepository persists accounts for the auth subsystem.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    first_name,
    last_name,
    email,
    phone,
    password_hash,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to register a user.
type UserCreateParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
}

// Create inserts a new user. A duplicate email (case-insensitive) yields
// ErrDuplicate rather than a raw constraint violation.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO users (first_name, last_name, email, phone, password_hash)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query,
		params.FirstName, params.LastName, params.Email, params.Phone, params.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrDuplicate
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email, ignoring case.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UserProfileParams carries a partial profile update. Nil fields leave the
// stored value unchanged.
type UserProfileParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile applies the non-nil fields to the user's profile and returns
// the updated record.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id string, params UserProfileParams) (domain.User, error) {
	query := fmt.Sprintf(`
        UPDATE users SET
            first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name),
            phone = COALESCE($4, phone),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, params.FirstName, params.LastName, params.Phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword replaces the user's credential hash.
func (r *UsersRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE users SET password_hash = $2, updated_at = now()
        WHERE id = $1
        RETURNING id
    `
	var updatedID string
	if err := r.pool.QueryRow(ctx, query, id, passwordHash).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
