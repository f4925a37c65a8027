package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clemente-pps/flixfinder/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate indicates a uniqueness constraint rejected the write.
var ErrDuplicate = errors.New("repository: duplicate")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Preferences *PreferencesRepository
	Catalog     *CatalogRepository
	Users       *UsersRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Preferences: &PreferencesRepository{pool: pool},
		Catalog:     &CatalogRepository{pool: pool},
		Users:       &UsersRepository{pool: pool},
	}
}
