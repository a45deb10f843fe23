package repository

import (
	"github.com/BloggingApp/blog-service/internal/repository/memrepo"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Store *postgres.PostgresRepository
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		Store: postgres.New(db),
	}
}

// NewInMemory backs the same interfaces with process memory. Data is lost on
// restart.
func NewInMemory() *Repository {
	return &Repository{
		Store: memrepo.New(),
	}
}
