package repository

import (
	"context"
	"database/sql"
	"time"

	"purpleair_monitor/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// EventRepo is the append-only poll diagnostics log. The engine's reading
// cache is in-memory only and never persisted; only attempt outcomes land
// here.
type EventRepo interface {
	Append(ctx context.Context, e models.PollEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PollEvent, error)
}

type Repository struct {
	Events EventRepo
	Auth   Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Events: NewEventSQLite(db),
		Auth:   NewUserRepository(db),
	}
}
