package storage

import (
	"context"

	"kyc-gateway/internal/domain"
)

// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory or external persistence without rewiring business code.
// Implementations return sentinel.ErrNotFound for missing rows.

type UserStore interface {
	Save(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	NextAutoID(ctx context.Context) (int, error)
}

type ApplicationStore interface {
	Save(ctx context.Context, app domain.Application) error
	FindByID(ctx context.Context, id string) (domain.Application, error)
	// FindActiveByUser returns the most recent non-terminal application for
	// the user, or sentinel.ErrNotFound.
	FindActiveByUser(ctx context.Context, userID string) (domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Application, error)
}

type DocumentStore interface {
	Save(ctx context.Context, doc domain.Document) error
	FindByID(ctx context.Context, id string) (domain.Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error)
}

type StageStore interface {
	Save(ctx context.Context, stage domain.Stage) error
	// Find returns the single row for (application, stage name).
	Find(ctx context.Context, applicationID string, name domain.StageName) (domain.Stage, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.Stage, error)
}
