package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/outreach/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrNotFound is returned when a mutation targets a row that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
)

type AccountRepo interface {
	// CreateFirstAccount inserts the account only while the collection is empty.
	// It reports false when another account already exists.
	CreateFirstAccount(ctx context.Context, a *models.Account) (int64, bool, error)
	CreateAccount(ctx context.Context, a *models.Account) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	CountAccounts(ctx context.Context) (int64, error)
}

type MediaRepo interface {
	CreateMedia(ctx context.Context, m *models.MediaItem) (int64, error)
	GetMedia(ctx context.Context, id int64) (*models.MediaItem, error)
	ListMedia(ctx context.Context) ([]models.MediaItem, error)
	DeleteMedia(ctx context.Context, id int64) error
}

type InquiryRepo interface {
	CreateInquiry(ctx context.Context, i *models.Inquiry) (int64, error)
}
