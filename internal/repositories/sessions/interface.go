// Package sessions is the data-access layer for session records. Rows hold
// only metadata and the vault lookup key, never secret material.
package sessions

import (
	"context"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/models"
)

// Repository describes session persistence. Create surfaces a token-id
// uniqueness violation as common.ErrConflict so callers can regenerate the
// token and retry; GetByID returns common.ErrNotFound for missing rows;
// DeleteByID is idempotent.
type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	DeleteByID(ctx context.Context, id int64) error
}
