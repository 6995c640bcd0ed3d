// Package users is the data-access layer for user identity records.
package users

import (
	"context"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/models"
)

// Repository describes user persistence. Implementations map driver errors
// to the shared sentinels: common.ErrNotFound for missing rows and
// common.ErrConflict for username uniqueness violations.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateEmail(ctx context.Context, id int64, email string) error
}
