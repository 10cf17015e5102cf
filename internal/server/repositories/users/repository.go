// Package users is the read-only user directory.
package users

import (
	"context"

	"github.com/dmitrijs2005/memorylane/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	CountMemories(ctx context.Context, userID string) (int, error)
}
