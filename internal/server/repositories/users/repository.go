package users

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

type Repository interface {
	// Create stores user under a fresh id. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// Delete removes the user and returns the deleted record.
	Delete(ctx context.Context, id string) (*models.User, error)
}
