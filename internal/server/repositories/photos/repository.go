package photos

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

// Repository persists photos. Every lookup is scoped by album id so a photo is
// only reachable through the album it belongs to.
type Repository interface {
	// Create inserts photo under a fresh id. A missing album yields
	// common.ErrorNotFound.
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetInAlbum(ctx context.Context, albumID, photoID string) (*models.Photo, error)
	// ListByAlbum returns the photos named by the album photo list, in list order.
	ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error)
	UpdateInAlbum(ctx context.Context, albumID, photoID string, upd models.PhotoUpdate) (*models.Photo, error)
	// DeleteInAlbum reports whether a photo was removed.
	DeleteInAlbum(ctx context.Context, albumID, photoID string) (bool, error)
}
