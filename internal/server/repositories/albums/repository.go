package albums

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

// Repository persists albums. AppendPhoto and RemovePhoto are single-statement
// atomic list mutations; both are idempotent.
type Repository interface {
	Create(ctx context.Context, album *models.Album) (*models.Album, error)
	GetByID(ctx context.Context, id string) (*models.Album, error)
	List(ctx context.Context) ([]*models.Album, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id string, upd models.AlbumUpdate) (*models.Album, error)
	Delete(ctx context.Context, id string) error

	AppendPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error)
	RemovePhoto(ctx context.Context, albumID, photoID string) (*models.Album, error)

	// Rebuild replaces the album photo list with the ids of the photos that
	// reference it. Ids already listed keep their relative order; the rest
	// follow by creation time. It returns the list before and after.
	Rebuild(ctx context.Context, albumID string) (before, after []string, err error)
}
