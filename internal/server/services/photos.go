package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/metrics"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/albums"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
)

const (
	opAttach = "attach"
	opDetach = "detach"
)

// PhotoService keeps a photo's album reference and the album's photo list in
// step. Every mutation writes the photo first and the album list second,
// without a transaction. When the second write fails the caller gets a
// *common.PartialWriteError and the reconciler repairs the list later.
type PhotoService struct {
	db          dbx.Provider
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPhotoService(db dbx.Provider, m repomanager.RepositoryManager, log logging.Logger) *PhotoService {
	return &PhotoService{db: db, repomanager: m, log: log.With("module", "photos")}
}

func (s *PhotoService) repos() (photos.Repository, albums.Repository, error) {
	conn, err := s.db.Conn()
	if err != nil {
		return nil, nil, err
	}
	return s.repomanager.Photos(conn), s.repomanager.Albums(conn), nil
}

// AttachPhoto stores draft in albumID and appends its id to the album list.
// It returns the stored photo and the album as updated. A missing album
// yields common.ErrorNotFound and nothing is written.
func (s *PhotoService) AttachPhoto(ctx context.Context, albumID string, draft models.Photo) (*models.Photo, *models.Album, error) {
	photoRepo, albumRepo, err := s.repos()
	if err != nil {
		return nil, nil, err
	}

	draft.AlbumID = albumID
	photo, err := photoRepo.Create(ctx, &draft)
	if err != nil {
		return nil, nil, storeErr(s.db, err)
	}

	album, err := albumRepo.AppendPhoto(ctx, albumID, photo.ID)
	if err != nil {
		return nil, nil, s.partialWrite(ctx, opAttach, albumID, photo.ID, err)
	}

	return photo, album, nil
}

// DetachPhoto deletes photoID from albumID and removes it from the album
// list. The list update runs even when no photo was deleted, so repeating the
// call is harmless. It returns the album as updated, or nil when the album
// does not exist.
func (s *PhotoService) DetachPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error) {
	photoRepo, albumRepo, err := s.repos()
	if err != nil {
		return nil, err
	}

	if _, err := photoRepo.DeleteInAlbum(ctx, albumID, photoID); err != nil {
		return nil, storeErr(s.db, err)
	}

	album, err := albumRepo.RemovePhoto(ctx, albumID, photoID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.partialWrite(ctx, opDetach, albumID, photoID, err)
	}

	return album, nil
}

func (s *PhotoService) partialWrite(ctx context.Context, op, albumID, photoID string, cause error) error {
	if !errors.Is(cause, common.ErrDependencyUnavailable) {
		s.db.ReportFailure(cause)
	}
	metrics.PartialWritesTotal.WithLabelValues(op).Inc()

	pw := &common.PartialWriteError{Op: op, AlbumID: albumID, PhotoID: photoID, Err: cause}
	s.log.Error(ctx, "album photo list not updated", "op", op, "album_id", albumID, "photo_id", photoID, "error", cause)
	return pw
}

func (s *PhotoService) Get(ctx context.Context, albumID, photoID string) (*models.Photo, error) {
	photoRepo, _, err := s.repos()
	if err != nil {
		return nil, err
	}
	p, err := photoRepo.GetInAlbum(ctx, albumID, photoID)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return p, nil
}

// ListByAlbum returns the album photos in list order; an unknown album has none.
func (s *PhotoService) ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error) {
	photoRepo, _, err := s.repos()
	if err != nil {
		return nil, err
	}
	list, err := photoRepo.ListByAlbum(ctx, albumID)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return list, nil
}

// Update edits the photo fields. The album reference is not editable.
func (s *PhotoService) Update(ctx context.Context, albumID, photoID string, upd models.PhotoUpdate) (*models.Photo, error) {
	photoRepo, _, err := s.repos()
	if err != nil {
		return nil, err
	}
	p, err := photoRepo.UpdateInAlbum(ctx, albumID, photoID, upd)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return p, nil
}
