package inmemory

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

type photoRow struct {
	models.Photo
	seq int64
}

type photoRepo struct {
	s *Store
}

func (r *photoRepo) Create(_ context.Context, photo *models.Photo) (*models.Photo, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("photos.Create"); err != nil {
		return nil, err
	}

	if _, ok := s.albums[photo.AlbumID]; !ok {
		return nil, common.ErrorNotFound
	}

	row := &photoRow{Photo: *photo, seq: s.next()}
	row.ID = s.newID()
	row.CreatedAt = s.now()
	s.photos[row.ID] = row

	p := row.Photo
	return &p, nil
}

func (r *photoRepo) GetInAlbum(_ context.Context, albumID, photoID string) (*models.Photo, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("photos.GetInAlbum"); err != nil {
		return nil, err
	}

	row, ok := s.photos[photoID]
	if !ok || row.AlbumID != albumID {
		return nil, common.ErrorNotFound
	}
	p := row.Photo
	return &p, nil
}

func (r *photoRepo) ListByAlbum(_ context.Context, albumID string) ([]*models.Photo, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("photos.ListByAlbum"); err != nil {
		return nil, err
	}

	result := make([]*models.Photo, 0)
	album, ok := s.albums[albumID]
	if !ok {
		return result, nil
	}
	for _, id := range album.Photos {
		row, ok := s.photos[id]
		if !ok || row.AlbumID != albumID {
			continue
		}
		p := row.Photo
		result = append(result, &p)
	}
	return result, nil
}

func (r *photoRepo) UpdateInAlbum(_ context.Context, albumID, photoID string, upd models.PhotoUpdate) (*models.Photo, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("photos.UpdateInAlbum"); err != nil {
		return nil, err
	}

	row, ok := s.photos[photoID]
	if !ok || row.AlbumID != albumID {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		row.Title = *upd.Title
	}
	if upd.URL != nil {
		row.URL = *upd.URL
	}
	if upd.Description != nil {
		row.Description = *upd.Description
	}
	p := row.Photo
	return &p, nil
}

func (r *photoRepo) DeleteInAlbum(_ context.Context, albumID, photoID string) (bool, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("photos.DeleteInAlbum"); err != nil {
		return false, err
	}

	row, ok := s.photos[photoID]
	if !ok || row.AlbumID != albumID {
		return false, nil
	}
	delete(s.photos, photoID)
	return true, nil
}
