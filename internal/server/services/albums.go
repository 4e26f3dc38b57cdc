package services

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/albums"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
)

type AlbumService struct {
	db          dbx.Provider
	repomanager repomanager.RepositoryManager
}

func NewAlbumService(db dbx.Provider, m repomanager.RepositoryManager) *AlbumService {
	return &AlbumService{db: db, repomanager: m}
}

func (s *AlbumService) albums() (albums.Repository, error) {
	conn, err := s.db.Conn()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Albums(conn), nil
}

func (s *AlbumService) Create(ctx context.Context, title, description string) (*models.Album, error) {
	repo, err := s.albums()
	if err != nil {
		return nil, err
	}
	a, err := repo.Create(ctx, &models.Album{Title: title, Description: description})
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return a, nil
}

func (s *AlbumService) Get(ctx context.Context, id string) (*models.Album, error) {
	repo, err := s.albums()
	if err != nil {
		return nil, err
	}
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return a, nil
}

func (s *AlbumService) List(ctx context.Context) ([]*models.Album, error) {
	repo, err := s.albums()
	if err != nil {
		return nil, err
	}
	list, err := repo.List(ctx)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return list, nil
}

func (s *AlbumService) Update(ctx context.Context, id string, upd models.AlbumUpdate) (*models.Album, error) {
	repo, err := s.albums()
	if err != nil {
		return nil, err
	}
	a, err := repo.Update(ctx, id, upd)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return a, nil
}

// Delete removes the album together with its photos.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	repo, err := s.albums()
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return storeErr(s.db, err)
	}
	return nil
}
