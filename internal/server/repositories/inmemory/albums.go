package inmemory

import (
	"context"
	"slices"
	"sort"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

type albumRow struct {
	models.Album
	seq int64
}

func (a *albumRow) snapshot() *models.Album {
	out := a.Album
	out.Photos = slices.Clone(a.Photos)
	if out.Photos == nil {
		out.Photos = []string{}
	}
	return &out
}

type albumRepo struct {
	s *Store
}

func (r *albumRepo) Create(_ context.Context, album *models.Album) (*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.Create"); err != nil {
		return nil, err
	}

	row := &albumRow{Album: models.Album{
		ID:          s.newID(),
		Title:       album.Title,
		Description: album.Description,
		Photos:      []string{},
		CreatedAt:   s.now(),
	}, seq: s.next()}
	s.albums[row.ID] = row

	return row.snapshot(), nil
}

func (r *albumRepo) GetByID(_ context.Context, id string) (*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.GetByID"); err != nil {
		return nil, err
	}

	row, ok := s.albums[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return row.snapshot(), nil
}

func (r *albumRepo) sorted() []*albumRow {
	rows := make([]*albumRow, 0, len(r.s.albums))
	for _, row := range r.s.albums {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return rows
}

func (r *albumRepo) List(_ context.Context) ([]*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.List"); err != nil {
		return nil, err
	}

	result := make([]*models.Album, 0, len(s.albums))
	for _, row := range r.sorted() {
		result = append(result, row.snapshot())
	}
	return result, nil
}

func (r *albumRepo) ListIDs(_ context.Context) ([]string, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.ListIDs"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(s.albums))
	for id := range s.albums {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *albumRepo) Update(_ context.Context, id string, upd models.AlbumUpdate) (*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.Update"); err != nil {
		return nil, err
	}

	row, ok := s.albums[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		row.Title = *upd.Title
	}
	if upd.Description != nil {
		row.Description = *upd.Description
	}
	return row.snapshot(), nil
}

// Delete removes the album and, like the foreign key cascade, its photos.
func (r *albumRepo) Delete(_ context.Context, id string) error {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.Delete"); err != nil {
		return err
	}

	if _, ok := s.albums[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.albums, id)
	for pid, p := range s.photos {
		if p.AlbumID == id {
			delete(s.photos, pid)
		}
	}
	return nil
}

func (r *albumRepo) AppendPhoto(_ context.Context, albumID, photoID string) (*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.AppendPhoto"); err != nil {
		return nil, err
	}

	row, ok := s.albums[albumID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !row.HasPhoto(photoID) {
		row.Photos = append(row.Photos, photoID)
	}
	return row.snapshot(), nil
}

func (r *albumRepo) RemovePhoto(_ context.Context, albumID, photoID string) (*models.Album, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.RemovePhoto"); err != nil {
		return nil, err
	}

	row, ok := s.albums[albumID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	row.Photos = slices.DeleteFunc(row.Photos, func(id string) bool { return id == photoID })
	return row.snapshot(), nil
}

func (r *albumRepo) Rebuild(_ context.Context, albumID string) ([]string, []string, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("albums.Rebuild"); err != nil {
		return nil, nil, err
	}

	row, ok := s.albums[albumID]
	if !ok {
		return nil, nil, common.ErrorNotFound
	}
	before := slices.Clone(row.Photos)

	var owned []*photoRow
	for _, p := range s.photos {
		if p.AlbumID == albumID {
			owned = append(owned, p)
		}
	}

	pos := func(id string) int {
		if i := slices.Index(before, id); i >= 0 {
			return i
		}
		return len(before)
	}
	sort.Slice(owned, func(i, j int) bool {
		pi, pj := pos(owned[i].ID), pos(owned[j].ID)
		if pi != pj {
			return pi < pj
		}
		if owned[i].seq != owned[j].seq {
			return owned[i].seq < owned[j].seq
		}
		return owned[i].ID < owned[j].ID
	})

	after := make([]string, 0, len(owned))
	for _, p := range owned {
		after = append(after, p.ID)
	}
	row.Photos = after

	if before == nil {
		before = []string{}
	}
	return before, slices.Clone(after), nil
}
