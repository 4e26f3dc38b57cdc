package inmemory

import (
	"context"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
)

type userRow struct {
	models.User
}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("users.Create"); err != nil {
		return nil, err
	}

	for _, u := range s.users {
		if u.UserName == user.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}

	row := &userRow{User: *user}
	row.ID = s.newID()
	row.CreatedAt = s.now()
	s.users[row.ID] = row

	u := row.User
	return &u, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("users.GetByID"); err != nil {
		return nil, err
	}

	row, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := row.User
	return &u, nil
}

func (r *userRepo) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("users.GetByUserName"); err != nil {
		return nil, err
	}

	for _, row := range s.users {
		if row.UserName == userName {
			u := row.User
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) Delete(_ context.Context, id string) (*models.User, error) {
	s := r.s
	defer s.mu.Unlock()
	if err := s.lock("users.Delete"); err != nil {
		return nil, err
	}

	row, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(s.users, id)
	u := row.User
	return &u, nil
}
