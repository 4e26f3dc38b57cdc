package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/auth"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/users"
)

// NewUser is the signup payload after validation.
type NewUser struct {
	FirstName string
	LastName  string
	UserName  string
	Password  []byte
	Avatar    string
	Age       int
	City      string
}

// UserService handles signup, login and account lookup. Tokens are stateless;
// nothing is stored at login.
type UserService struct {
	db                    dbx.Provider
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db dbx.Provider, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.JWTSecret),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func (s *UserService) users() (users.Repository, error) {
	conn, err := s.db.Conn()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users(conn), nil
}

// Register creates an account. A taken username yields
// common.ErrorAlreadyExists, whether spotted up front or by the unique index.
func (s *UserService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	repo, err := s.users()
	if err != nil {
		return nil, err
	}

	_, err = repo.GetByUserName(ctx, in.UserName)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storeErr(s.db, err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	u, err := repo.Create(ctx, &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		PasswordHash: hash,
		Avatar:       in.Avatar,
		Age:          in.Age,
		City:         in.City,
	})
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return u, nil
}

// Login checks the credentials and mints an access token. An unknown user
// yields common.ErrorNotFound and a bad password common.ErrorWrongPassword.
func (s *UserService) Login(ctx context.Context, userName string, password []byte) (string, error) {
	repo, err := s.users()
	if err != nil {
		return "", err
	}

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		return "", storeErr(s.db, err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorWrongPassword) {
			return "", err
		}
		return "", fmt.Errorf("%w: comparing password: %v", common.ErrorInternal, err)
	}

	token, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", common.ErrorInternal, err)
	}
	return token, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	repo, err := s.users()
	if err != nil {
		return nil, err
	}
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return u, nil
}

// Delete removes the account and returns it.
func (s *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	repo, err := s.users()
	if err != nil {
		return nil, err
	}
	u, err := repo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr(s.db, err)
	}
	return u, nil
}
