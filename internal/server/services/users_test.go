package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name string) NewUser {
	return NewUser{
		FirstName: "Ada", LastName: "Lovelace", UserName: name,
		Password: []byte("s3cret"), Avatar: "a.png", Age: 36, City: "London",
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	e := newEnv(t)

	u, err := e.users.Register(context.Background(), newUser("ada"))
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "ada", u.UserName)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.NoError(t, auth.ComparePassword(u.PasswordHash, []byte("s3cret")))
}

func TestRegister_DuplicateUserName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, newUser("ada"))
	require.NoError(t, err)

	_, err = e.users.Register(ctx, newUser("ada"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_ConcurrentSameUserNameKeepsOne(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.users.Register(ctx, newUser("race"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, newUser("ada"))
	require.NoError(t, err)

	token, err := e.users.Login(ctx, "ada", []byte("s3cret"))
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, []byte(e.cfg.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID())
	assert.Equal(t, "ada", claims.Username)

	_, err = e.users.Login(ctx, "ada", []byte("nope"))
	assert.ErrorIs(t, err, common.ErrorWrongPassword)

	_, err = e.users.Login(ctx, "ghost", []byte("s3cret"))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_GetAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, newUser("ada"))
	require.NoError(t, err)

	got, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.UserName)

	_, err = e.users.Delete(ctx, u.ID)
	require.NoError(t, err)

	_, err = e.users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.users.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_StoreNotConnected(t *testing.T) {
	e := newEnv(t)
	e.db.err = common.ErrDependencyUnavailable

	_, err := e.users.Register(context.Background(), newUser("ada"))
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
	_, err = e.users.Login(context.Background(), "ada", []byte("x"))
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
	assert.Zero(t, e.db.reports())
}

func TestUserService_StoreErrorIsReported(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("connection reset by peer")
	e.failOn("users.GetByID", boom)

	_, err := e.users.Get(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, e.db.reports())
}

func TestStoreErr_PassesSentinels(t *testing.T) {
	p := &fakeProvider{}
	for _, sentinel := range []error{common.ErrorNotFound, common.ErrorAlreadyExists, common.ErrDependencyUnavailable} {
		err := storeErr(p, fmt.Errorf("wrapped: %w", sentinel))
		assert.ErrorIs(t, err, sentinel)
	}
	assert.Zero(t, p.reports())
}
