package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffPhotoLists(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantRemoved []string
		wantLinked  []string
	}{
		{"unchanged", []string{"a", "b"}, []string{"a", "b"}, nil, nil},
		{"dangling", []string{"a", "x", "b"}, []string{"a", "b"}, []string{"x"}, nil},
		{"orphan", []string{"a"}, []string{"a", "b"}, nil, []string{"b"}},
		{"duplicate", []string{"a", "a"}, []string{"a"}, []string{"a"}, nil},
		{"both", []string{"x"}, []string{"y"}, []string{"x"}, []string{"y"}},
		{"empty", nil, []string{}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, linked := DiffPhotoLists(tt.before, tt.after)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.wantLinked, linked)
		})
	}
}

func TestReconciler_RepairsAndIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	raw := inmemory.NewManager(e.store)

	clean := newAlbum(t, e)
	_, _, err := e.photos.AttachPhoto(ctx, clean.ID, photoDraft("ok"))
	require.NoError(t, err)

	broken := newAlbum(t, e)
	orphan, err := raw.Photos(nil).Create(ctx, &models.Photo{AlbumID: broken.ID, Title: "orphan"})
	require.NoError(t, err)
	_, err = raw.Albums(nil).AppendPhoto(ctx, broken.ID, "dangling")
	require.NoError(t, err)

	report, err := e.reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ReconcileReport{
		AlbumsScanned:   2,
		AlbumsRepaired:  1,
		DanglingRemoved: 1,
		OrphansLinked:   1,
	}, report)

	got, err := e.albums.Get(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.ID}, got.Photos)

	again, err := e.reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ReconcileReport{AlbumsScanned: 2}, again)
}

func TestReconciler_SkipsAlbumsDeletedMidPass(t *testing.T) {
	e := newEnv(t)
	newAlbum(t, e)
	newAlbum(t, e)

	calls := 0
	e.store.SetFault(func(op string) error {
		if op == "albums.Rebuild" {
			calls++
			if calls == 1 {
				return common.ErrorNotFound
			}
		}
		return nil
	})

	report, err := e.reconciler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.AlbumsScanned)
}

func TestReconciler_StoreErrors(t *testing.T) {
	e := newEnv(t)
	newAlbum(t, e)

	e.failOn("albums.Rebuild", errors.New("broken pipe"))
	_, err := e.reconciler.Run(context.Background())
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
	assert.Equal(t, 1, e.db.reports())

	e.store.SetFault(nil)
	e.db.err = common.ErrDependencyUnavailable
	_, err = e.reconciler.Run(context.Background())
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
}

func TestReconciler_StopsOnCancelledContext(t *testing.T) {
	e := newEnv(t)
	newAlbum(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.reconciler.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconciler_RunEvery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := newAlbum(t, e)
	_, err := inmemory.NewManager(e.store).Albums(nil).AppendPhoto(ctx, a.ID, "dangling")
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.reconciler.RunEvery(runCtx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		got, err := e.albums.Get(ctx, a.ID)
		return err == nil && len(got.Photos) == 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunEvery did not stop")
	}
}

func TestReconciler_RunEveryDisabled(t *testing.T) {
	e := newEnv(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.reconciler.RunEvery(context.Background(), 0)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunEvery with zero interval should return at once")
	}
}
