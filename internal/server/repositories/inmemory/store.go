// Package inmemory is a map-backed RepositoryManager. Each repository call is
// atomic with respect to the others, mirroring the per-row atomicity of the
// PostgreSQL repositories. It backs service tests and local experiments.
package inmemory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/albums"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Fault is consulted at the start of every repository call with the
// operation name (for example "albums.AppendPhoto"). A non-nil result is
// returned to the caller and the call has no effect.
type Fault func(op string) error

type Store struct {
	mu     sync.Mutex
	users  map[string]*userRow
	albums map[string]*albumRow
	photos map[string]*photoRow
	seq    int64

	fault Fault
	now   func() time.Time
	newID func() string
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*userRow),
		albums: make(map[string]*albumRow),
		photos: make(map[string]*photoRow),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SetFault installs f, or clears the current fault when f is nil.
func (s *Store) SetFault(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// lock acquires the store and runs the fault hook. The caller must unlock
// even when an error is returned.
func (s *Store) lock(op string) error {
	s.mu.Lock()
	if s.fault != nil {
		return s.fault(op)
	}
	return nil
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// Manager satisfies repomanager.RepositoryManager. The handle argument of
// the factories is ignored.
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository { return &userRepo{s: m.store} }

func (m *Manager) Albums(dbx.DBTX) albums.Repository { return &albumRepo{s: m.store} }

func (m *Manager) Photos(dbx.DBTX) photos.Repository { return &photoRepo{s: m.store} }
