package services

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/inmemory"
)

// fakeProvider hands out a nil handle (the in-memory manager ignores it) or
// a fixed error, and records reported failures.
type fakeProvider struct {
	err error

	mu       sync.Mutex
	reported []error
}

func (p *fakeProvider) Conn() (dbx.DBTX, error) {
	if p.err != nil {
		return nil, p.err
	}
	return nil, nil
}

func (p *fakeProvider) ReportFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reported = append(p.reported, err)
}

func (p *fakeProvider) reports() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reported)
}

type env struct {
	store      *inmemory.Store
	db         *fakeProvider
	users      *UserService
	albums     *AlbumService
	photos     *PhotoService
	reconciler *Reconciler
	media      *MediaService
	cfg        *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := inmemory.NewStore()
	rm := inmemory.NewManager(store)
	db := &fakeProvider{}
	cfg := &config.Config{
		JWTSecret:             "k",
		TokenValidityDuration: time.Hour,
		S3Region:              "us-east-1",
		S3RootUser:            "minioadmin",
		S3RootPassword:        "minioadmin",
		S3BaseEndpoint:        "http://127.0.0.1:9000",
		S3Bucket:              "photos",
	}
	log := logging.Nop{}

	return &env{
		store:      store,
		db:         db,
		users:      NewUserService(db, rm, cfg),
		albums:     NewAlbumService(db, rm),
		photos:     NewPhotoService(db, rm, log),
		reconciler: NewReconciler(db, rm, log),
		media:      NewMediaService(db, rm, cfg),
		cfg:        cfg,
	}
}

// failOn makes the named store operation fail with err until cleared.
func (e *env) failOn(op string, err error) {
	e.store.SetFault(func(got string) error {
		if got == op {
			return err
		}
		return nil
	})
}
