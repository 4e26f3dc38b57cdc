package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/auth"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/inmemory"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// switchProvider behaves like a supervisor whose link can be cut.
type switchProvider struct {
	down atomic.Bool
}

func (p *switchProvider) Conn() (dbx.DBTX, error) {
	if p.down.Load() {
		return nil, common.ErrDependencyUnavailable
	}
	return nil, nil
}

func (p *switchProvider) ReportFailure(error) {}

func (p *switchProvider) State() supervisor.State {
	if p.down.Load() {
		return supervisor.Errored
	}
	return supervisor.Connected
}

type fakeMedia struct {
	upload   *services.Upload
	download string
	err      error
}

func (f *fakeMedia) PresignUpload(context.Context, string) (*services.Upload, error) {
	return f.upload, f.err
}

func (f *fakeMedia) PresignDownload(context.Context, string, string) (string, error) {
	return f.download, f.err
}

type testAPI struct {
	t       *testing.T
	store   *inmemory.Store
	db      *switchProvider
	media   *fakeMedia
	handler http.Handler
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := inmemory.NewStore()
	rm := inmemory.NewManager(store)
	db := &switchProvider{}
	cfg := &config.Config{JWTSecret: string(testSecret), TokenValidityDuration: time.Hour}
	log := logging.Nop{}
	media := &fakeMedia{}

	h := NewRouter(testSecret, Services{
		Users:      services.NewUserService(db, rm, cfg),
		Albums:     services.NewAlbumService(db, rm),
		Photos:     services.NewPhotoService(db, rm, log),
		Reconciler: services.NewReconciler(db, rm, log),
		Media:      media,
		Store:      db,
	}, log)

	token, err := auth.GenerateToken("u-1", "alice", testSecret, time.Hour)
	require.NoError(t, err)

	return &testAPI{t: t, store: store, db: db, media: media, handler: h, token: token}
}

// do sends a request with the API's token; pass an empty token to call
// anonymously.
func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) authed(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(method, path, body, a.token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []json.RawMessage `json:"errors"`
}
