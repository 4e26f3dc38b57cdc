package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGate(t *testing.T) {
	valid, err := auth.GenerateToken("u-1", "alice", testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("u-1", "alice", testSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("u-1", "alice", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"scheme only", "Bearer", http.StatusUnauthorized},
		{"blank token", "Bearer   ", http.StatusUnauthorized},
		{"other scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusForbidden},
		{"tampered", "Bearer " + valid[:len(valid)-2] + "xx", http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusForbidden},
		{"wrong secret", "Bearer " + foreign, http.StatusForbidden},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lower-case scheme", "bearer " + valid, http.StatusOK},
		{"double space", "Bearer  " + valid, http.StatusUnauthorized},
		{"trailing segment ignored", "Bearer " + valid + " extra", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				claims, ok := ClaimsFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "u-1", claims.UserID())
				assert.Equal(t, "alice", claims.Username)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/album/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			TokenGate(testSecret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if tt.wantStatus != http.StatusOK {
				env := decode[envelope](t, rec)
				assert.Equal(t, tt.wantStatus, env.Code)
			}
		})
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/user/u-1"},
		{http.MethodDelete, "/user/u-1"},
		{http.MethodGet, "/albums"},
		{http.MethodPost, "/album"},
		{http.MethodGet, "/album/a"},
		{http.MethodPut, "/album/a"},
		{http.MethodDelete, "/album/a"},
		{http.MethodGet, "/album/a/photos"},
		{http.MethodPost, "/album/a/photo"},
		{http.MethodGet, "/album/a/photo/p"},
		{http.MethodPut, "/album/a/photo/p"},
		{http.MethodDelete, "/album/a/photo/p"},
		{http.MethodPost, "/album/a/photo/upload-url"},
		{http.MethodGet, "/album/a/photo/p/download-url"},
		{http.MethodPost, "/admin/reconcile"},
	}
	for _, rt := range routes {
		rec := api.do(rt.method, rt.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}
}
