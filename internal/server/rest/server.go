// Package rest is the HTTP surface of the photoalbum server: chi routes, the
// bearer Token Gate, JSON envelopes, and the operational endpoints.
package rest

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Register(ctx context.Context, in services.NewUser) (*models.User, error)
	Login(ctx context.Context, userName string, password []byte) (string, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
}

type AlbumService interface {
	Create(ctx context.Context, title, description string) (*models.Album, error)
	Get(ctx context.Context, id string) (*models.Album, error)
	List(ctx context.Context) ([]*models.Album, error)
	Update(ctx context.Context, id string, upd models.AlbumUpdate) (*models.Album, error)
	Delete(ctx context.Context, id string) error
}

type PhotoService interface {
	AttachPhoto(ctx context.Context, albumID string, draft models.Photo) (*models.Photo, *models.Album, error)
	DetachPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error)
	Get(ctx context.Context, albumID, photoID string) (*models.Photo, error)
	ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error)
	Update(ctx context.Context, albumID, photoID string, upd models.PhotoUpdate) (*models.Photo, error)
}

type Reconciler interface {
	Run(ctx context.Context) (*services.ReconcileReport, error)
}

type MediaService interface {
	PresignUpload(ctx context.Context, albumID string) (*services.Upload, error)
	PresignDownload(ctx context.Context, albumID, photoID string) (string, error)
}

// StoreStatus reports the connection state for the readiness probe.
type StoreStatus interface {
	State() supervisor.State
}

// Services bundles the collaborators the handlers depend on.
type Services struct {
	Users      UserService
	Albums     AlbumService
	Photos     PhotoService
	Reconciler Reconciler
	Media      MediaService
	Store      StoreStatus
}

type handlers struct {
	Services
	log logging.Logger
}

// NewRouter builds the full route table. secret verifies bearer tokens.
func NewRouter(secret []byte, svc Services, log logging.Logger) http.Handler {
	h := &handlers{Services: svc, log: log.With("module", "rest")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Metrics)
	r.Use(AccessLog(h.log))
	r.Use(Recover(h.log))
	r.Use(SecurityHeaders)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health/live", h.healthLive)
	r.Get("/health/ready", h.healthReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/user", h.createUser)
	r.Post("/user/", h.createUser)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(TokenGate(secret))

		r.Post("/logout", h.logout)
		r.Get("/user/{id}", h.getUser)
		r.Delete("/user/{id}", h.deleteUser)

		r.Get("/albums", h.listAlbums)
		r.Post("/album", h.createAlbum)
		r.Get("/album/{id}", h.getAlbum)
		r.Put("/album/{id}", h.updateAlbum)
		r.Delete("/album/{id}", h.deleteAlbum)

		r.Get("/album/{id}/photos", h.listPhotos)
		r.Post("/album/{id}/photo", h.attachPhoto)
		r.Post("/album/{id}/photo/upload-url", h.uploadURL)
		r.Get("/album/{id}/photo/{photoId}", h.getPhoto)
		r.Put("/album/{id}/photo/{photoId}", h.updatePhoto)
		r.Delete("/album/{id}/photo/{photoId}", h.detachPhoto)
		r.Get("/album/{id}/photo/{photoId}/download-url", h.downloadURL)

		r.Post("/admin/reconcile", h.reconcile)
	})

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// Server is the HTTP(S) listener around the router.
type Server struct {
	httpServer *http.Server
	tls        bool
	log        logging.Logger
}

// NewServer prepares a listener on cfg.Addr(). When TLS is configured the
// key pair is loaded here, so unreadable material fails at startup, before
// the store is even reachable.
func NewServer(cfg *config.Config, log logging.Logger) (*Server, error) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLSEnabled() {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load tls key pair: %w", err)
		}
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	return &Server{httpServer: srv, tls: srv.TLSConfig != nil, log: log.With("module", "http_server")}, nil
}

// Serve routes connections accepted on ln to handler until Shutdown.
func (s *Server) Serve(ln net.Listener, handler http.Handler) error {
	s.httpServer.Handler = handler
	s.log.Info(context.Background(), "Starting HTTP server", "address", ln.Addr().String(), "tls", s.tls)

	var err error
	if s.tls {
		err = s.httpServer.ServeTLS(ln, "", "")
	} else {
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe binds the configured address and serves handler on it.
func (s *Server) ListenAndServe(handler http.Handler) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln, handler)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "Stopping HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
