// Package admincli implements the operator commands of the photoalbum
// server: an on-demand reconciliation pass, interactive account creation and
// photo upload through a presigned object URL.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
)

// ErrUnknownCommand is returned by Run for a command it does not know.
var ErrUnknownCommand = errors.New("unknown command")

type UserService interface {
	Register(ctx context.Context, in services.NewUser) (*models.User, error)
}

type Reconciler interface {
	Run(ctx context.Context) (*services.ReconcileReport, error)
}

type MediaService interface {
	PresignUpload(ctx context.Context, albumID string) (*services.Upload, error)
}

type PhotoService interface {
	AttachPhoto(ctx context.Context, albumID string, draft models.Photo) (*models.Photo, *models.Album, error)
}

type App struct {
	users      UserService
	reconciler Reconciler
	media      MediaService
	photos     PhotoService

	reader     *bufio.Reader
	out        io.Writer
	httpClient *http.Client
}

// NewApp wires the services over db. Prompts read from in and everything
// is printed to out.
func NewApp(cfg *config.Config, db dbx.Provider, m repomanager.RepositoryManager, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		users:      services.NewUserService(db, m, cfg),
		reconciler: services.NewReconciler(db, m, log),
		media:      services.NewMediaService(db, m, cfg),
		photos:     services.NewPhotoService(db, m, log),
		reader:     bufio.NewReader(in),
		out:        out,
		httpClient: http.DefaultClient,
	}
}

// openDB is a seam for tests.
var openDB = supervisor.OpenPostgres

// Connect opens the store once, without supervision, and applies pending
// migrations. The caller closes the returned handle.
func Connect(ctx context.Context, cfg *config.Config, m repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}
	return db, nil
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"reconcile": {usage: "reconcile                      rebuild every album photo list", run: (*App).Reconcile},
	"useradd":   {usage: "useradd                        create an account interactively", run: (*App).UserAdd},
	"upload":    {usage: "upload -album ID -file PATH    upload a photo and attach it (-title, -description, -type)", run: (*App).Upload},
}

// Usage prints the command list.
func (a *App) Usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "Usage: cli <command> [flags]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range names {
		fmt.Fprintln(a.out, "  "+commands[name].usage)
	}
}

// Run executes one command.
func (a *App) Run(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		a.Usage()
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd.run(a, ctx, args)
}
