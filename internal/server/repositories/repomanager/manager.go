// Package repomanager bundles the repository constructors behind one
// interface so services can bind repositories to whatever handle is live.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/albums"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Albums(db dbx.DBTX) albums.Repository
	Photos(db dbx.DBTX) photos.Repository
}
