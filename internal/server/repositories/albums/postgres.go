package albums

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

const albumColumns = `id, title, description, photos, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row rowScanner) (*models.Album, error) {
	a := &models.Album{}
	if err := row.Scan(&a.ID, &a.Title, &a.Description, dbx.StringArray(&a.Photos), &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Album, error) {
	a, err := scanAlbum(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, album *models.Album) (*models.Album, error) {
	query :=
		`INSERT INTO albums (id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING ` + albumColumns

	return r.one(ctx, query, newID(), album.Title, album.Description)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Album, error) {
	return r.one(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = $1`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Album, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Album, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM albums ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.AlbumUpdate) (*models.Album, error) {
	query :=
		`UPDATE albums
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description)
		 WHERE id = $1
		 RETURNING ` + albumColumns

	return r.one(ctx, query, id, upd.Title, upd.Description)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) AppendPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error) {
	query :=
		`UPDATE albums
		 SET photos = CASE WHEN $2::text = ANY(photos) THEN photos ELSE array_append(photos, $2::text) END
		 WHERE id = $1
		 RETURNING ` + albumColumns

	return r.one(ctx, query, albumID, photoID)
}

func (r *PostgresRepository) RemovePhoto(ctx context.Context, albumID, photoID string) (*models.Album, error) {
	query :=
		`UPDATE albums
		 SET photos = array_remove(photos, $2::text)
		 WHERE id = $1
		 RETURNING ` + albumColumns

	return r.one(ctx, query, albumID, photoID)
}

func (r *PostgresRepository) Rebuild(ctx context.Context, albumID string) ([]string, []string, error) {
	query :=
		`UPDATE albums a
		 SET photos = COALESCE((
		     SELECT array_agg(p.id ORDER BY array_position(o.photos, p.id) NULLS LAST, p.created_at, p.id)
		     FROM photos p
		     WHERE p.album_id = a.id
		 ), '{}')
		 FROM (SELECT id, photos FROM albums WHERE id = $1 FOR UPDATE) o
		 WHERE a.id = o.id
		 RETURNING o.photos, a.photos
		 `

	var before, after []string
	err := r.db.QueryRowContext(ctx, query, albumID).Scan(dbx.StringArray(&before), dbx.StringArray(&after))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}

	return before, after, nil
}
