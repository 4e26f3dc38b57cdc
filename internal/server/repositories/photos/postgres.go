package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var newID = uuid.NewString

const photoColumns = `id, title, url, description, album_id, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	p := &models.Photo{}
	if err := row.Scan(&p.ID, &p.Title, &p.URL, &p.Description, &p.AlbumID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Photo, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	query :=
		`INSERT INTO photos (id, title, url, description, album_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	p := *photo
	p.ID = newID()

	err := r.db.QueryRowContext(ctx, query, p.ID, p.Title, p.URL, p.Description, p.AlbumID).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &p, nil
}

func (r *PostgresRepository) GetInAlbum(ctx context.Context, albumID, photoID string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE album_id = $1 AND id = $2`
	return r.one(ctx, query, albumID, photoID)
}

func (r *PostgresRepository) ListByAlbum(ctx context.Context, albumID string) ([]*models.Photo, error) {
	query :=
		`SELECT p.id, p.title, p.url, p.description, p.album_id, p.created_at
		 FROM albums a
		 JOIN photos p ON p.album_id = a.id AND p.id = ANY(a.photos)
		 WHERE a.id = $1
		 ORDER BY array_position(a.photos, p.id)
		 `

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateInAlbum(ctx context.Context, albumID, photoID string, upd models.PhotoUpdate) (*models.Photo, error) {
	query :=
		`UPDATE photos
		 SET title = COALESCE($3, title),
		     url = COALESCE($4, url),
		     description = COALESCE($5, description)
		 WHERE album_id = $1 AND id = $2
		 RETURNING ` + photoColumns

	return r.one(ctx, query, albumID, photoID, upd.Title, upd.URL, upd.Description)
}

func (r *PostgresRepository) DeleteInAlbum(ctx context.Context, albumID, photoID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE album_id = $1 AND id = $2`, albumID, photoID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}
