package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avk-dev/librarium/internal/errs"
	"github.com/avk-dev/librarium/internal/model"
)

// CollectionRepo implements CollectionRepository using PostgreSQL.
type CollectionRepo struct{ db *DB }

// NewCollectionRepo constructs a collection repository.
func NewCollectionRepo(db *DB) *CollectionRepo { return &CollectionRepo{db: db} }

const collectionWithAuthor = `
SELECT c.id, c.title, c.description, c.category, c.cover_url, c.file_url,
       c.author_id, c.is_approved, c.created_at,
       u.id, u.name, u.email, u.role
FROM collections c
JOIN users u ON u.id = c.author_id`

// Create inserts a new collection row. The database assigns created_at and
// the unapproved state; both are read back into c.
func (r *CollectionRepo) Create(ctx context.Context, c *model.Collection) error {
	const q = `
INSERT INTO collections (id, title, description, category, cover_url, file_url, author_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING is_approved, created_at`
	return r.db.Pool.
		QueryRow(ctx, q, c.ID, c.Title, c.Description, c.Category, c.CoverURL, c.FileURL, c.AuthorID).
		Scan(&c.IsApproved, &c.CreatedAt)
}

// GetByID selects a single collection with its author.
func (r *CollectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	q := collectionWithAuthor + `
WHERE c.id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	c, err := scanCollection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all collections newest first with authors.
func (r *CollectionRepo) List(ctx context.Context) ([]model.Collection, error) {
	q := collectionWithAuthor + `
ORDER BY c.created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

// Recent returns the n newest collections with authors.
func (r *CollectionRepo) Recent(ctx context.Context, n int) ([]model.Collection, error) {
	q := collectionWithAuthor + `
ORDER BY c.created_at DESC
LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

// Count returns the total number of collections.
func (r *CollectionRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM collections`)
}

// CountPending returns the number of collections not yet approved.
func (r *CollectionRepo) CountPending(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM collections WHERE is_approved=false`)
}

func (r *CollectionRepo) count(ctx context.Context, q string) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanCollection(row pgx.Row) (*model.Collection, error) {
	var c model.Collection
	var a model.SafeUser
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.CoverURL, &c.FileURL,
		&c.AuthorID, &c.IsApproved, &c.CreatedAt,
		&a.ID, &a.Name, &a.Email, &a.Role,
	); err != nil {
		return nil, err
	}
	c.Author = &a
	return &c, nil
}

func collectRows(rows pgx.Rows) ([]model.Collection, error) {
	var out []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
