package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/avk-dev/librarium/internal/errs"
	"github.com/avk-dev/librarium/internal/model"
)

var collectionCols = []string{
	"id", "title", "description", "category", "cover_url", "file_url",
	"author_id", "is_approved", "created_at",
	"a_id", "a_name", "a_email", "a_role",
}

func collectionRow(id, authorID uuid.UUID, title string, createdAt time.Time) []any {
	return []any{
		id, title, "desc", "Books", "/uploads/1-aaaaaa.png", "/uploads/1-bbbbbb.pdf",
		authorID, false, createdAt,
		authorID, "Reader", "reader@lib.io", "USER",
	}
}

func TestCollectionRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	c := &model.Collection{
		ID:       uuid.Must(uuid.NewV4()),
		Title:    "My Book",
		CoverURL: "/uploads/1-aaaaaa.png",
		FileURL:  "/uploads/1-bbbbbb.pdf",
		AuthorID: uuid.Must(uuid.NewV4()),
	}
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO collections \(id, title, description, category, cover_url, file_url, author_id\)`).
		WithArgs(c.ID, c.Title, c.Description, c.Category, c.CoverURL, c.FileURL, c.AuthorID).
		WillReturnRows(pgxmock.NewRows([]string{"is_approved", "created_at"}).AddRow(false, now))

	require.NoError(t, r.Create(ctx, c))
	require.False(t, c.IsApproved)
	require.Equal(t, now, c.CreatedAt)
}

func TestCollectionRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	author := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT c\.id, c\.title, .+ FROM collections c JOIN users u ON u\.id = c\.author_id WHERE c\.id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(collectionCols).AddRow(collectionRow(id, author, "My Book", time.Now())...))

	c, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "My Book", c.Title)
	require.NotNil(t, c.Author)
	require.Equal(t, author, c.Author.ID)
	require.Equal(t, "reader@lib.io", c.Author.Email)

	mock.ExpectQuery(`SELECT c\.id, .+ WHERE c\.id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCollectionRepo_List_NewestFirst(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	author := uuid.Must(uuid.NewV4())
	newer := uuid.Must(uuid.NewV4())
	older := uuid.Must(uuid.NewV4())

	rows := pgxmock.NewRows(collectionCols).
		AddRow(collectionRow(newer, author, "Newer", time.Now())...).
		AddRow(collectionRow(older, author, "Older", time.Now().Add(-time.Hour))...)
	mock.ExpectQuery(`SELECT c\.id, .+ ORDER BY c\.created_at DESC`).
		WillReturnRows(rows)

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Newer", list[0].Title)
	require.Equal(t, "Older", list[1].Title)
}

func TestCollectionRepo_Recent_Limit(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	author := uuid.Must(uuid.NewV4())

	rows := pgxmock.NewRows(collectionCols).
		AddRow(collectionRow(uuid.Must(uuid.NewV4()), author, "Recent", time.Now())...)
	mock.ExpectQuery(`SELECT c\.id, .+ ORDER BY c\.created_at DESC LIMIT \$1`).
		WithArgs(6).
		WillReturnRows(rows)

	list, err := r.Recent(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCollectionRepo_Counts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCollectionRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collections$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(10)))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 10, n)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collections WHERE is_approved=false`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	n, err = r.CountPending(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
}
