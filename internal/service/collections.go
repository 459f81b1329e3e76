package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/avk-dev/librarium/internal/dataurl"
	"github.com/avk-dev/librarium/internal/errs"
	"github.com/avk-dev/librarium/internal/model"
	"github.com/avk-dev/librarium/internal/repository"
	"github.com/avk-dev/librarium/internal/store"
)

// recentLimit is how many uploads the dashboard shows.
const recentLimit = 6

// CollectionService defines the collection-ingestion pipeline and library reads.
type CollectionService interface {
	// Ingest validates, decodes, stores and persists one uploaded collection.
	Ingest(ctx context.Context, in model.IngestInput) (*model.Collection, error)
	// List returns all collections, newest first.
	List(ctx context.Context) ([]model.Collection, error)
	// Get returns a single collection by id.
	Get(ctx context.Context, id uuid.UUID) (*model.Collection, error)
	// Dashboard returns aggregate counters and recent uploads.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type CollectionServiceImpl struct {
	collections repository.CollectionRepository
	users       repository.UserRepository
	content     store.ContentStore
	names       *store.NameGenerator
}

// NewCollectionService constructs CollectionService with required dependencies.
func NewCollectionService(
	collections repository.CollectionRepository,
	users repository.UserRepository,
	content store.ContentStore,
	names *store.NameGenerator,
) *CollectionServiceImpl {
	return &CollectionServiceImpl{collections: collections, users: users, content: content, names: names}
}

// Ingest runs the upload pipeline in a fixed order: validate, ensure the
// content root, store the cover, store the data file, resolve the author,
// create the record. Steps are not transactional; a failure after the file
// writes leaves orphaned files in the store, which is accepted and not
// cleaned up.
func (s *CollectionServiceImpl) Ingest(ctx context.Context, in model.IngestInput) (*model.Collection, error) {
	if in.Title == "" || in.CoverName == "" || in.CoverData == "" || in.FileName == "" || in.FileData == "" {
		return nil, errs.ErrMissingFields
	}

	if err := s.content.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("ensure content root: %w", err)
	}

	coverName, err := s.storeEncoded(ctx, in.CoverData, in.CoverName)
	if err != nil {
		return nil, fmt.Errorf("store cover: %w", err)
	}
	fileName, err := s.storeEncoded(ctx, in.FileData, in.FileName)
	if err != nil {
		return nil, fmt.Errorf("store data file: %w", err)
	}

	authorID, err := s.resolveAuthor(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Collection{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CoverURL:    store.PublicPath(coverName),
		FileURL:     store.PublicPath(fileName),
		AuthorID:    authorID,
	}
	if err := s.collections.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return c, nil
}

// storeEncoded decodes one data-URL encoded file and writes it under a
// generated name, returning that name. Input that is not a recognizable
// data URL is written verbatim (pass-through), never base64-decoded.
func (s *CollectionServiceImpl) storeEncoded(ctx context.Context, encoded, originalName string) (string, error) {
	mediaType, payload := dataurl.Decode(encoded)

	raw := []byte(payload)
	if mediaType != "" {
		var err error
		if raw, err = base64.StdEncoding.DecodeString(payload); err != nil {
			return "", fmt.Errorf("decode base64: %w", err)
		}
	}

	name, err := s.names.Generate(originalName, mediaType)
	if err != nil {
		return "", fmt.Errorf("generate name: %w", err)
	}
	if err := s.content.Save(ctx, name, raw, mediaType); err != nil {
		return "", err
	}
	return name, nil
}

// resolveAuthor trusts a provided author id without checking it exists
// (a missing user is caught by the insert); with no id it falls back to
// the oldest registered user.
func (s *CollectionServiceImpl) resolveAuthor(ctx context.Context, provided string) (uuid.UUID, error) {
	if provided != "" {
		id, err := uuid.FromString(provided)
		if err != nil {
			return uuid.Nil, fmt.Errorf("bad author id: %w", err)
		}
		return id, nil
	}
	u, err := s.users.First(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return uuid.Nil, errs.ErrNoAuthor
		}
		return uuid.Nil, err
	}
	return u.ID, nil
}

// List returns the public library, newest first.
func (s *CollectionServiceImpl) List(ctx context.Context) ([]model.Collection, error) {
	return s.collections.List(ctx)
}

// Get returns one collection with its author.
func (s *CollectionServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	return s.collections.GetByID(ctx, id)
}

// Dashboard aggregates counters and the most recent uploads.
func (s *CollectionServiceImpl) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	total, err := s.collections.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.collections.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.collections.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.Collection{}
	}
	return &model.DashboardStats{
		TotalCollections:   total,
		TotalUsers:         users,
		PendingCollections: pending,
		RecentCollections:  recent,
	}, nil
}
