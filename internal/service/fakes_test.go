package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avk-dev/librarium/internal/errs"
	"github.com/avk-dev/librarium/internal/model"
	"github.com/avk-dev/librarium/internal/repository"
	"github.com/avk-dev/librarium/internal/store"
)

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
	firstErr  error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) add(u *model.User) {
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	f.add(u)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) First(_ context.Context) (*model.User, error) {
	if f.firstErr != nil {
		return nil, f.firstErr
	}
	if len(f.byEmail) == 0 {
		return nil, errs.ErrNotFound
	}
	// oldest by CreatedAt, id as tiebreak
	all := make([]*model.User, 0, len(f.byEmail))
	for _, u := range f.byEmail {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	c := *all[0]
	return &c, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	failures  int
	successes int
}

func (f *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return f.allowOK, 0, f.allowErr
}

func (f *fakeLimiter) Success(context.Context, string, []byte) error {
	f.successes++
	return nil
}

func (f *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	f.failures++
	return f.failBlocked, 0, f.failErr
}

type fakeCollections struct {
	created []*model.Collection

	createErr error

	list    []model.Collection
	listErr error

	byID map[uuid.UUID]*model.Collection

	total   int64
	pending int64
}

var _ repository.CollectionRepository = (*fakeCollections)(nil)

func (f *fakeCollections) Create(_ context.Context, c *model.Collection) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.CreatedAt = time.Now()
	cpy := *c
	f.created = append(f.created, &cpy)
	return nil
}

func (f *fakeCollections) GetByID(_ context.Context, id uuid.UUID) (*model.Collection, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	return &cpy, nil
}

func (f *fakeCollections) List(_ context.Context) ([]model.Collection, error) {
	return f.list, f.listErr
}

func (f *fakeCollections) Recent(_ context.Context, n int) ([]model.Collection, error) {
	if len(f.list) > n {
		return f.list[:n], nil
	}
	return f.list, nil
}

func (f *fakeCollections) Count(context.Context) (int64, error)        { return f.total, nil }
func (f *fakeCollections) CountPending(context.Context) (int64, error) { return f.pending, nil }

// fakeContent is an in-memory content store that records call order.
type fakeContent struct {
	saved map[string][]byte
	order []string

	ensures   int
	ensureErr error
	saveErr   error
}

var _ store.ContentStore = (*fakeContent)(nil)

func (f *fakeContent) Ensure(context.Context) error {
	f.ensures++
	return f.ensureErr
}

func (f *fakeContent) Save(_ context.Context, name string, data []byte, _ string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = append([]byte(nil), data...)
	f.order = append(f.order, name)
	return nil
}

func (f *fakeContent) Get(_ context.Context, name string) ([]byte, error) {
	b, ok := f.saved[name]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return b, nil
}
