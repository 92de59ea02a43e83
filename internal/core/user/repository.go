package user

import (
	"context"

	"github.com/frahmantamala/office-management/internal/store"
)

// Repository reads and rewrites the users collection as one unit.
type Repository struct {
	collections *store.Collections
}

func NewRepository(collections *store.Collections) *Repository {
	return &Repository{collections: collections}
}

func (r *Repository) Directory(ctx context.Context) (Directory, error) {
	dir, err := store.Read[Directory](ctx, r.collections, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	if dir == nil {
		dir = Directory{}
	}
	return dir, nil
}

func (r *Repository) Get(ctx context.Context, username string) (*User, bool, error) {
	dir, err := r.Directory(ctx)
	if err != nil {
		return nil, false, err
	}
	u, ok := dir.Get(username)
	return u, ok, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	dir, err := r.Directory(ctx)
	if err != nil {
		return 0, err
	}
	return len(dir), nil
}

// Update applies fn to the full directory under the users lock. fn may
// return store.ErrSkipWrite to leave the collection untouched.
func (r *Repository) Update(ctx context.Context, fn func(dir Directory) error) error {
	return store.Mutate(ctx, r.collections, store.KeyUsers, func(dir *Directory) error {
		if *dir == nil {
			*dir = Directory{}
		}
		return fn(*dir)
	})
}
