package department

import (
	"context"

	"github.com/frahmantamala/office-management/internal/store"
)

// Repository persists the department list under a single key.
type Repository struct {
	collections *store.Collections
}

func NewRepository(collections *store.Collections) *Repository {
	return &Repository{collections: collections}
}

func (r *Repository) List(ctx context.Context) ([]string, error) {
	list, err := store.Read[[]string](ctx, r.collections, store.KeyDepartments)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func (r *Repository) Update(ctx context.Context, fn func(list *[]string) error) error {
	return store.Mutate(ctx, r.collections, store.KeyDepartments, fn)
}

// Init writes list only when no department list was ever stored.
func (r *Repository) Init(ctx context.Context, list []string) (bool, error) {
	return r.collections.Init(ctx, store.KeyDepartments, list)
}

func (r *Repository) Replace(ctx context.Context, list []string) error {
	return r.collections.Save(ctx, store.KeyDepartments, list)
}
