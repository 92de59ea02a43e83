package notice

import (
	"context"

	"github.com/frahmantamala/office-management/internal/store"
)

type Repository struct {
	collections *store.Collections
}

func NewRepository(collections *store.Collections) *Repository {
	return &Repository{collections: collections}
}

func (r *Repository) All(ctx context.Context) ([]Notice, error) {
	return store.Read[[]Notice](ctx, r.collections, store.KeyNotices)
}

func (r *Repository) Update(ctx context.Context, fn func(notices *[]Notice) error) error {
	return store.Mutate(ctx, r.collections, store.KeyNotices, fn)
}
