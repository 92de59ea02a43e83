package task

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

func (r *Repository) All(ctx context.Context) ([]Task, error) {
	return store.Read[[]Task](ctx, r.collections, store.KeyTasks)
}

func (r *Repository) Update(ctx context.Context, fn func(tasks *[]Task) error) error {
	return store.Mutate(ctx, r.collections, store.KeyTasks, fn)
}
