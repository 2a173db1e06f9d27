package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

type categoriesRepo struct{ s *Store }

func (r *categoriesRepo) Create(_ context.Context, c models.Category) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = r.s.nextIDLocked()
	r.s.categories[c.ID] = c
	return c, nil
}

func (r *categoriesRepo) GetByID(_ context.Context, id int64) (models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return models.Category{}, notFound("category", id)
	}
	return c, nil
}

func (r *categoriesRepo) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := sortedValues(r.s.categories)
	slices.SortStableFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *categoriesRepo) Update(_ context.Context, c models.Category) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return models.Category{}, notFound("category", c.ID)
	}
	r.s.categories[c.ID] = c
	return c, nil
}

func (r *categoriesRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return notFound("category", id)
	}
	for _, a := range r.s.ads {
		if a.CategoryID == id {
			return fmt.Errorf("category %d is still used by ads: %w", id, models.ErrConflict)
		}
	}
	delete(r.s.categories, id)
	return nil
}
