package memory

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

type locationsRepo struct{ s *Store }

func (r *locationsRepo) nameTakenLocked(name string, except int64) bool {
	l, ok := r.s.locationByNameLocked(name)
	return ok && l.ID != except
}

func (r *locationsRepo) Create(_ context.Context, l models.Location) (models.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTakenLocked(l.Name, 0) {
		return models.Location{}, fmt.Errorf("location %s already exists: %w", l.Name, models.ErrConflict)
	}
	l.ID = r.s.nextIDLocked()
	r.s.locations[l.ID] = l
	return l, nil
}

func (r *locationsRepo) GetByID(_ context.Context, id int64) (models.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.locations[id]
	if !ok {
		return models.Location{}, notFound("location", id)
	}
	return l, nil
}

func (r *locationsRepo) List(_ context.Context) ([]models.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.locations), nil
}

func (r *locationsRepo) Update(_ context.Context, l models.Location) (models.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[l.ID]; !ok {
		return models.Location{}, notFound("location", l.ID)
	}
	if r.nameTakenLocked(l.Name, l.ID) {
		return models.Location{}, fmt.Errorf("location %s already exists: %w", l.Name, models.ErrConflict)
	}
	r.s.locations[l.ID] = l
	return l, nil
}

func (r *locationsRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[id]; !ok {
		return notFound("location", id)
	}
	for _, links := range r.s.userLocations {
		delete(links, id)
	}
	delete(r.s.locations, id)
	return nil
}
