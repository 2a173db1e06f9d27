package memory

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
)

type adsRepo struct{ s *Store }

// checkRefsLocked mirrors the ads foreign keys.
func (r *adsRepo) checkRefsLocked(a models.Ad) error {
	if _, ok := r.s.users[a.AuthorID]; !ok {
		return fmt.Errorf("ad references a missing row: %w", notFound("user", a.AuthorID))
	}
	if _, ok := r.s.categories[a.CategoryID]; !ok {
		return fmt.Errorf("ad references a missing row: %w", notFound("category", a.CategoryID))
	}
	return nil
}

func (r *adsRepo) Create(_ context.Context, a models.Ad) (models.Ad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefsLocked(a); err != nil {
		return models.Ad{}, err
	}
	a.ID = r.s.nextIDLocked()
	r.s.ads[a.ID] = a
	return a, nil
}

func (r *adsRepo) GetByID(_ context.Context, id int64) (models.Ad, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.ads[id]
	if !ok {
		return models.Ad{}, notFound("ad", id)
	}
	return a, nil
}

func (r *adsRepo) List(_ context.Context, f repository.AdFilter) ([]models.Ad, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Ad{}
	skipped := 0
	for _, a := range sortedValues(r.s.ads) {
		if !f.Match(a, r.s.locationNamesLocked(a.AuthorID)) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *adsRepo) Update(_ context.Context, a models.Ad) (models.Ad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.ads[a.ID]
	if !ok {
		return models.Ad{}, notFound("ad", a.ID)
	}
	if err := r.checkRefsLocked(a); err != nil {
		return models.Ad{}, err
	}
	a.Image = cur.Image
	r.s.ads[a.ID] = a
	return a, nil
}

func (r *adsRepo) SetImage(_ context.Context, id int64, url string) (models.Ad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.ads[id]
	if !ok {
		return models.Ad{}, notFound("ad", id)
	}
	a.Image = &url
	r.s.ads[id] = a
	return a, nil
}

func (r *adsRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ads[id]; !ok {
		return notFound("ad", id)
	}
	r.s.deleteAdLocked(id)
	return nil
}
