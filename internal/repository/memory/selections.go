package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

type selectionsRepo struct{ s *Store }

// normalizeLocked validates references and returns the item set sorted and
// deduplicated, as the selection_items primary key would store it.
func (r *selectionsRepo) normalizeLocked(sel models.Selection) (models.Selection, error) {
	if _, ok := r.s.users[sel.OwnerID]; !ok {
		return models.Selection{}, fmt.Errorf("selection references a missing row: %w", notFound("user", sel.OwnerID))
	}
	items := slices.Clone(sel.Items)
	slices.Sort(items)
	items = slices.Compact(items)
	for _, id := range items {
		if _, ok := r.s.ads[id]; !ok {
			return models.Selection{}, fmt.Errorf("selection item references a missing row: %w", notFound("ad", id))
		}
	}
	if items == nil {
		items = []int64{}
	}
	sel.Items = items
	return sel, nil
}

func (r *selectionsRepo) Create(_ context.Context, sel models.Selection) (models.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sel, err := r.normalizeLocked(sel)
	if err != nil {
		return models.Selection{}, err
	}
	sel.ID = r.s.nextIDLocked()
	r.s.selections[sel.ID] = sel
	return sel, nil
}

func (r *selectionsRepo) GetByID(_ context.Context, id int64) (models.Selection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sel, ok := r.s.selections[id]
	if !ok {
		return models.Selection{}, notFound("selection", id)
	}
	sel.Items = slices.Clone(sel.Items)
	return sel, nil
}

func (r *selectionsRepo) List(_ context.Context) ([]models.SelectionSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.SelectionSummary{}
	for _, sel := range sortedValues(r.s.selections) {
		out = append(out, models.SelectionSummary{ID: sel.ID, Name: sel.Name})
	}
	return out, nil
}

func (r *selectionsRepo) Update(_ context.Context, sel models.Selection) (models.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.selections[sel.ID]; !ok {
		return models.Selection{}, notFound("selection", sel.ID)
	}
	sel, err := r.normalizeLocked(sel)
	if err != nil {
		return models.Selection{}, err
	}
	r.s.selections[sel.ID] = sel
	return sel, nil
}

func (r *selectionsRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.selections[id]; !ok {
		return notFound("selection", id)
	}
	delete(r.s.selections, id)
	return nil
}
