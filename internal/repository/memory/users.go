package memory

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

type usersRepo struct{ s *Store }

func (r *usersRepo) usernameTakenLocked(username string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.usernameTakenLocked(u.Username, 0) {
		return models.User{}, fmt.Errorf("user %s already exists: %w", u.Username, models.ErrConflict)
	}
	u.ID = r.s.nextIDLocked()
	names := u.Locations
	u.Locations = nil
	r.s.users[u.ID] = u
	r.s.addLocationsLocked(u.ID, names)

	out, _ := r.s.userLocked(u.ID)
	return out, nil
}

func (r *usersRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.userLocked(id)
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, u := range r.s.users {
		if u.Username == username {
			out, _ := r.s.userLocked(id)
			return out, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
}

func (r *usersRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.User{}
	for _, u := range sortedValues(r.s.users) {
		u.Locations = r.s.locationNamesLocked(u.ID)
		out = append(out, u)
	}
	return out, nil
}

func (r *usersRepo) Update(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return models.User{}, notFound("user", u.ID)
	}
	if r.usernameTakenLocked(u.Username, u.ID) {
		return models.User{}, fmt.Errorf("user %s already exists: %w", u.Username, models.ErrConflict)
	}
	names := u.Locations
	u.Locations = nil
	r.s.users[u.ID] = u
	r.s.addLocationsLocked(u.ID, names)

	out, _ := r.s.userLocked(u.ID)
	return out, nil
}

// Delete cascades to the user's ads, selections and location links.
func (r *usersRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return notFound("user", id)
	}
	for adID, a := range r.s.ads {
		if a.AuthorID == id {
			r.s.deleteAdLocked(adID)
		}
	}
	for sid, sel := range r.s.selections {
		if sel.OwnerID == id {
			delete(r.s.selections, sid)
		}
	}
	delete(r.s.userLocations, id)
	delete(r.s.users, id)
	return nil
}
