// Package memory is a thread-safe in-memory implementation of the repository
// interfaces with the same referential rules as the PostgreSQL schema. It
// backs the test suites and the STORE=memory development mode.
package memory

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	nextID int64

	users         map[int64]models.User
	userLocations map[int64]map[int64]struct{}
	locations     map[int64]models.Location
	categories    map[int64]models.Category
	ads           map[int64]models.Ad
	selections    map[int64]models.Selection
}

func NewStore() *Store {
	return &Store{
		nextID:        1,
		users:         make(map[int64]models.User),
		userLocations: make(map[int64]map[int64]struct{}),
		locations:     make(map[int64]models.Location),
		categories:    make(map[int64]models.Category),
		ads:           make(map[int64]models.Ad),
		selections:    make(map[int64]models.Selection),
	}
}

// NewRepositories returns repositories sharing one fresh Store.
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:      &usersRepo{s},
		Locations:  &locationsRepo{s},
		Categories: &categoriesRepo{s},
		Ads:        &adsRepo{s},
		Selections: &selectionsRepo{s},
	}
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, models.ErrNotFound)
}

// sortedValues returns the map values ordered by key.
func sortedValues[V any](m map[int64]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// locationNamesLocked returns the sorted location names of a user.
func (s *Store) locationNamesLocked(userID int64) []string {
	names := []string{}
	for locID := range s.userLocations[userID] {
		names = append(names, s.locations[locID].Name)
	}
	slices.SortFunc(names, cmp.Compare[string])
	return names
}

func (s *Store) userLocked(id int64) (models.User, bool) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	u.Locations = s.locationNamesLocked(id)
	return u, true
}

// addLocationsLocked upserts each location by exact name and links it.
func (s *Store) addLocationsLocked(userID int64, names []string) {
	links := s.userLocations[userID]
	if links == nil {
		links = make(map[int64]struct{})
		s.userLocations[userID] = links
	}
	for _, name := range names {
		loc, ok := s.locationByNameLocked(name)
		if !ok {
			loc = models.Location{ID: s.nextIDLocked(), Name: name}
			s.locations[loc.ID] = loc
		}
		links[loc.ID] = struct{}{}
	}
}

func (s *Store) locationByNameLocked(name string) (models.Location, bool) {
	for _, l := range s.locations {
		if l.Name == name {
			return l, true
		}
	}
	return models.Location{}, false
}

func (s *Store) deleteAdLocked(id int64) {
	delete(s.ads, id)
	for sid, sel := range s.selections {
		sel.Items = slices.DeleteFunc(slices.Clone(sel.Items), func(v int64) bool { return v == id })
		s.selections[sid] = sel
	}
}
