package repository

import (
	"context"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

// Implementations return errors wrapping models.ErrNotFound for missing rows
// and models.ErrConflict for unique or restrict violations.

type Users interface {
	// Create stores u and upserts every name in u.Locations, associating it
	// with the new user.
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// Update rewrites the scalar fields of u and adds (never removes) the
	// locations named in u.Locations.
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

type Locations interface {
	Create(ctx context.Context, l models.Location) (models.Location, error)
	GetByID(ctx context.Context, id int64) (models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, l models.Location) (models.Location, error)
	Delete(ctx context.Context, id int64) error
}

type Categories interface {
	Create(ctx context.Context, c models.Category) (models.Category, error)
	GetByID(ctx context.Context, id int64) (models.Category, error)
	// List is ordered by name.
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c models.Category) (models.Category, error)
	// Delete fails with models.ErrConflict while ads still reference the category.
	Delete(ctx context.Context, id int64) error
}

type Ads interface {
	Create(ctx context.Context, a models.Ad) (models.Ad, error)
	GetByID(ctx context.Context, id int64) (models.Ad, error)
	// List is ordered by id.
	List(ctx context.Context, f AdFilter) ([]models.Ad, error)
	Update(ctx context.Context, a models.Ad) (models.Ad, error)
	SetImage(ctx context.Context, id int64, url string) (models.Ad, error)
	Delete(ctx context.Context, id int64) error
}

type Selections interface {
	Create(ctx context.Context, s models.Selection) (models.Selection, error)
	GetByID(ctx context.Context, id int64) (models.Selection, error)
	List(ctx context.Context) ([]models.SelectionSummary, error)
	// Update replaces name, owner and the full item set.
	Update(ctx context.Context, s models.Selection) (models.Selection, error)
	Delete(ctx context.Context, id int64) error
}

type Repositories struct {
	Users      Users
	Locations  Locations
	Categories Categories
	Ads        Ads
	Selections Selections
}
