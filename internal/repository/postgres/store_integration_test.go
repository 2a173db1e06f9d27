package postgres_test

import (
	"context"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/baharkarakas/classifieds-backend/internal/db"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/repository/postgres"
)

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}
	c := qt.New(t)
	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	c.Assert(err, qt.IsNil)
	defer pool.Close()
	c.Assert(db.RunMigrations(ctx, pool), qt.IsNil)

	_, err = pool.Exec(ctx, `TRUNCATE selection_items, selections, ads, categories, user_locations, users, locations RESTART IDENTITY CASCADE`)
	c.Assert(err, qt.IsNil)

	repos := postgres.NewRepositories(pool)

	u, err := repos.Users.Create(ctx, models.User{Username: "anna", Role: models.RoleMember, Locations: []string{"Berlin", "Paris"}})
	c.Assert(err, qt.IsNil)
	c.Assert(u.Locations, qt.DeepEquals, []string{"Berlin", "Paris"})

	u2, err := repos.Users.Create(ctx, models.User{Username: "bob", Role: models.RoleMember, Locations: []string{"Berlin"}})
	c.Assert(err, qt.IsNil)

	locs, err := repos.Locations.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(locs, qt.HasLen, 2)

	cat, err := repos.Categories.Create(ctx, models.Category{Name: "Furniture"})
	c.Assert(err, qt.IsNil)

	chair, err := repos.Ads.Create(ctx, models.Ad{Name: "Chair", Price: 10, Description: "Old CHAIR", AuthorID: u.ID, CategoryID: cat.ID})
	c.Assert(err, qt.IsNil)
	_, err = repos.Ads.Create(ctx, models.Ad{Name: "Table", Price: 20, Description: "Table", AuthorID: u2.ID, CategoryID: cat.ID})
	c.Assert(err, qt.IsNil)

	price := func(v int64) *int64 { return &v }
	ads, err := repos.Ads.List(ctx, repository.AdFilter{Text: "chair", PriceFrom: price(10), PriceTo: price(20), Location: "par"})
	c.Assert(err, qt.IsNil)
	c.Assert(ads, qt.HasLen, 1)
	c.Assert(ads[0].ID, qt.Equals, chair.ID)

	err = repos.Categories.Delete(ctx, cat.ID)
	c.Assert(err, qt.ErrorIs, models.ErrConflict)

	sel, err := repos.Selections.Create(ctx, models.Selection{Name: "mine", OwnerID: u.ID, Items: []int64{chair.ID}})
	c.Assert(err, qt.IsNil)
	c.Assert(sel.Items, qt.DeepEquals, []int64{chair.ID})

	c.Assert(repos.Ads.Delete(ctx, chair.ID), qt.IsNil)
	sel, err = repos.Selections.GetByID(ctx, sel.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(sel.Items, qt.HasLen, 0)

	_, err = repos.Ads.GetByID(ctx, chair.ID)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
}
