package memory_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/baharkarakas/classifieds-backend/internal/repository/memory"
)

type fixture struct {
	repos repository.Repositories
	anna  models.User
	bob   models.User
	cat   models.Category
}

func newFixture(c *qt.C) fixture {
	ctx := context.Background()
	repos := memory.NewRepositories()

	anna, err := repos.Users.Create(ctx, models.User{Username: "anna", Role: models.RoleMember, Locations: []string{"Berlin", "Paris"}})
	c.Assert(err, qt.IsNil)
	bob, err := repos.Users.Create(ctx, models.User{Username: "bob", Role: models.RoleMember, Locations: []string{"Berlin"}})
	c.Assert(err, qt.IsNil)
	cat, err := repos.Categories.Create(ctx, models.Category{Name: "Furniture"})
	c.Assert(err, qt.IsNil)

	return fixture{repos: repos, anna: anna, bob: bob, cat: cat}
}

func TestUserLocationsAreUpserted(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	c.Assert(f.anna.Locations, qt.DeepEquals, []string{"Berlin", "Paris"})
	c.Assert(f.bob.Locations, qt.DeepEquals, []string{"Berlin"})

	locs, err := f.repos.Locations.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(locs, qt.HasLen, 2)

	bob := f.bob
	bob.Locations = []string{"Paris", "Rome"}
	bob, err = f.repos.Users.Update(ctx, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(bob.Locations, qt.DeepEquals, []string{"Berlin", "Paris", "Rome"})

	locs, err = f.repos.Locations.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(locs, qt.HasLen, 3)
}

func TestDuplicateUsernameConflicts(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.repos.Users.Create(context.Background(), models.User{Username: "anna"})
	c.Assert(err, qt.ErrorIs, models.ErrConflict)
}

func TestCategoryDeleteIsRestricted(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	ad, err := f.repos.Ads.Create(ctx, models.Ad{Name: "Chair", AuthorID: f.anna.ID, CategoryID: f.cat.ID})
	c.Assert(err, qt.IsNil)

	c.Assert(f.repos.Categories.Delete(ctx, f.cat.ID), qt.ErrorIs, models.ErrConflict)
	_, err = f.repos.Categories.GetByID(ctx, f.cat.ID)
	c.Assert(err, qt.IsNil)

	c.Assert(f.repos.Ads.Delete(ctx, ad.ID), qt.IsNil)
	c.Assert(f.repos.Categories.Delete(ctx, f.cat.ID), qt.IsNil)
}

func TestUserDeleteCascades(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	annaAd, err := f.repos.Ads.Create(ctx, models.Ad{Name: "Chair", AuthorID: f.anna.ID, CategoryID: f.cat.ID})
	c.Assert(err, qt.IsNil)
	bobAd, err := f.repos.Ads.Create(ctx, models.Ad{Name: "Lamp", AuthorID: f.bob.ID, CategoryID: f.cat.ID})
	c.Assert(err, qt.IsNil)
	annaSel, err := f.repos.Selections.Create(ctx, models.Selection{Name: "a", OwnerID: f.anna.ID})
	c.Assert(err, qt.IsNil)
	bobSel, err := f.repos.Selections.Create(ctx, models.Selection{Name: "b", OwnerID: f.bob.ID, Items: []int64{annaAd.ID, bobAd.ID}})
	c.Assert(err, qt.IsNil)

	c.Assert(f.repos.Users.Delete(ctx, f.anna.ID), qt.IsNil)

	_, err = f.repos.Ads.GetByID(ctx, annaAd.ID)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
	_, err = f.repos.Selections.GetByID(ctx, annaSel.ID)
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)

	bobSel, err = f.repos.Selections.GetByID(ctx, bobSel.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(bobSel.Items, qt.DeepEquals, []int64{bobAd.ID})
}

func TestAdReferencesMustExist(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.repos.Ads.Create(context.Background(), models.Ad{Name: "x", AuthorID: 999, CategoryID: f.cat.ID})
	c.Assert(err, qt.ErrorIs, models.ErrNotFound)
}

func TestAdListFilterAndPaging(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	other, err := f.repos.Categories.Create(ctx, models.Category{Name: "Bikes"})
	c.Assert(err, qt.IsNil)

	mk := func(name, desc string, price int64, author, cat int64) models.Ad {
		a, err := f.repos.Ads.Create(ctx, models.Ad{Name: name, Description: desc, Price: price, AuthorID: author, CategoryID: cat})
		c.Assert(err, qt.IsNil)
		return a
	}
	chair := mk("Chair", "Red chair", 10, f.anna.ID, f.cat.ID)
	stool := mk("Stool", "a CHAIR without back", 19, f.bob.ID, f.cat.ID)
	mk("Expensive chair", "Chair", 20, f.anna.ID, f.cat.ID)
	mk("Bike", "Old bike", 15, f.bob.ID, other.ID)

	ids := func(ads []models.Ad) []int64 {
		out := []int64{}
		for _, a := range ads {
			out = append(out, a.ID)
		}
		return out
	}
	from, to := int64(10), int64(20)

	ads, err := f.repos.Ads.List(ctx, repository.AdFilter{Text: "chair", CategoryIDs: []int64{f.cat.ID}, PriceFrom: &from, PriceTo: &to})
	c.Assert(err, qt.IsNil)
	c.Assert(ids(ads), qt.DeepEquals, []int64{chair.ID, stool.ID})

	ads, err = f.repos.Ads.List(ctx, repository.AdFilter{Location: "PAR"})
	c.Assert(err, qt.IsNil)
	c.Assert(ads, qt.HasLen, 2)

	ads, err = f.repos.Ads.List(ctx, repository.AdFilter{Limit: 2, Offset: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(ads, qt.HasLen, 2)
	c.Assert(ads[0].ID, qt.Equals, stool.ID)
}

func TestCategoriesListedByName(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	_, err := f.repos.Categories.Create(ctx, models.Category{Name: "Appliances"})
	c.Assert(err, qt.IsNil)

	cats, err := f.repos.Categories.List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(cats[0].Name, qt.Equals, "Appliances")
	c.Assert(cats[1].Name, qt.Equals, "Furniture")
}
