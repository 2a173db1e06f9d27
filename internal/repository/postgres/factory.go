package postgres

import (
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Users:      &usersRepo{pool},
		Locations:  &locationsRepo{pool},
		Categories: &categoriesRepo{pool},
		Ads:        &adsRepo{pool},
		Selections: &selectionsRepo{pool},
	}
}
