package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type adsRepo struct{ pool *pgxpool.Pool }

func scanAd(row pgx.Row) (models.Ad, error) {
	var a models.Ad
	err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Description, &a.Image, &a.IsPublished, &a.AuthorID, &a.CategoryID)
	return a, err
}

func (r *adsRepo) Create(ctx context.Context, a models.Ad) (models.Ad, error) {
	out, err := scanAd(r.pool.QueryRow(ctx,
		`INSERT INTO ads AS a (name, price, description, image, is_published, author_id, category_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+adColumns,
		a.Name, a.Price, a.Description, a.Image, a.IsPublished, a.AuthorID, a.CategoryID,
	))
	return out, translate(err, "ad")
}

func (r *adsRepo) GetByID(ctx context.Context, id int64) (models.Ad, error) {
	a, err := scanAd(r.pool.QueryRow(ctx, `SELECT `+adColumns+` FROM ads a WHERE a.id=$1`, id))
	return a, translate(err, fmt.Sprintf("ad %d", id))
}

func (r *adsRepo) List(ctx context.Context, f repository.AdFilter) ([]models.Ad, error) {
	q, args := buildAdQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ad{}
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *adsRepo) Update(ctx context.Context, a models.Ad) (models.Ad, error) {
	out, err := scanAd(r.pool.QueryRow(ctx,
		`UPDATE ads AS a
		    SET name=$2, price=$3, description=$4, is_published=$5, author_id=$6, category_id=$7
		  WHERE a.id=$1
		  RETURNING `+adColumns,
		a.ID, a.Name, a.Price, a.Description, a.IsPublished, a.AuthorID, a.CategoryID,
	))
	return out, translate(err, fmt.Sprintf("ad %d", a.ID))
}

func (r *adsRepo) SetImage(ctx context.Context, id int64, url string) (models.Ad, error) {
	out, err := scanAd(r.pool.QueryRow(ctx,
		`UPDATE ads AS a SET image=$2 WHERE a.id=$1 RETURNING `+adColumns, id, url,
	))
	return out, translate(err, fmt.Sprintf("ad %d", id))
}

func (r *adsRepo) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("ad %d", id)
	tag, err := r.pool.Exec(ctx, `DELETE FROM ads WHERE id=$1`, id)
	if err != nil {
		return translate(err, what)
	}
	return affected(tag, what)
}
