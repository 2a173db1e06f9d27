package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type locationsRepo struct{ pool *pgxpool.Pool }

func scanLocation(row pgx.Row) (models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.Name, &l.Lat, &l.Lng)
	return l, err
}

func (r *locationsRepo) Create(ctx context.Context, l models.Location) (models.Location, error) {
	out, err := scanLocation(r.pool.QueryRow(ctx,
		`INSERT INTO locations(name, lat, lng) VALUES($1,$2,$3) RETURNING id, name, lat, lng`,
		l.Name, l.Lat, l.Lng,
	))
	return out, translate(err, "location "+l.Name)
}

func (r *locationsRepo) GetByID(ctx context.Context, id int64) (models.Location, error) {
	l, err := scanLocation(r.pool.QueryRow(ctx, `SELECT id, name, lat, lng FROM locations WHERE id=$1`, id))
	return l, translate(err, fmt.Sprintf("location %d", id))
}

func (r *locationsRepo) List(ctx context.Context) ([]models.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, lat, lng FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *locationsRepo) Update(ctx context.Context, l models.Location) (models.Location, error) {
	out, err := scanLocation(r.pool.QueryRow(ctx,
		`UPDATE locations SET name=$2, lat=$3, lng=$4 WHERE id=$1 RETURNING id, name, lat, lng`,
		l.ID, l.Name, l.Lat, l.Lng,
	))
	return out, translate(err, fmt.Sprintf("location %d", l.ID))
}

func (r *locationsRepo) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("location %d", id)
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id=$1`, id)
	if err != nil {
		return translate(err, what)
	}
	return affected(tag, what)
}
