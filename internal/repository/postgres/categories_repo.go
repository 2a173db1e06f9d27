package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

func (r *categoriesRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories(name) VALUES($1) RETURNING id, name`, c.Name,
	).Scan(&c.ID, &c.Name)
	return c, translate(err, "category")
}

func (r *categoriesRepo) GetByID(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id=$1`, id).Scan(&c.ID, &c.Name)
	return c, translate(err, fmt.Sprintf("category %d", id))
}

func (r *categoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoriesRepo) Update(ctx context.Context, c models.Category) (models.Category, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name=$2 WHERE id=$1 RETURNING id, name`, c.ID, c.Name,
	).Scan(&c.ID, &c.Name)
	return c, translate(err, fmt.Sprintf("category %d", c.ID))
}

// Delete relies on ads.category_id ON DELETE RESTRICT.
func (r *categoriesRepo) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("category %d", id)
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if pgCode(err) == codeForeignKeyViolation {
		return fmt.Errorf("%s is still used by ads: %w", what, models.ErrConflict)
	}
	if err != nil {
		return translate(err, what)
	}
	return affected(tag, what)
}
