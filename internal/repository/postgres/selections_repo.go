package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type selectionsRepo struct{ pool *pgxpool.Pool }

const selectionSelect = `
SELECT s.id, s.name, s.owner_id,
       COALESCE(array_agg(si.ad_id ORDER BY si.ad_id) FILTER (WHERE si.ad_id IS NOT NULL), '{}')
  FROM selections s
  LEFT JOIN selection_items si ON si.selection_id = s.id`

func setItems(ctx context.Context, q querier, selectionID int64, items []int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM selection_items WHERE selection_id=$1`, selectionID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		`INSERT INTO selection_items(selection_id, ad_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING`,
		selectionID, items,
	)
	return translate(err, "selection item")
}

func (r *selectionsRepo) Create(ctx context.Context, s models.Selection) (models.Selection, error) {
	var id int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO selections(name, owner_id) VALUES($1,$2) RETURNING id`, s.Name, s.OwnerID,
		).Scan(&id)
		if err != nil {
			return translate(err, "selection")
		}
		return setItems(ctx, tx, id, s.Items)
	})
	if err != nil {
		return models.Selection{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *selectionsRepo) GetByID(ctx context.Context, id int64) (models.Selection, error) {
	var s models.Selection
	err := r.pool.QueryRow(ctx, selectionSelect+` WHERE s.id=$1 GROUP BY s.id`, id).
		Scan(&s.ID, &s.Name, &s.OwnerID, &s.Items)
	return s, translate(err, fmt.Sprintf("selection %d", id))
}

func (r *selectionsRepo) List(ctx context.Context) ([]models.SelectionSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM selections ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SelectionSummary{}
	for rows.Next() {
		var s models.SelectionSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *selectionsRepo) Update(ctx context.Context, s models.Selection) (models.Selection, error) {
	what := fmt.Sprintf("selection %d", s.ID)
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE selections SET name=$2, owner_id=$3 WHERE id=$1`, s.ID, s.Name, s.OwnerID)
		if err != nil {
			return translate(err, what)
		}
		if err := affected(tag, what); err != nil {
			return err
		}
		return setItems(ctx, tx, s.ID, s.Items)
	})
	if err != nil {
		return models.Selection{}, err
	}
	return r.GetByID(ctx, s.ID)
}

func (r *selectionsRepo) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("selection %d", id)
	tag, err := r.pool.Exec(ctx, `DELETE FROM selections WHERE id=$1`, id)
	if err != nil {
		return translate(err, what)
	}
	return affected(tag, what)
}
