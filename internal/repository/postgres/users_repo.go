package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userSelect = `
SELECT u.id, u.username, u.password_hash, u.first_name, u.last_name, u.role, u.age,
       COALESCE(array_agg(l.name ORDER BY l.name) FILTER (WHERE l.id IS NOT NULL), '{}')
  FROM users u
  LEFT JOIN user_locations ul ON ul.user_id = u.id
  LEFT JOIN locations l ON l.id = ul.location_id`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.Age, &u.Locations); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	var id int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users(username, password_hash, first_name, last_name, role, age)
			 VALUES($1,$2,$3,$4,$5,$6) RETURNING id`,
			u.Username, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.Age,
		).Scan(&id)
		if err != nil {
			return translate(err, "user")
		}
		return addLocations(ctx, tx, id, u.Locations)
	})
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, id)
}

// addLocations upserts each location by name and links it to the user.
func addLocations(ctx context.Context, q querier, userID int64, names []string) error {
	for _, name := range names {
		var locID int64
		err := q.QueryRow(ctx,
			`INSERT INTO locations(name) VALUES($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, name,
		).Scan(&locID)
		if err != nil {
			return translate(err, "location "+name)
		}
		_, err = q.Exec(ctx,
			`INSERT INTO user_locations(user_id, location_id) VALUES($1,$2) ON CONFLICT DO NOTHING`,
			userID, locID,
		)
		if err != nil {
			return translate(err, "user location")
		}
	}
	return nil
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id=$1 GROUP BY u.id`, id))
	return u, translate(err, fmt.Sprintf("user %d", id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.username=$1 GROUP BY u.id`, username))
	return u, translate(err, "user "+username)
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` GROUP BY u.id ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	what := fmt.Sprintf("user %d", u.ID)
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users
			    SET username=$2, password_hash=$3, first_name=$4, last_name=$5, role=$6, age=$7
			  WHERE id=$1`,
			u.ID, u.Username, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.Age,
		)
		if err != nil {
			return translate(err, what)
		}
		if err := affected(tag, what); err != nil {
			return err
		}
		return addLocations(ctx, tx, u.ID, u.Locations)
	})
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("user %d", id)
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return translate(err, what)
	}
	return affected(tag, what)
}
