package admins

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Seed идемпотентно доливает фиксированный список админов из конфига.
func (r *Repo) Seed(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO admins (admin_id) VALUES ($1) ON CONFLICT DO NOTHING`, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE admin_id = $1)`, userID).Scan(&ok)
	return ok, err
}
