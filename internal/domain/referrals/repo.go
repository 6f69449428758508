package referrals

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Attribute записывает реферальное ребро. Идемпотентность держится на
// UNIQUE (referred_id): повторная и конкурентная попытка даёт 0 вставленных
// строк и возвращается как attributed=false без ошибки. Самореферал и
// несуществующий реферер отсекаются constraint'ами таблицы и тоже
// считаются no-op.
func (r *Repo) Attribute(ctx context.Context, referrerID, referredID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO referrals (referrer_id, referred_id)
		VALUES ($1, $2)
		ON CONFLICT (referred_id) DO NOTHING
	`, referrerID, referredID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503", "23514": // нет такого реферера / referrer = referred
				return false, nil
			}
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) CountFor(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, userID).Scan(&n)
	return n, err
}

// RecentFor — последние приглашённые, новые первыми.
func (r *Repo) RecentFor(ctx context.Context, userID int64, limit int) ([]Recent, error) {
	const q = `
		SELECT COALESCE(u.username, ''), r.created_at
		FROM referrals r
		JOIN users u ON r.referred_id = u.user_id
		WHERE r.referrer_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recent
	for rows.Next() {
		var rec Recent
		if err := rows.Scan(&rec.Username, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	const q = `
		SELECT r.referrer_id, COALESCE(u.username, ''), COUNT(*) AS cnt
		FROM referrals r
		JOIN users u ON r.referrer_id = u.user_id
		GROUP BY r.referrer_id, u.username
		ORDER BY cnt DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.UserID, &row.Username, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopReferrer — nil, если рефералов ещё нет.
func (r *Repo) TopReferrer(ctx context.Context) (*Row, error) {
	const q = `
		SELECT r.referrer_id, COALESCE(u.username, ''), COUNT(*) AS cnt
		FROM referrals r
		JOIN users u ON r.referrer_id = u.user_id
		GROUP BY r.referrer_id, u.username
		ORDER BY cnt DESC
		LIMIT 1`
	row := r.pool.QueryRow(ctx, q)
	var top Row
	if err := row.Scan(&top.UserID, &top.Username, &top.Count); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &top, nil
}
