package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, userID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, COALESCE(username, ''), referrer_id, is_bot, subscribed, created_at
		FROM users WHERE user_id = $1
	`, userID)

	var u User
	if err := row.Scan(&u.UserID, &u.Username, &u.ReferrerID, &u.IsBot, &u.Subscribed, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Upsert по Telegram-профилю. Повторный контакт обновляет только username:
// referrer_id фиксируется при первой вставке и больше не трогается.
func (r *Repo) Upsert(ctx context.Context, tg Telegram) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, username, referrer_id, is_bot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username
	`, tg.ID, tg.Username, tg.ReferrerID, tg.IsBot)
	return err
}

func (r *Repo) SetSubscribed(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET subscribed = TRUE WHERE user_id = $1`, userID)
	return err
}

func (r *Repo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *Repo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

// ListUnverified — пользователи без капчи или с непройденной капчей.
func (r *Repo) ListUnverified(ctx context.Context, limit int) ([]Unverified, error) {
	const q = `
		SELECT u.user_id, COALESCE(u.username, '')
		FROM users u
		LEFT JOIN captcha c ON u.user_id = c.user_id
		WHERE c.passed IS FALSE OR c.passed IS NULL
		ORDER BY u.created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Unverified
	for rows.Next() {
		var u Unverified
		if err := rows.Scan(&u.UserID, &u.Username); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
