package captcha

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// IssueChallenge создаёт или перевыпускает челлендж: passed сбрасывается,
// message_id указывает на новое сообщение. Живой челлендж всегда один.
func (r *Repo) IssueChallenge(ctx context.Context, userID, messageID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO captcha (user_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET message_id = EXCLUDED.message_id,
		    passed = FALSE
	`, userID, messageID)
	return err
}

func (r *Repo) MarkPassed(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE captcha SET passed = TRUE WHERE user_id = $1`, userID)
	return err
}

// Passed — отсутствие записи считается непройденной капчей.
func (r *Repo) Passed(ctx context.Context, userID int64) (bool, error) {
	var passed bool
	err := r.pool.QueryRow(ctx, `SELECT passed FROM captcha WHERE user_id = $1`, userID).Scan(&passed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return passed, nil
}

func (r *Repo) Get(ctx context.Context, userID int64) (*State, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, passed, COALESCE(message_id, 0) FROM captcha WHERE user_id = $1`, userID)
	var s State
	if err := row.Scan(&s.UserID, &s.Passed, &s.MessageID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
