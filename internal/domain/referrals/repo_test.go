package referrals

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Тесты ниже проверяют контракт UNIQUE (referred_id) на живом Postgres.
// Без TEST_DATABASE_DSN они скипаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id     BIGINT PRIMARY KEY,
			username    TEXT,
			referrer_id BIGINT,
			is_bot      BOOLEAN     NOT NULL DEFAULT FALSE,
			subscribed  BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS referrals (
			referral_id BIGSERIAL PRIMARY KEY,
			referrer_id BIGINT      NOT NULL REFERENCES users (user_id),
			referred_id BIGINT      NOT NULL UNIQUE REFERENCES users (user_id),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT referrals_no_self CHECK (referrer_id <> referred_id)
		)`,
	} {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	return pool
}

// seedPair заводит реферера и приглашённого со свежими id,
// чтобы прогоны не мешали друг другу.
func seedPair(t *testing.T, pool *pgxpool.Pool) (referrer, referred int64) {
	t.Helper()
	base := time.Now().UnixNano()
	referrer, referred = base, base+1
	if _, err := pool.Exec(context.Background(),
		`INSERT INTO users (user_id, username) VALUES ($1, ''), ($2, '')`,
		referrer, referred); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return referrer, referred
}

func countEdges(t *testing.T, pool *pgxpool.Pool, referred int64) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM referrals WHERE referred_id = $1`, referred).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestAttributeTwiceKeepsSingleRow(t *testing.T) {
	pool := testPool(t)
	repo := NewRepo(pool)
	referrer, referred := seedPair(t, pool)
	ctx := context.Background()

	first, err := repo.Attribute(ctx, referrer, referred)
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if !first {
		t.Fatalf("first attempt must insert the edge")
	}
	second, err := repo.Attribute(ctx, referrer, referred)
	if err != nil {
		t.Fatalf("second attempt must be a benign no-op: %v", err)
	}
	if second {
		t.Fatalf("second attempt must not report an insert")
	}
	if n := countEdges(t, pool, referred); n != 1 {
		t.Fatalf("expected exactly one referral row, got %d", n)
	}
}

func TestAttributeConcurrentDuplicates(t *testing.T) {
	pool := testPool(t)
	repo := NewRepo(pool)
	referrer, referred := seedPair(t, pool)

	var wg sync.WaitGroup
	var inserted int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Attribute(context.Background(), referrer, referred)
			if err != nil {
				t.Errorf("concurrent attempt: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&inserted, 1)
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Fatalf("exactly one concurrent attempt may win, got %d", inserted)
	}
	if n := countEdges(t, pool, referred); n != 1 {
		t.Fatalf("expected exactly one referral row, got %d", n)
	}
}

func TestAttributeSelfReferralIsNoOp(t *testing.T) {
	pool := testPool(t)
	repo := NewRepo(pool)
	_, referred := seedPair(t, pool)

	ok, err := repo.Attribute(context.Background(), referred, referred)
	if err != nil {
		t.Fatalf("self-referral must be swallowed: %v", err)
	}
	if ok {
		t.Fatalf("self-referral must not insert")
	}
	if n := countEdges(t, pool, referred); n != 0 {
		t.Fatalf("self-referral left %d rows", n)
	}
}

func TestAttributeUnknownReferrerIsNoOp(t *testing.T) {
	pool := testPool(t)
	repo := NewRepo(pool)
	_, referred := seedPair(t, pool)

	ok, err := repo.Attribute(context.Background(), referred+999, referred)
	if err != nil {
		t.Fatalf("unknown referrer must be swallowed: %v", err)
	}
	if ok {
		t.Fatalf("unknown referrer must not insert")
	}
	if n := countEdges(t, pool, referred); n != 0 {
		t.Fatalf("unknown referrer left %d rows", n)
	}
}
