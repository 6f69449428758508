package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/romakotto/refbot/internal/bot"
	"github.com/romakotto/refbot/internal/config"
	"github.com/romakotto/refbot/internal/domain/admins"
	"github.com/romakotto/refbot/internal/domain/captcha"
	"github.com/romakotto/refbot/internal/domain/referrals"
	"github.com/romakotto/refbot/internal/domain/users"
	"github.com/romakotto/refbot/internal/gate"
	"github.com/romakotto/refbot/internal/infra/db"
	httpx "github.com/romakotto/refbot/internal/infra/http"
	"github.com/romakotto/refbot/internal/infra/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	usersRepo := users.NewRepo(pool)
	captchaRepo := captcha.NewRepo(pool)
	referralsRepo := referrals.NewRepo(pool)
	adminsRepo := admins.NewRepo(pool)

	if err := adminsRepo.Seed(ctx, cfg.Telegram.Admins); err != nil {
		log.Error("admin seed failed", "err", err)
		return
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, tgbotapi.APIEndpoint,
		&http.Client{Timeout: time.Duration(cfg.Telegram.PollTimeout+10) * time.Second})
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	botName := cfg.Telegram.BotUsername
	if botName == "" {
		botName = api.Self.UserName
	}

	g := gate.New(log, captchaRepo, usersRepo,
		bot.NewChannelOracle(api), cfg.Telegram.Channel)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log, usersRepo, captchaRepo, referralsRepo, adminsRepo,
		g, cfg.Telegram.Channel, botName)
	if err := b.Run(ctx, cfg.Telegram.PollTimeout); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
