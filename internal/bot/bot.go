package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romakotto/refbot/internal/domain/referrals"
	"github.com/romakotto/refbot/internal/domain/users"
	"github.com/romakotto/refbot/internal/gate"
	"github.com/romakotto/refbot/internal/infra/metrics"
)

// TelegramAPI — срез *tgbotapi.BotAPI, которым пользуется оркестратор.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserStore interface {
	Upsert(ctx context.Context, tg users.Telegram) error
	GetByID(ctx context.Context, userID int64) (*users.User, error)
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	ListUnverified(ctx context.Context, limit int) ([]users.Unverified, error)
}

type ChallengeStore interface {
	IssueChallenge(ctx context.Context, userID, messageID int64) error
	MarkPassed(ctx context.Context, userID int64) error
}

type ReferralLedger interface {
	Attribute(ctx context.Context, referrerID, referredID int64) (bool, error)
	CountFor(ctx context.Context, userID int64) (int64, error)
	RecentFor(ctx context.Context, userID int64, limit int) ([]referrals.Recent, error)
	Leaderboard(ctx context.Context, limit int) ([]referrals.Row, error)
	TopReferrer(ctx context.Context) (*referrals.Row, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type Bot struct {
	api       TelegramAPI
	log       *slog.Logger
	users     UserStore
	captcha   ChallengeStore
	referrals ReferralLedger
	admins    AdminStore
	gate      *gate.Gate
	channel   string // "@..." — канал с обязательной подпиской
	botName   string // username бота для реферальных ссылок
}

func New(api TelegramAPI, log *slog.Logger,
	usersRepo UserStore, captchaRepo ChallengeStore,
	referralsRepo ReferralLedger, adminsRepo AdminStore,
	g *gate.Gate, channel, botName string) *Bot {

	return &Bot{
		api: api, log: log, users: usersRepo, captcha: captchaRepo,
		referrals: referralsRepo, admins: adminsRepo,
		gate: g, channel: channel, botName: botName,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			metrics.UpdatesTotal.Inc()
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}
