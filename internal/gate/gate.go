// Package gate реализует допуск к реферальным действиям: упорядоченная
// цепочка проверок капча → подписка, выполняемая явно в начале каждого
// закрытого хендлера. Статус «полностью допущен» нигде не хранится — он
// каждый раз выводится заново из текущих флагов и живого ответа оракула.
package gate

import (
	"context"
	"log/slog"
	"time"

	"github.com/romakotto/refbot/internal/infra/metrics"
)

type Reason string

const (
	ReasonNotVerified   Reason = "not_verified"
	ReasonNotSubscribed Reason = "not_subscribed"
	ReasonCheckFailed   Reason = "check_failed"
)

type Result struct {
	Allowed bool
	Reason  Reason
}

var allow = Result{Allowed: true}

func deny(r Reason) Result { return Result{Reason: r} }

// CaptchaStore — чтение флага капчи; отсутствие записи = не пройдена.
type CaptchaStore interface {
	Passed(ctx context.Context, userID int64) (bool, error)
}

// SubscriberStore — односторонний кеш-флаг подписки. Никогда не читается
// при проверках, только пишется при Allow.
type SubscriberStore interface {
	SetSubscribed(ctx context.Context, userID int64) error
}

// Oracle отвечает на «какой статус у пользователя в канале» — внешний,
// возможно падающий вызов.
type Oracle interface {
	MemberStatus(ctx context.Context, chat string, userID int64) (string, error)
}

type Gate struct {
	log     *slog.Logger
	captcha CaptchaStore
	users   SubscriberStore
	oracle  Oracle
	channel string
	timeout time.Duration
}

func New(log *slog.Logger, captcha CaptchaStore, users SubscriberStore, oracle Oracle, channel string) *Gate {
	return &Gate{
		log:     log,
		captcha: captcha,
		users:   users,
		oracle:  oracle,
		channel: channel,
		timeout: 5 * time.Second,
	}
}

// RequireCaptcha ничего не мутирует: только смотрит текущий флаг.
func (g *Gate) RequireCaptcha(ctx context.Context, userID int64) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	passed, err := g.captcha.Passed(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if !passed {
		metrics.GateDenials.WithLabelValues(string(ReasonNotVerified)).Inc()
		return deny(ReasonNotVerified), nil
	}
	return allow, nil
}

// RequireSubscription всегда спрашивает оракула заново; на Allow попутно
// поднимает флаг subscribed. Ошибка оракула для пользователя неотличима
// от «не подписан», различие только в логах и метрике.
func (g *Gate) RequireSubscription(ctx context.Context, userID int64) (Result, error) {
	octx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	status, err := g.oracle.MemberStatus(octx, g.channel, userID)
	if err != nil {
		g.log.Error("subscription check failed", "user_id", userID, "err", err)
		metrics.OracleFailures.Inc()
		metrics.GateDenials.WithLabelValues(string(ReasonCheckFailed)).Inc()
		return deny(ReasonCheckFailed), nil
	}

	switch status {
	case "member", "administrator", "creator":
	default:
		metrics.GateDenials.WithLabelValues(string(ReasonNotSubscribed)).Inc()
		return deny(ReasonNotSubscribed), nil
	}

	sctx, cancel2 := context.WithTimeout(ctx, g.timeout)
	defer cancel2()
	if err := g.users.SetSubscribed(sctx, userID); err != nil {
		return Result{}, err
	}
	return allow, nil
}

// Admit — полный допуск. Капча дешевле и без внешних зависимостей,
// поэтому идёт первой: её отказ не тратит вызов оракула.
func (g *Gate) Admit(ctx context.Context, userID int64) (Result, error) {
	res, err := g.RequireCaptcha(ctx, userID)
	if err != nil || !res.Allowed {
		return res, err
	}
	return g.RequireSubscription(ctx, userID)
}
