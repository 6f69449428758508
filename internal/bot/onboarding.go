package bot

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romakotto/refbot/internal/domain/users"
	"github.com/romakotto/refbot/internal/gate"
	"github.com/romakotto/refbot/internal/infra/metrics"
)

// handleStart — первый контакт: апсерт пользователя (referrer_id берётся
// из payload ссылки и фиксируется только при первой вставке) и выдача
// капча-челленджа. Повторный /start перевыпускает челлендж.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	var referrerID *int64
	if args := msg.CommandArguments(); args != "" {
		if id, err := strconv.ParseInt(args, 10, 64); err == nil {
			referrerID = &id
		}
	}

	if err := b.users.Upsert(ctx, users.Telegram{
		ID:         msg.From.ID,
		Username:   msg.From.UserName,
		IsBot:      msg.From.IsBot,
		ReferrerID: referrerID,
	}); err != nil {
		return err
	}

	sent, err := b.sendScreen(msg.Chat.ID, challengeScreen())
	if err != nil {
		return err
	}
	return b.captcha.IssueChallenge(ctx, msg.From.ID, int64(sent.MessageID))
}

// handleCaptcha — нажатие «Я не бот». Само взаимодействие и есть
// подтверждение, дальше сразу проверяем подписку.
func (b *Bot) handleCaptcha(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.answerCallback(cb, "", false)
	uid := cb.From.ID

	if err := b.captcha.MarkPassed(ctx, uid); err != nil {
		return err
	}

	res, err := b.gate.RequireSubscription(ctx, uid)
	if err != nil {
		return err
	}
	if res.Allowed {
		if err := b.maybeAttribute(ctx, uid); err != nil {
			return err
		}
		return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, refLinkScreen(b.botName, uid))
	}
	return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, subscriptionScreen(b.channel, false))
}

// handleCheckSub — кнопка «Проверить подписку».
func (b *Bot) handleCheckSub(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	uid := cb.From.ID

	res, err := b.gate.RequireSubscription(ctx, uid)
	if err != nil {
		return err
	}
	switch {
	case res.Allowed:
		b.answerCallback(cb, "", false)
		if err := b.maybeAttribute(ctx, uid); err != nil {
			return err
		}
		return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, refLinkScreen(b.botName, uid))
	case res.Reason == gate.ReasonCheckFailed:
		b.answerCallback(cb, "⚠️ Ошибка проверки", true)
		return nil
	default:
		b.answerCallback(cb, "❌ Вы не подписаны!", true)
		return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, subscriptionScreen(b.channel, true))
	}
}

// maybeAttribute вызывается в момент первого полного допуска. Сама запись
// идемпотентна: повторные вызовы и гонки гасятся UNIQUE (referred_id).
func (b *Bot) maybeAttribute(ctx context.Context, userID int64) error {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil || u.ReferrerID == nil {
		return nil
	}

	attributed, err := b.referrals.Attribute(ctx, *u.ReferrerID, userID)
	if err != nil {
		return err
	}
	if attributed {
		metrics.ReferralsAttributed.Inc()
		b.log.Info("referral attributed", "referrer_id", *u.ReferrerID, "referred_id", userID)
	}
	return nil
}

// admitOr прогоняет полный гейт и сам показывает ремедиацию на отказ.
// Возвращает true, если действие можно выполнять.
func (b *Bot) admitOr(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) (bool, error) {
	res, err := b.gate.Admit(ctx, userID)
	if err != nil {
		return false, err
	}
	if res.Allowed {
		return true, nil
	}

	if res.Reason == gate.ReasonNotVerified {
		if cb != nil {
			b.answerCallback(cb, "⚠️ Сначала пройдите капчу: /start", true)
		} else {
			b.replyText(chatID, "⚠️ Сначала пройдите капчу: /start")
		}
		return false, nil
	}

	// NotSubscribed и CheckFailed для пользователя выглядят одинаково
	if cb != nil {
		b.answerCallback(cb, "", false)
		return false, b.editScreen(chatID, cb.Message.MessageID, subscriptionScreen(b.channel, true))
	}
	_, err = b.sendScreen(chatID, subscriptionScreen(b.channel, true))
	return false, err
}
