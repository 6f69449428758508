package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const listLimit = 15

// showMyRefs — список приглашённых. На «Обновить» сравниваем новый экран
// с уже отображённым и при совпадении ничего не редактируем.
func (b *Bot) showMyRefs(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) error {
	ok, err := b.admitOr(ctx, userID, chatID, cb)
	if err != nil || !ok {
		return err
	}

	total, err := b.referrals.CountFor(ctx, userID)
	if err != nil {
		return err
	}
	refs, err := b.referrals.RecentFor(ctx, userID, listLimit)
	if err != nil {
		return err
	}

	s := myRefsScreen(total, refs)
	if cb == nil {
		_, err = b.sendScreen(chatID, s)
		return err
	}
	if s.sameAsMessage(cb.Message) {
		b.answerCallback(cb, "✅ Данные актуальны!", false)
		return nil
	}
	b.answerCallback(cb, "", false)
	return b.editScreen(chatID, cb.Message.MessageID, s)
}

func (b *Bot) showLeaders(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) error {
	ok, err := b.admitOr(ctx, userID, chatID, cb)
	if err != nil || !ok {
		return err
	}

	rows, err := b.referrals.Leaderboard(ctx, listLimit)
	if err != nil {
		return err
	}

	s := leadersScreen(rows)
	if cb == nil {
		_, err = b.sendScreen(chatID, s)
		return err
	}
	b.answerCallback(cb, "", false)
	return b.editScreen(chatID, cb.Message.MessageID, s)
}

func (b *Bot) handleGetRefLink(cb *tgbotapi.CallbackQuery) error {
	b.answerCallback(cb, "", false)
	return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, refLinkScreen(b.botName, cb.From.ID))
}

func (b *Bot) handleCopy(cb *tgbotapi.CallbackQuery) error {
	raw := strings.TrimPrefix(cb.Data, "copy_")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		b.answerCallback(cb, "", false)
		return nil
	}
	b.answerCallback(cb, "", false)
	return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, copyLinkScreen(b.botName, userID))
}

func (b *Bot) backToMenu(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	b.answerCallback(cb, "", false)
	isAdmin, err := b.admins.IsAdmin(ctx, cb.From.ID)
	if err != nil {
		return err
	}
	return b.editScreen(cb.Message.Chat.ID, cb.Message.MessageID, mainMenuScreen(isAdmin))
}
