package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// eventTimeout ограничивает обработку одного апдейта: все обращения
// хендлеров к хранилищу наследуют этот дедлайн, у гейта внутри свои
// более короткие границы.
const eventTimeout = 10 * time.Second

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !msg.IsCommand() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	var err error
	switch msg.Command() {
	case "start":
		err = b.handleStart(ctx, msg)
	case "my_referrals":
		err = b.showMyRefs(ctx, msg.From.ID, msg.Chat.ID, nil)
	case "leaders":
		err = b.showLeaders(ctx, msg.From.ID, msg.Chat.ID, nil)
	case "stats":
		err = b.showStats(ctx, msg.From.ID, msg.Chat.ID, nil)
	case "bots":
		err = b.showBots(ctx, msg.From.ID, msg.Chat.ID, nil)
	default:
		return
	}

	if err != nil {
		b.log.Error("handler failed", "command", msg.Command(), "user_id", msg.From.ID, "err", err)
		b.replyText(msg.Chat.ID, "⚠️ Что-то пошло не так. Повторите попытку.")
	}
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answerCallback(cb, "", false)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()
	chatID := cb.Message.Chat.ID

	var err error
	switch data := cb.Data; {
	case data == "captcha":
		err = b.handleCaptcha(ctx, cb)
	case data == "check_sub":
		err = b.handleCheckSub(ctx, cb)
	case strings.HasPrefix(data, "copy_"):
		err = b.handleCopy(cb)
	case data == "my_refs":
		err = b.showMyRefs(ctx, cb.From.ID, chatID, cb)
	case data == "leaders":
		err = b.showLeaders(ctx, cb.From.ID, chatID, cb)
	case data == "get_ref_link":
		err = b.handleGetRefLink(cb)
	case data == "back_to_commands":
		err = b.backToMenu(ctx, cb)
	case data == "stats":
		err = b.showStats(ctx, cb.From.ID, chatID, cb)
	case data == "bots":
		err = b.showBots(ctx, cb.From.ID, chatID, cb)
	case data == "export":
		err = b.handleExport(ctx, cb)
	default:
		b.answerCallback(cb, "", false)
	}

	if err != nil {
		b.log.Error("callback failed", "data", cb.Data, "user_id", cb.From.ID, "err", err)
		b.answerCallback(cb, "⚠️ Произошла ошибка. Попробуйте позже.", false)
	}
}
