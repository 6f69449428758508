package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

// isNotModified — ответ Telegram на edit без изменений; штатная ситуация.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func (b *Bot) sendScreen(chatID int64, s screen) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, s.text)
	msg.ReplyMarkup = s.markup()
	if s.markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	return b.api.Send(msg)
}

func (b *Bot) editScreen(chatID int64, messageID int, s screen) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, s.text, s.markup())
	if s.markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.api.Request(edit); err != nil && !isNotModified(err) {
		return err
	}
	return nil
}

func (b *Bot) replyText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error("send failed", "err", err)
	}
}
