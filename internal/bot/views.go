package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romakotto/refbot/internal/domain/referrals"
	"github.com/romakotto/refbot/internal/domain/users"
)

// screen — текст плюс раскладка inline-кнопок. Построение чистое, чтобы
// сравнение «а изменилось ли что-то» работало без походов в транспорт.
type screen struct {
	text     string
	markdown bool
	keyboard [][]btn
}

type btn struct {
	text string
	data string
	url  string
}

func row(buttons ...btn) []btn { return buttons }

func cbBtn(text, data string) btn { return btn{text: text, data: data} }
func urlBtn(text, url string) btn { return btn{text: text, url: url} }

func (s screen) markup() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.keyboard))
	for _, r := range s.keyboard {
		out := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			if b.url != "" {
				out = append(out, tgbotapi.NewInlineKeyboardButtonURL(b.text, b.url))
			} else {
				out = append(out, tgbotapi.NewInlineKeyboardButtonData(b.text, b.data))
			}
		}
		rows = append(rows, out)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// sameAsMessage — экран уже отображён в этом сообщении? Telegram на
// повторный edit с тем же содержимым отвечает ошибкой, поэтому такой
// edit мы просто не делаем.
func (s screen) sameAsMessage(msg *tgbotapi.Message) bool {
	if msg == nil || msg.Text != s.text {
		return false
	}
	var current [][]tgbotapi.InlineKeyboardButton
	if msg.ReplyMarkup != nil {
		current = msg.ReplyMarkup.InlineKeyboard
	}
	if len(current) != len(s.keyboard) {
		return false
	}
	for i, r := range s.keyboard {
		if len(current[i]) != len(r) {
			return false
		}
		for j, b := range r {
			got := current[i][j]
			if got.Text != b.text {
				return false
			}
			if b.url != "" {
				if got.URL == nil || *got.URL != b.url {
					return false
				}
				continue
			}
			if got.CallbackData == nil || *got.CallbackData != b.data {
				return false
			}
		}
	}
	return true
}

func backRow() []btn {
	return row(cbBtn("🔙 Назад", "back_to_commands"))
}

func mainMenuScreen(isAdmin bool) screen {
	kb := [][]btn{
		row(cbBtn("👥 Мои рефералы", "my_refs"), cbBtn("🏆 Лидерборд", "leaders")),
		row(cbBtn("🔗 Реферальная ссылка", "get_ref_link")),
	}
	if isAdmin {
		kb = append(kb, row(cbBtn("📊 Статистика", "stats"), cbBtn("🤖 Список ботов", "bots")))
	}
	return screen{text: "📜 Главное меню:", keyboard: kb}
}

func challengeScreen() screen {
	return screen{
		text:     "Подтвердите, что вы не бот:",
		keyboard: [][]btn{row(cbBtn("✅ Я не бот", "captcha"))},
	}
}

func subscriptionScreen(channel string, retry bool) screen {
	text := "Подпишитесь на канал:"
	if retry {
		text = "❌ Вы не подписаны! Подпишитесь:"
	}
	return screen{
		text: text,
		keyboard: [][]btn{
			row(urlBtn("Перейти в канал", "https://t.me/"+strings.TrimPrefix(channel, "@"))),
			row(cbBtn("Проверить подписку", "check_sub")),
		},
	}
}

func refLink(botName string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botName, userID)
}

func refLinkScreen(botName string, userID int64) screen {
	return screen{
		text:     fmt.Sprintf("🎉 Ваша реферальная ссылка:\n`%s`", refLink(botName, userID)),
		markdown: true,
		keyboard: [][]btn{
			row(cbBtn("📋 Скопировать ссылку", fmt.Sprintf("copy_%d", userID))),
			row(cbBtn("👥 Мои рефералы", "my_refs")),
			backRow(),
		},
	}
}

func copyLinkScreen(botName string, userID int64) screen {
	return screen{
		text:     fmt.Sprintf("🔗 *Ваша ссылка:*\n`%s`\n\nНажмите для копирования", refLink(botName, userID)),
		markdown: true,
		keyboard: [][]btn{backRow()},
	}
}

func myRefsScreen(total int64, refs []referrals.Recent) screen {
	lines := []string{fmt.Sprintf("👥 Всего рефералов: %d", total)}
	if len(refs) > 0 {
		lines = append(lines, "Последние 15:")
		for i, r := range refs {
			name := "Аноним"
			if r.Username != "" {
				name = "@" + r.Username
			}
			lines = append(lines, fmt.Sprintf("%d. %s — %s", i+1, name, r.CreatedAt.Format("02.01.2006")))
		}
	} else {
		lines = append(lines, "😔 Пока нет рефералов")
	}
	return screen{
		text: strings.Join(lines, "\n"),
		keyboard: [][]btn{
			row(cbBtn("🔗 Моя реферальная ссылка", "get_ref_link")),
			row(cbBtn("🔄 Обновить", "my_refs")),
			backRow(),
		},
	}
}

func displayName(username string, userID int64) string {
	if username == "" {
		return fmt.Sprintf("id %d", userID)
	}
	return "@" + username
}

func leadersScreen(rows []referrals.Row) screen {
	lines := []string{"🏆 Топ-15 рефереров:"}
	for i, r := range rows {
		lines = append(lines, fmt.Sprintf("%d. %s — %d", i+1, displayName(r.Username, r.UserID), r.Count))
	}
	return screen{
		text:     strings.Join(lines, "\n"),
		keyboard: [][]btn{backRow()},
	}
}

func statsScreen(total, daily, weekly int64, top *referrals.Row) screen {
	lines := []string{
		"📈 Статистика:",
		fmt.Sprintf("👥 Всего: %d", total),
		fmt.Sprintf("🕒 За день: %d", daily),
		fmt.Sprintf("📅 За неделю: %d", weekly),
	}
	if top != nil && top.Count > 0 {
		lines = append(lines, fmt.Sprintf("🏆 Топ рефовод: %s (%d)", displayName(top.Username, top.UserID), top.Count))
	}
	return screen{
		text: strings.Join(lines, "\n"),
		keyboard: [][]btn{
			row(cbBtn("📥 Выгрузка", "export")),
			backRow(),
		},
	}
}

func botsScreen(list []users.Unverified) screen {
	lines := []string{"🤖 Все прошли капчу!"}
	if len(list) > 0 {
		lines = []string{"🚫 Не прошли капчу:"}
		for _, u := range list {
			name := "нет юзернейма"
			if u.Username != "" {
				name = "@" + u.Username
			}
			lines = append(lines, fmt.Sprintf("ID: %d | %s", u.UserID, name))
		}
	}
	return screen{
		text:     strings.Join(lines, "\n"),
		keyboard: [][]btn{backRow()},
	}
}
