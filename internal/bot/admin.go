package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// statsWindow — границы «за день» (с местной полуночи) и «за неделю».
func statsWindow(now time.Time) (today, weekAgo time.Time) {
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today, today.AddDate(0, 0, -7)
}

func (b *Bot) requireAdmin(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) (bool, error) {
	isAdmin, err := b.admins.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	if cb != nil {
		b.answerCallback(cb, "⛔ У вас нет доступа!", true)
	} else {
		b.replyText(chatID, "⛔ У вас нет доступа!")
	}
	return false, nil
}

func (b *Bot) showStats(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) error {
	ok, err := b.requireAdmin(ctx, userID, chatID, cb)
	if err != nil || !ok {
		return err
	}

	today, weekAgo := statsWindow(time.Now())
	total, err := b.users.CountAll(ctx)
	if err != nil {
		return err
	}
	daily, err := b.users.CountSince(ctx, today)
	if err != nil {
		return err
	}
	weekly, err := b.users.CountSince(ctx, weekAgo)
	if err != nil {
		return err
	}
	top, err := b.referrals.TopReferrer(ctx)
	if err != nil {
		return err
	}

	s := statsScreen(total, daily, weekly, top)
	if cb == nil {
		_, err = b.sendScreen(chatID, s)
		return err
	}
	b.answerCallback(cb, "", false)
	return b.editScreen(chatID, cb.Message.MessageID, s)
}

func (b *Bot) showBots(ctx context.Context, userID, chatID int64, cb *tgbotapi.CallbackQuery) error {
	ok, err := b.requireAdmin(ctx, userID, chatID, cb)
	if err != nil || !ok {
		return err
	}

	list, err := b.users.ListUnverified(ctx, listLimit)
	if err != nil {
		return err
	}

	s := botsScreen(list)
	if cb == nil {
		_, err = b.sendScreen(chatID, s)
		return err
	}
	b.answerCallback(cb, "", false)
	return b.editScreen(chatID, cb.Message.MessageID, s)
}

// handleExport — выгрузка сводки и лидерборда в Excel.
func (b *Bot) handleExport(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	ok, err := b.requireAdmin(ctx, cb.From.ID, cb.Message.Chat.ID, cb)
	if err != nil || !ok {
		return err
	}

	today, weekAgo := statsWindow(time.Now())
	total, err := b.users.CountAll(ctx)
	if err != nil {
		return err
	}
	daily, err := b.users.CountSince(ctx, today)
	if err != nil {
		return err
	}
	weekly, err := b.users.CountSince(ctx, weekAgo)
	if err != nil {
		return err
	}
	board, err := b.referrals.Leaderboard(ctx, listLimit)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	rows := [][]interface{}{
		{"Всего пользователей", total},
		{"За день", daily},
		{"За неделю", weekly},
		{},
		{"place", "user_id", "username", "referrals"},
	}
	for i, r := range board {
		rows = append(rows, []interface{}{i + 1, r.UserID, r.Username, r.Count})
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return err
	}

	b.answerCallback(cb, "", false)
	doc := tgbotapi.NewDocument(cb.Message.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("referrals_%s.xlsx", time.Now().Format("20060102_150405")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "Сводка по рефералам"
	if _, err := b.api.Send(doc); err != nil {
		return err
	}
	return nil
}
