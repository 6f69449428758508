package bot

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romakotto/refbot/internal/domain/referrals"
	"github.com/romakotto/refbot/internal/domain/users"
)

func messageFromScreen(s screen) *tgbotapi.Message {
	markup := s.markup()
	return &tgbotapi.Message{Text: s.text, ReplyMarkup: &markup}
}

func TestSameAsMessageDetectsUnchangedScreen(t *testing.T) {
	s := myRefsScreen(2, []referrals.Recent{
		{Username: "alice", CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	if !s.sameAsMessage(messageFromScreen(s)) {
		t.Fatalf("identical screen must compare equal to its own message")
	}
}

func TestSameAsMessageDetectsChangedText(t *testing.T) {
	s := myRefsScreen(2, nil)
	msg := messageFromScreen(myRefsScreen(3, nil))
	if s.sameAsMessage(msg) {
		t.Fatalf("screens with different totals must not compare equal")
	}
}

func TestSameAsMessageDetectsChangedKeyboard(t *testing.T) {
	s := mainMenuScreen(false)
	msg := messageFromScreen(mainMenuScreen(true))
	if s.sameAsMessage(msg) {
		t.Fatalf("admin and user menus must not compare equal")
	}
}

func TestSameAsMessageNilMessage(t *testing.T) {
	if mainMenuScreen(false).sameAsMessage(nil) {
		t.Fatalf("nil message can never match a screen")
	}
}

func TestMyRefsScreenEmpty(t *testing.T) {
	s := myRefsScreen(0, nil)
	if !strings.Contains(s.text, "Всего рефералов: 0") {
		t.Fatalf("missing total line: %q", s.text)
	}
	if !strings.Contains(s.text, "Пока нет рефералов") {
		t.Fatalf("missing empty-state line: %q", s.text)
	}
}

func TestMyRefsScreenFormatsEntries(t *testing.T) {
	s := myRefsScreen(2, []referrals.Recent{
		{Username: "alice", CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Username: "", CreatedAt: time.Date(2025, 2, 28, 9, 30, 0, 0, time.UTC)},
	})
	if !strings.Contains(s.text, "1. @alice — 01.03.2025") {
		t.Fatalf("bad entry formatting: %q", s.text)
	}
	if !strings.Contains(s.text, "2. Аноним — 28.02.2025") {
		t.Fatalf("empty username must render as anonymous: %q", s.text)
	}
}

func TestLeadersScreenKeepsDistinctEmptyUsernames(t *testing.T) {
	s := leadersScreen([]referrals.Row{
		{UserID: 42, Username: "", Count: 5},
		{UserID: 43, Username: "", Count: 3},
	})
	if !strings.Contains(s.text, "1. id 42 — 5") || !strings.Contains(s.text, "2. id 43 — 3") {
		t.Fatalf("rows with empty usernames must stay distinct: %q", s.text)
	}
}

func TestStatsScreenZeroUsers(t *testing.T) {
	s := statsScreen(0, 0, 0, nil)
	if !strings.Contains(s.text, "Всего: 0") {
		t.Fatalf("missing zero total: %q", s.text)
	}
	if strings.Contains(s.text, "Топ рефовод") {
		t.Fatalf("top referrer line must be absent with no referrals: %q", s.text)
	}
}

func TestStatsScreenSkipsZeroCountTop(t *testing.T) {
	s := statsScreen(10, 1, 2, &referrals.Row{UserID: 1, Username: "alice", Count: 0})
	if strings.Contains(s.text, "Топ рефовод") {
		t.Fatalf("zero-count top referrer must be hidden: %q", s.text)
	}
}

func TestStatsScreenShowsTopReferrer(t *testing.T) {
	s := statsScreen(10, 1, 2, &referrals.Row{UserID: 1, Username: "alice", Count: 7})
	if !strings.Contains(s.text, "Топ рефовод: @alice (7)") {
		t.Fatalf("missing top referrer line: %q", s.text)
	}
}

func TestSubscriptionScreenVariants(t *testing.T) {
	first := subscriptionScreen("@romakottochannel", false)
	retry := subscriptionScreen("@romakottochannel", true)
	if first.text == retry.text {
		t.Fatalf("retry prompt must differ from the first prompt")
	}
	url := first.keyboard[0][0].url
	if url != "https://t.me/romakottochannel" {
		t.Fatalf("channel URL built wrong: %q", url)
	}
}

func TestMainMenuAdminRows(t *testing.T) {
	if got := len(mainMenuScreen(false).keyboard); got != 2 {
		t.Fatalf("user menu rows = %d, want 2", got)
	}
	if got := len(mainMenuScreen(true).keyboard); got != 3 {
		t.Fatalf("admin menu rows = %d, want 3", got)
	}
}

func TestBotsScreen(t *testing.T) {
	empty := botsScreen(nil)
	if !strings.Contains(empty.text, "Все прошли капчу") {
		t.Fatalf("missing all-clear line: %q", empty.text)
	}
	s := botsScreen([]users.Unverified{{UserID: 7, Username: ""}})
	if !strings.Contains(s.text, "ID: 7 | нет юзернейма") {
		t.Fatalf("bad unverified entry: %q", s.text)
	}
}

func TestRefLink(t *testing.T) {
	if got := refLink("romakotto_bot", 99); got != "https://t.me/romakotto_bot?start=99" {
		t.Fatalf("bad referral link: %q", got)
	}
}
