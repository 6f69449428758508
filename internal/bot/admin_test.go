package bot

import (
	"testing"
	"time"
)

func TestStatsWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 17, 42, 13, 0, time.UTC)
	today, weekAgo := statsWindow(now)

	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !today.Equal(want) {
		t.Fatalf("today = %v, want midnight %v", today, want)
	}
	if !weekAgo.Equal(want.AddDate(0, 0, -7)) {
		t.Fatalf("weekAgo = %v, want %v", weekAgo, want.AddDate(0, 0, -7))
	}
}
