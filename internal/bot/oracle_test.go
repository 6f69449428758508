package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type blockingMemberAPI struct {
	release chan struct{}
}

func (b *blockingMemberAPI) GetChatMember(_ tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	<-b.release
	return tgbotapi.ChatMember{Status: "member"}, nil
}

func TestMemberStatusAbortsOnCancelledContext(t *testing.T) {
	api := &blockingMemberAPI{release: make(chan struct{})}
	defer close(api.release)
	o := &ChannelOracle{api: api}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	status, err := o.MemberStatus(ctx, "@channel", 1)
	if err == nil {
		t.Fatalf("expected error from cancelled context, got status %q", status)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("lookup did not abort promptly, took %v", elapsed)
	}
}

func TestMemberStatusAbortsOnDeadline(t *testing.T) {
	api := &blockingMemberAPI{release: make(chan struct{})}
	defer close(api.release)
	o := &ChannelOracle{api: api}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := o.MemberStatus(ctx, "@channel", 1); err == nil {
		t.Fatalf("expected deadline error while transport hangs")
	}
}

func TestMemberStatusReturnsStatus(t *testing.T) {
	api := &blockingMemberAPI{release: make(chan struct{})}
	close(api.release)
	o := &ChannelOracle{api: api}

	status, err := o.MemberStatus(context.Background(), "@channel", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "member" {
		t.Fatalf("status = %q, want member", status)
	}
}
