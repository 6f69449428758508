package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type chatMemberAPI interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// ChannelOracle отвечает на вопрос «состоит ли пользователь в канале»
// через getChatMember.
type ChannelOracle struct {
	api chatMemberAPI
}

func NewChannelOracle(api *tgbotapi.BotAPI) *ChannelOracle {
	return &ChannelOracle{api: api}
}

// MemberStatus уважает ctx: клиент BotAPI сам контекст не принимает,
// поэтому запрос уходит в горутину, а отмена/таймаут гейта обрывают
// ожидание. Отставшая горутина дорабатывает до таймаута HTTP-клиента.
func (o *ChannelOracle) MemberStatus(ctx context.Context, chat string, userID int64) (string, error) {
	type outcome struct {
		status string
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		member, err := o.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				SuperGroupUsername: chat,
				UserID:             userID,
			},
		})
		if err != nil {
			ch <- outcome{err: err}
			return
		}
		ch <- outcome{status: member.Status}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case out := <-ch:
		return out.status, out.err
	}
}
