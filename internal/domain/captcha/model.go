package captcha

// State — one-to-one с пользователем. passed сбрасывается каждый раз,
// когда выдаётся новый челлендж; message_id хранит последнее сообщение
// с кнопкой подтверждения.
type State struct {
	UserID    int64
	Passed    bool
	MessageID int64
}
