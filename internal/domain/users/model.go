package users

import "time"

type User struct {
	UserID     int64
	Username   string
	ReferrerID *int64
	IsBot      bool
	Subscribed bool
	CreatedAt  time.Time
}

// Telegram — профиль из апдейта; referrer заполняется только из payload /start.
type Telegram struct {
	ID         int64
	Username   string
	IsBot      bool
	ReferrerID *int64
}

// Unverified — пользователь без пройденной капчи (для админского списка).
type Unverified struct {
	UserID   int64
	Username string
}
