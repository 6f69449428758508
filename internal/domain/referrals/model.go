package referrals

import "time"

type Referral struct {
	ID         int64
	ReferrerID int64
	ReferredID int64
	CreatedAt  time.Time
}

// Recent — запись списка «мои рефералы».
type Recent struct {
	Username  string
	CreatedAt time.Time
}

// Row — строка лидерборда. Группировка идёт по user_id реферера,
// username только для отображения.
type Row struct {
	UserID   int64
	Username string
	Count    int64
}
