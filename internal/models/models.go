package models

import "time"

type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the in-memory form of one conversation thread, held only for
// the duration of a single exchange. The store owns the durable copy.
type Session struct {
	ID          int64
	OwnerID     int64
	TitleSource *string // first user turn; nil until the first real exchange
	Log         MessageLog
}

// SessionRecord is the persisted shape of a session. TitleSource is a
// pointer so that "never set" survives the round trip as NULL rather
// than collapsing to the empty string.
type SessionRecord struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	TitleSource *string   `json:"title_source,omitempty"`
	Log         string    `json:"log"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionView struct {
	ID    int64      `json:"session_id"`
	Title string     `json:"title"`
	Log   MessageLog `json:"log"`
}

type SessionSummary struct {
	ID    int64  `json:"session_id"`
	Title string `json:"title"`
}
