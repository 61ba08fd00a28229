package chat

import (
	"context"

	"github.com/RichardoC/chat-thread/internal/models"
)

// AccountStore is the slice of account persistence the session core needs.
type AccountStore interface {
	FindAccountByID(ctx context.Context, id int64) (*models.Account, bool, error)
}

// SessionStore is the durable owner of session records. Ids are assigned
// by InsertSession; the core never persists a session under a
// caller-supplied id.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID, ownerID int64) (*models.SessionRecord, bool, error)
	InsertSession(ctx context.Context, rec *models.SessionRecord) (int64, error)
	UpdateSession(ctx context.Context, rec *models.SessionRecord) error
	DeleteSession(ctx context.Context, sessionID, ownerID int64) (int64, error)
	DeleteSessionsForOwner(ctx context.Context, ownerID int64) (int64, error)
	ListSessionsForOwner(ctx context.Context, ownerID int64) ([]models.SessionRecord, error)
}

// ModelClient is a stateless text completion provider. It keeps no
// conversation state between calls; all memory is re-serialized into the
// prompt on every call.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
