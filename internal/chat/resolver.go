package chat

import (
	"context"
	"fmt"

	"github.com/RichardoC/chat-thread/internal/models"
)

// resolve loads the session identified by sessionID for ownerID, or hands
// back a fresh unpersisted session when sessionID is zero. Ownership is
// part of the lookup key, so a session owned by someone else resolves
// exactly like one that does not exist.
func (s *Service) resolve(ctx context.Context, ownerID, sessionID int64) (*models.Session, bool, error) {
	if sessionID == 0 {
		return &models.Session{OwnerID: ownerID, Log: models.MessageLog{}}, true, nil
	}

	rec, ok, err := s.sessions.GetSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, false, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if !ok {
		return nil, false, fmt.Errorf("%w: id %d", ErrSessionNotFound, sessionID)
	}

	log, err := models.DeserializeLog(rec.Log)
	if err != nil {
		return nil, false, fmt.Errorf("session %d: %w", sessionID, err)
	}

	return &models.Session{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		TitleSource: rec.TitleSource,
		Log:         log,
	}, false, nil
}
