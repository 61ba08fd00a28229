package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/RichardoC/chat-thread/internal/models"
	"go.uber.org/zap"
)

// Service advances conversations by one exchange at a time: it
// reconstructs the session's log, appends the user turn, calls the model
// with the re-rendered context, appends the reply and commits the whole
// session in a single store write. Nothing is persisted before the model
// call succeeds.
type Service struct {
	accounts  AccountStore
	sessions  SessionStore
	model     ModelClient
	assembler *Assembler
	logger    *zap.Logger

	// one mutex per live session id, so exchanges on different sessions
	// run concurrently while exchanges on the same session serialize
	// their read-modify-write of the log
	locks sync.Map
}

func NewService(accounts AccountStore, sessions SessionStore, model ModelClient, assembler *Assembler, logger *zap.Logger) *Service {
	return &Service{
		accounts:  accounts,
		sessions:  sessions,
		model:     model,
		assembler: assembler,
		logger:    logger,
	}
}

// Advance runs one exchange: user turn in, assistant turn out. A zero
// sessionID starts a new session; the store assigns its id on the first
// persist. Either both turns are committed or neither is.
func (s *Service) Advance(ctx context.Context, ownerID, sessionID int64, userText string) (*models.SessionView, error) {
	if _, ok, err := s.accounts.FindAccountByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("look up account %d: %w", ownerID, err)
	} else if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, ownerID)
	}

	// A new session shares no state until the insert assigns an id, so
	// only existing sessions take the per-session lock. It is held for
	// the whole append-complete-persist span: the reply must apply to
	// the same log state the context was assembled from.
	if sessionID != 0 {
		mu := s.sessionLock(sessionID)
		mu.Lock()
		defer mu.Unlock()
	}

	sess, isNew, err := s.resolve(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Log.Append(models.Turn{Role: models.RoleUser, Content: userText})

	prompt := s.assembler.BuildPrompt(sess.Log, userText)

	reply, err := s.model.Complete(ctx, prompt)
	if err != nil {
		// The user turn appended above dies with this in-memory copy;
		// the stored session is untouched.
		s.logger.Error("model invocation failed",
			zap.Int64("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrModelInvocation, err)
	}

	sess.Log.Append(models.Turn{Role: models.RoleAssistant, Content: reply})

	// First turn wins. Unset means nil, not "": an empty first question
	// leaves the source unset so a later exchange can still claim it.
	if sess.TitleSource == nil && userText != "" {
		src := userText
		sess.TitleSource = &src
	}

	raw, err := sess.Log.Serialize()
	if err != nil {
		return nil, err
	}

	rec := &models.SessionRecord{
		ID:          sess.ID,
		OwnerID:     sess.OwnerID,
		TitleSource: sess.TitleSource,
		Log:         raw,
	}
	if isNew {
		id, err := s.sessions.InsertSession(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("insert session: %w", err)
		}
		sess.ID = id
	} else {
		if err := s.sessions.UpdateSession(ctx, rec); err != nil {
			return nil, fmt.Errorf("update session %d: %w", sess.ID, err)
		}
	}

	s.logger.Debug("exchange committed",
		zap.Int64("session_id", sess.ID),
		zap.Int64("owner_id", ownerID),
		zap.Int("turns", len(sess.Log)),
		zap.Bool("new_session", isNew))

	return &models.SessionView{
		ID:    sess.ID,
		Title: titleOrFallback(sess.TitleSource, FallbackTitleNew),
		Log:   sess.Log,
	}, nil
}

// GetSession returns one owned session with its full log.
func (s *Service) GetSession(ctx context.Context, ownerID, sessionID int64) (*models.SessionView, error) {
	if sessionID == 0 {
		return nil, fmt.Errorf("%w: id 0", ErrSessionNotFound)
	}
	sess, _, err := s.resolve(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	return &models.SessionView{
		ID:    sess.ID,
		Title: titleOrFallback(sess.TitleSource, FallbackTitleUntitled),
		Log:   sess.Log,
	}, nil
}

// ListSessions returns the owner's sessions, most recent first.
func (s *Service) ListSessions(ctx context.Context, ownerID int64) ([]models.SessionSummary, error) {
	recs, err := s.sessions.ListSessionsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for owner %d: %w", ownerID, err)
	}
	summaries := make([]models.SessionSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, models.SessionSummary{
			ID:    rec.ID,
			Title: titleOrFallback(rec.TitleSource, FallbackTitleUntitled),
		})
	}
	return summaries, nil
}

// DeleteSession removes one owned session and reports how many records
// went away. Deleting an already-deleted session reports zero, not an
// error.
func (s *Service) DeleteSession(ctx context.Context, ownerID, sessionID int64) (int64, error) {
	n, err := s.sessions.DeleteSession(ctx, sessionID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete session %d: %w", sessionID, err)
	}
	// Evict the lock only when a row actually went away. A no-op delete
	// (wrong owner, already gone) must not replace the mutex an in-flight
	// exchange may be holding, or the next exchange would run against it
	// unserialized.
	if n > 0 {
		s.locks.Delete(sessionID)
	}
	return n, nil
}

// DeleteAllSessions removes every session the owner has.
func (s *Service) DeleteAllSessions(ctx context.Context, ownerID int64) (int64, error) {
	n, err := s.sessions.DeleteSessionsForOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions for owner %d: %w", ownerID, err)
	}
	return n, nil
}

func (s *Service) sessionLock(id int64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
