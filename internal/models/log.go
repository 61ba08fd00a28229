package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrMalformedLog is returned when a persisted log cannot be decoded.
var ErrMalformedLog = errors.New("malformed message log")

// Turn is one role-tagged message. Turns are immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageLog is the ordered turns of one conversation. Order is
// append-order and is replayed verbatim to the model, so no method
// reorders or filters. Role alternation is not enforced here; callers
// control the sequence and the log preserves whatever it is handed.
type MessageLog []Turn

func (l *MessageLog) Append(t Turn) {
	*l = append(*l, t)
}

// Serialize renders the log as a JSON array. The empty log serializes
// as "[]", never "null".
func (l MessageLog) Serialize() (string, error) {
	if l == nil {
		l = MessageLog{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("serialize message log: %w", err)
	}
	return string(b), nil
}

// DeserializeLog decodes a persisted log. Corrupt input fails with
// ErrMalformedLog rather than silently truncating.
func DeserializeLog(raw string) (MessageLog, error) {
	log := MessageLog{}
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	return log, nil
}
