package chat

import "errors"

var (
	// ErrAccountNotFound reports that the owner account for an exchange
	// does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSessionNotFound covers both a truly absent session id and an id
	// owned by a different account. The two cases are deliberately
	// indistinguishable so non-owners learn nothing about existence.
	ErrSessionNotFound = errors.New("session not found")

	// ErrModelInvocation reports a failed or timed-out model call. The
	// underlying provider error is wrapped, never swallowed.
	ErrModelInvocation = errors.New("model invocation failed")
)
