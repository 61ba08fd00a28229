package chat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/RichardoC/chat-thread/internal/models"
	"github.com/pkoukk/tiktoken-go"
)

// The model client is context-free, so the whole conversation is
// re-rendered into this template on every call. O(conversation length)
// per turn is an accepted tradeoff over an incremental-context protocol.
const promptTemplate = "Previous conversation: %s\nUser: %s\nAI:"

// TokenCounter reports the token length of a rendered context. Used only
// when a token budget is configured.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts with the cl100k_base BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load token encoding: %w", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Assembler renders a message log into the prompt sent to the model.
// With tokenBudget <= 0 the full log is replayed verbatim; otherwise
// whole turns are dropped oldest-first until the rendered context fits.
type Assembler struct {
	tokenBudget int
	counter     TokenCounter
}

func NewAssembler(tokenBudget int, counter TokenCounter) *Assembler {
	return &Assembler{tokenBudget: tokenBudget, counter: counter}
}

// BuildPrompt embeds the rendered log and the standalone current question
// into the prompt template. The log is expected to already contain the
// current user turn; it appears both in the context and as the question.
func (a *Assembler) BuildPrompt(log models.MessageLog, question string) string {
	return fmt.Sprintf(promptTemplate, RenderContext(a.trim(log)), question)
}

// RenderContext renders every turn as "{RoleLabel}: {content}", joined by
// newlines. Role labels are the role names with the first letter
// capitalized: User, Assistant.
func RenderContext(log models.MessageLog) string {
	lines := make([]string, 0, len(log))
	for _, t := range log {
		lines = append(lines, roleLabel(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) trim(log models.MessageLog) models.MessageLog {
	if a.tokenBudget <= 0 || a.counter == nil {
		return log
	}
	for len(log) > 0 && a.counter.Count(RenderContext(log)) > a.tokenBudget {
		log = log[1:]
	}
	return log
}

func roleLabel(role string) string {
	if role == "" {
		return role
	}
	r := []rune(role)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
