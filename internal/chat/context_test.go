package chat

import (
	"strings"
	"testing"

	"github.com/RichardoC/chat-thread/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderContext(t *testing.T) {
	log := models.MessageLog{
		{Role: models.RoleUser, Content: "Hi"},
		{Role: models.RoleAssistant, Content: "Hello!"},
		{Role: models.RoleUser, Content: "What's the weather?"},
	}

	assert.Equal(t, "User: Hi\nAssistant: Hello!\nUser: What's the weather?", RenderContext(log))
}

func TestRenderContextEmpty(t *testing.T) {
	assert.Equal(t, "", RenderContext(models.MessageLog{}))
}

func TestBuildPromptTemplate(t *testing.T) {
	a := NewAssembler(0, nil)
	log := models.MessageLog{
		{Role: models.RoleUser, Content: "Hi"},
	}

	got := a.BuildPrompt(log, "Hi")
	assert.Equal(t, "Previous conversation: User: Hi\nUser: Hi\nAI:", got)
}

// wordCounter counts whitespace-separated words, standing in for a BPE
// encoder so the trim logic can be tested offline.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func TestBuildPromptTokenBudget(t *testing.T) {
	log := models.MessageLog{
		{Role: models.RoleUser, Content: "aaa bbb ccc ddd"},
		{Role: models.RoleAssistant, Content: "eee"},
		{Role: models.RoleUser, Content: "fff"},
	}

	// Budget of 4 words forces the oldest turn out; the remaining two fit.
	a := NewAssembler(4, wordCounter{})
	got := a.BuildPrompt(log, "fff")
	assert.Equal(t, "Previous conversation: Assistant: eee\nUser: fff\nUser: fff\nAI:", got)

	// No budget replays the whole log.
	full := NewAssembler(0, wordCounter{})
	assert.Contains(t, full.BuildPrompt(log, "fff"), "aaa bbb ccc ddd")
}

func TestRoleLabelCapitalization(t *testing.T) {
	assert.Equal(t, "User", roleLabel("user"))
	assert.Equal(t, "Assistant", roleLabel("assistant"))
	assert.Equal(t, "", roleLabel(""))
}
