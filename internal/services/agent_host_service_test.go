package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.user = userPrompt
	return f.reply, f.err
}

func seedConversation(t *testing.T) []models.Message {
	t.Helper()
	claim, err := models.NewMessage(models.Propose, "User", models.Broadcast, "X will rise", "msg1")
	require.NoError(t, err)
	return []models.Message{claim}
}

func TestRespondDebater(t *testing.T) {
	completer := &fakeCompleter{reply: "```json\n{\"performative\": \"PROPOSE\", \"content\": \"Strong Q2 results support it.\"}\n```"}
	host := NewAgentHostService(completer, newTestLogger())

	raw, err := host.Respond(context.Background(), InvokeRequest{
		Conversation: seedConversation(t),
		AgentName:    "Agent_1",
		AgentType:    models.InvokeDebate,
	})
	require.NoError(t, err)

	m, err := models.ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, models.Propose, m.Performative())
	assert.Equal(t, "Agent_1", m.Sender())
	assert.Equal(t, models.Broadcast, m.Receiver())
	assert.Equal(t, "Strong Q2 results support it.", m.Content())
	assert.Equal(t, "msg1", m.InReplyTo())
	assert.NotEmpty(t, m.ReplyWith())

	assert.Contains(t, completer.system, "You are Agent_1")
	assert.Contains(t, completer.user, "X will rise")
}

func TestRespondVerifierFallsBackToVerify(t *testing.T) {
	// A verifier may not PROPOSE; prose replies are kept as content.
	tests := map[string]string{
		"wrong performative": `{"performative": "PROPOSE", "content": "Looks fine"}`,
		"prose":              "Looks fine",
		"unknown":            `{"performative": "AGREE", "content": "Looks fine"}`,
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			host := NewAgentHostService(&fakeCompleter{reply: reply}, newTestLogger())
			raw, err := host.Respond(context.Background(), InvokeRequest{
				Conversation: seedConversation(t),
				AgentName:    "VERA_Agent",
				AgentType:    models.InvokeVera,
			})
			require.NoError(t, err)

			m, err := models.ParseMessage(raw)
			require.NoError(t, err)
			assert.Equal(t, models.Verify, m.Performative())
			assert.Equal(t, "Looks fine", m.Content())
		})
	}
}

func TestRespondNormalisesPerformativeCase(t *testing.T) {
	host := NewAgentHostService(&fakeCompleter{reply: `{"performative": " confirm ", "content": "It holds."}`}, newTestLogger())
	raw, err := host.Respond(context.Background(), InvokeRequest{
		Conversation: seedConversation(t),
		AgentName:    "VERA_Agent",
		AgentType:    models.InvokeVera,
	})
	require.NoError(t, err)

	m, err := models.ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, models.Confirm, m.Performative())
}

func TestRespondEmptyCompletionSkips(t *testing.T) {
	host := NewAgentHostService(&fakeCompleter{reply: `{"performative":"CHALLENGE","content":"  "}`}, newTestLogger())
	raw, err := host.Respond(context.Background(), InvokeRequest{AgentName: "Agent_1", AgentType: models.InvokeDebate})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRespondErrors(t *testing.T) {
	host := NewAgentHostService(&fakeCompleter{err: errors.New("rate limited")}, newTestLogger())

	_, err := host.Respond(context.Background(), InvokeRequest{AgentName: "Agent_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	_, err = host.Respond(context.Background(), InvokeRequest{})
	assert.Error(t, err)
}

func TestFormatConversation(t *testing.T) {
	assert.Equal(t, "The conversation is empty.", FormatConversation(nil))

	text := FormatConversation(seedConversation(t))
	assert.True(t, strings.HasPrefix(text, "Conversation so far:"))
	assert.Contains(t, text, "[msg1] User -> ALL (PROPOSE):\nX will rise")
}
