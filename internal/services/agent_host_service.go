package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/sirupsen/logrus"
)

const debatePrompt = `You are %s, an analyst taking part in a structured debate about a market prediction.
Read the conversation and add exactly one new turn. Either PROPOSE a supporting argument
or CHALLENGE a weak point made by another participant. Be specific and cite the evidence
in the conversation.

Reply with a single JSON object and nothing else:
{"performative": "PROPOSE" or "CHALLENGE", "content": "<your argument>"}`

const veraPrompt = `You are %s, the verification agent of a structured debate about a market prediction.
Weigh every argument made so far and judge whether the original claim holds. Use VERIFY
when you are still assessing and CONFIRM when you are confident in your judgment.

Reply with a single JSON object and nothing else:
{"performative": "VERIFY" or "CONFIRM", "content": "<your judgment and reasoning>"}`

// AgentHostService answers invocations on the worker side by asking an LLM
// for the agent's next turn.
type AgentHostService struct {
	Completer Completer
	Log       *logrus.Logger
}

func NewAgentHostService(completer Completer, log *logrus.Logger) *AgentHostService {
	return &AgentHostService{Completer: completer, Log: log}
}

type agentReply struct {
	Performative string `json:"performative"`
	Content      string `json:"content"`
}

// Respond produces the serialized message for one agent turn. A nil payload
// means the agent had nothing to say.
func (s *AgentHostService) Respond(ctx context.Context, req InvokeRequest) ([]byte, error) {
	if req.AgentName == "" {
		return nil, fmt.Errorf("agent_name is required")
	}

	system := fmt.Sprintf(debatePrompt, req.AgentName)
	fallback := models.Challenge
	allowed := []models.Performative{models.Propose, models.Challenge}
	if req.AgentType == models.InvokeVera {
		system = fmt.Sprintf(veraPrompt, req.AgentName)
		fallback = models.Verify
		allowed = []models.Performative{models.Verify, models.Confirm}
	}

	completion, err := s.Completer.Complete(ctx, system, FormatConversation(req.Conversation))
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", req.AgentName, err)
	}

	reply := parseAgentReply(completion)
	if reply.Content == "" {
		s.Log.WithField("agent", req.AgentName).Warn("Empty completion, agent skips this turn")
		return nil, nil
	}

	performative, err := models.ParsePerformative(strings.ToUpper(strings.TrimSpace(reply.Performative)))
	if err != nil || !containsPerformative(allowed, performative) {
		performative = fallback
	}

	var inReplyTo []string
	if n := len(req.Conversation); n > 0 {
		inReplyTo = append(inReplyTo, req.Conversation[n-1].ReplyWith())
	}

	msg, err := models.NewMessage(performative, req.AgentName, models.Broadcast, reply.Content, uuid.NewString(), inReplyTo...)
	if err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"agent":        req.AgentName,
		"agent_type":   req.AgentType,
		"performative": performative,
		"reply_with":   msg.ReplyWith(),
	}).Info("Agent replied")
	return msg.Serialize(), nil
}

// FormatConversation renders the history the way agents read it.
func FormatConversation(conversation []models.Message) string {
	if len(conversation) == 0 {
		return "The conversation is empty."
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, m := range conversation {
		fmt.Fprintf(&b, "\n[%s] %s -> %s (%s):\n%s\n", m.ReplyWith(), m.Sender(), m.Receiver(), m.Performative(), strings.TrimSpace(m.Content()))
	}
	return b.String()
}

func parseAgentReply(completion string) agentReply {
	text := strings.TrimSpace(completion)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reply agentReply
	if err := json.Unmarshal([]byte(text), &reply); err == nil {
		reply.Content = strings.TrimSpace(reply.Content)
		return reply
	}
	// Models do not always honour the JSON instruction; keep the prose.
	return agentReply{Content: text}
}

func containsPerformative(list []models.Performative, p models.Performative) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}
