package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/latestcomment/acl-debate/internal/models"
)

// Invoker is the single contract the orchestrator has with remote agents:
// given the conversation so far, produce one raw message payload.
type Invoker interface {
	Invoke(ctx context.Context, conversation []models.Message, participantName string, role models.InvocationRole) ([]byte, error)
}

// InvokeRequest is the body posted to a worker node for one agent turn.
type InvokeRequest struct {
	Conversation []models.Message      `json:"conversation"`
	AgentName    string                `json:"agent_name"`
	AgentType    models.InvocationRole `json:"agent_type"`
}

// WorkerInvoker calls agents hosted on a worker node over HTTP.
type WorkerInvoker struct {
	BaseURL string
	Timeout time.Duration // zero waits for as long as the agent takes
}

func NewWorkerInvoker(baseURL string, timeout time.Duration) *WorkerInvoker {
	return &WorkerInvoker{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
	}
}

func (w *WorkerInvoker) AgentURL(participantName string) string {
	return fmt.Sprintf("%s/agents/%s/run", w.BaseURL, url.PathEscape(participantName))
}

func (w *WorkerInvoker) Invoke(ctx context.Context, conversation []models.Message, participantName string, role models.InvocationRole) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := InvokeRequest{
		Conversation: conversation,
		AgentName:    participantName,
		AgentType:    role,
	}

	agent := fiber.Post(w.AgentURL(participantName)).JSON(payload)
	if w.Timeout > 0 {
		agent.Timeout(w.Timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("invoke agent %s: %w", participantName, errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("invoke agent %s: worker returned status %d: %s", participantName, code, strings.TrimSpace(string(body)))
	}
	return body, nil
}
