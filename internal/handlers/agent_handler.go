package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/latestcomment/acl-debate/internal/services"
)

// AgentHandler exposes LLM-backed agents the way a worker node does.
type AgentHandler struct {
	Host *services.AgentHostService
}

func NewAgentHandler(host *services.AgentHostService) *AgentHandler {
	return &AgentHandler{Host: host}
}

func (h *AgentHandler) RunAgent(c *fiber.Ctx) error {
	var req services.InvokeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid agent request: "+err.Error())
	}
	// The body names the agent; the path only fills in when it is missing.
	// NewApp unescapes paths, so "VERA%20Agent" arrives as "VERA Agent".
	if req.AgentName == "" {
		req.AgentName = c.Params("name")
	}

	payload, err := h.Host.Respond(c.UserContext(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	if payload == nil {
		c.Status(fiber.StatusNoContent)
		return nil
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
