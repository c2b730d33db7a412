package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/latestcomment/acl-debate/internal/services"
)

type Handler struct {
	Service          *services.DebateService
	Roster           []models.Participant
	DefaultMaxRounds int
}

func NewHandler(service *services.DebateService, roster []models.Participant, defaultMaxRounds int) *Handler {
	return &Handler{Service: service, Roster: roster, DefaultMaxRounds: defaultMaxRounds}
}

type CreateDebateRequest struct {
	InitialClaim string `json:"initial_claim" form:"initial_claim"`
	Context      string `json:"context" form:"context"`
	MaxRounds    *int   `json:"max_rounds" form:"max_rounds"`
}

type DebateSummary struct {
	DebateId     uuid.UUID           `json:"debate_id"`
	InitialClaim string              `json:"initial_claim"`
	Status       models.DebateStatus `json:"status"`
	MaxRounds    int                 `json:"max_rounds"`
	Messages     int                 `json:"messages"`
	CreatedAt    time.Time           `json:"created_at"`
}

type DebateView struct {
	DebateSummary
	Context      string               `json:"context"`
	Participants []models.Participant `json:"participants"`
	Judgment     string               `json:"judgment,omitempty"`
	Error        string               `json:"error,omitempty"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	Transcript   []models.Message     `json:"transcript"`
}

func snapshot(d *models.Debate) DebateView {
	d.Mu.Lock()
	defer d.Mu.Unlock()
	transcript := d.Conversation.Messages()
	return DebateView{
		DebateSummary: DebateSummary{
			DebateId:     d.DebateId,
			InitialClaim: d.InitialClaim,
			Status:       d.Status,
			MaxRounds:    d.MaxRounds,
			Messages:     len(transcript),
			CreatedAt:    d.CreatedAt,
		},
		Context:      d.Context,
		Participants: d.Participants,
		Judgment:     d.Judgment,
		Error:        d.Err,
		CompletedAt:  d.CompletedAt,
		Transcript:   transcript,
	}
}

func (h *Handler) CreateDebate(c *fiber.Ctx) error {
	var req CreateDebateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid debate request: "+err.Error())
	}

	maxRounds := h.DefaultMaxRounds
	if req.MaxRounds != nil {
		maxRounds = *req.MaxRounds
	}
	if maxRounds < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "max_rounds must not be negative")
	}

	d := h.Service.CreateDebate(h.Roster, maxRounds, req.InitialClaim, req.Context)
	// The run outlives this request.
	h.Service.Start(context.Background(), d)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"debate_id": d.DebateId,
		"status":    models.StatusPending,
	})
}

func (h *Handler) ListDebates(c *fiber.Ctx) error {
	debates := h.Service.ListDebates()
	out := make([]DebateSummary, 0, len(debates))
	for _, d := range debates {
		out = append(out, snapshot(d).DebateSummary)
	}
	return c.JSON(out)
}

func (h *Handler) GetDebate(c *fiber.Ctx) error {
	d, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(snapshot(d))
}

func (h *Handler) GetJudgment(c *fiber.Ctx) error {
	d, err := h.lookup(c)
	if err != nil {
		return err
	}

	view := snapshot(d)
	verifier, ok := models.FindVerifier(view.Participants)
	if !ok {
		return fiber.NewError(fiber.StatusConflict, services.ErrNoVerifierFound.Error())
	}
	judgment, err := services.ExtractFinalJudgment(view.Transcript, verifier.Name)
	if errors.Is(err, services.ErrNoJudgmentFound) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(fiber.Map{
		"debate_id": view.DebateId,
		"verifier":  verifier.Name,
		"judgment":  judgment,
	})
}

func (h *Handler) DebatePage(c *fiber.Ctx) error {
	d, err := h.lookup(c)
	if err != nil {
		return err
	}
	view := snapshot(d)
	return c.Render("debate", fiber.Map{
		"DebateId":     view.DebateId,
		"InitialClaim": view.InitialClaim,
		"Status":       view.Status,
		"MaxRounds":    view.MaxRounds,
		"Messages":     view.Transcript,
		"Count":        len(view.Transcript),
		"Judgment":     view.Judgment,
		"Live":         view.Status == models.StatusPending || view.Status == models.StatusRunning,
	})
}

func (h *Handler) lookup(c *fiber.Ctx) (*models.Debate, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid debate id")
	}
	d, err := h.Service.GetDebate(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return d, nil
}
