package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/latestcomment/acl-debate/internal/views"
)

func NewApp() *fiber.App {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	app.Use(logger.New())
	return app
}

func RegisterDebateRoutes(app *fiber.App, h *Handler, ws *WebSocketHandler) {
	app.Get("/debates", h.ListDebates)
	app.Post("/debates", h.CreateDebate)
	app.Get("/debates/:id", h.GetDebate)
	app.Get("/debates/:id/judgment", h.GetJudgment)
	app.Get("/debates/:id/view", h.DebatePage)
	app.Get("/ws/debates/:id", ws.WebSocketMiddleware, websocket.New(ws.HandleWebSocket))
}

func RegisterAgentRoutes(app *fiber.App, h *AgentHandler) {
	app.Post("/agents/:name/run", h.RunAgent)
}
