package main

import (
	"github.com/latestcomment/acl-debate/internal/handlers"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/latestcomment/acl-debate/internal/services"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the debate API, live websocket feed and transcript viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			invoker := services.NewWorkerInvoker(cfg.WorkerURL, cfg.RequestTimeout)
			service := services.NewDebateService(models.NewDebateManager(), invoker, log)
			h := handlers.NewHandler(service, cfg.Roster(), cfg.Session.MaxRounds)
			ws := handlers.NewWebSocketHandler(service)

			app := handlers.NewApp()
			handlers.RegisterDebateRoutes(app, h, ws)

			log.WithField("addr", addr).Info("🚀 Debate server running")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
