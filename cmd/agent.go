package main

import (
	"github.com/latestcomment/acl-debate/internal/handlers"
	"github.com/latestcomment/acl-debate/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newAgentCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Host LLM-backed debate agents as a worker node",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.AgentAddr
			}

			llm := services.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.AIModel)
			llm.Timeout = cfg.RequestTimeout
			host := services.NewAgentHostService(llm, log)

			app := handlers.NewApp()
			handlers.RegisterAgentRoutes(app, handlers.NewAgentHandler(host))

			log.WithFields(logrus.Fields{
				"addr":  addr,
				"model": llm.Model,
			}).Info("🚀 Agent worker node running")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
