package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/latestcomment/acl-debate/internal/services"
	"github.com/latestcomment/acl-debate/internal/transcript"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var (
		claim       string
		contextText string
		rounds      int
		worker      string
		archivePath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one debate against the worker node and print the transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("claim") {
				cfg.Session.InitialClaim = claim
			}
			if cmd.Flags().Changed("context") {
				cfg.Session.Context = contextText
			}
			if cmd.Flags().Changed("rounds") {
				cfg.Session.MaxRounds = rounds
			}
			if cmd.Flags().Changed("worker") {
				cfg.WorkerURL = worker
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			invoker := services.NewWorkerInvoker(cfg.WorkerURL, cfg.RequestTimeout)
			service := services.NewDebateService(models.NewDebateManager(), invoker, log)
			d := service.CreateDebate(cfg.Roster(), cfg.Session.MaxRounds, cfg.Session.InitialClaim, cfg.Session.Context)

			result, err := service.Run(cmd.Context(), d)
			if err != nil {
				return err
			}

			printer := transcript.NewPrinter(os.Stdout)
			printer.PrintTranscript(result)

			verifier, _ := models.FindVerifier(d.Participants)
			judgment, judgmentErr := services.ExtractFinalJudgment(result, verifier.Name)
			if judgmentErr == nil {
				printer.PrintJudgment(judgment)
			}

			if archivePath != "" {
				if err := transcript.Save(archivePath, transcript.NewArchive(d, result, judgment)); err != nil {
					return fmt.Errorf("save archive: %w", err)
				}
				log.WithField("path", archivePath).Info("Transcript archived")
			}

			if errors.Is(judgmentErr, services.ErrNoJudgmentFound) {
				return judgmentErr
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&claim, "claim", "", "initial claim to debate")
	cmd.Flags().StringVar(&contextText, "context", "", "context shared with every agent")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "number of debate rounds")
	cmd.Flags().StringVar(&worker, "worker", "", "worker node URL hosting the agents")
	cmd.Flags().StringVar(&archivePath, "archive", "", "write the transcript to this msgpack file")
	return cmd
}
