package main

import (
	"os"

	"github.com/latestcomment/acl-debate/internal/transcript"
	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <archive>",
		Short: "Print an archived debate transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := transcript.Load(args[0])
			if err != nil {
				return err
			}
			messages, err := archive.Transcript()
			if err != nil {
				return err
			}

			printer := transcript.NewPrinter(os.Stdout)
			printer.PrintTranscript(messages)
			if archive.Judgment != "" {
				printer.PrintJudgment(archive.Judgment)
			}
			return nil
		},
	}
}
