package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what the instructions would change, without saving",
		Long: `Check runs the full apply pass in memory and reports the
per-change outcome for every configured document. Nothing is written
back to disk, so it is safe to run against live documents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			results, err := runBatch(ctx, o, true)
			if err != nil {
				return errors.Errorf("checking changes: %w", err)
			}

			printResults(o, results)
			return nil
		},
	}

	return cmd
}
