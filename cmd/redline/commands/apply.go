package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/redline/cmd/redline/opts"
	"github.com/walteh/redline/pkg/apply"
	"github.com/walteh/redline/pkg/batch"
	"github.com/walteh/redline/pkg/log"
	"github.com/walteh/redline/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// OptsBuilder builds the shared command options once flags are parsed
type OptsBuilder func(ctx context.Context) (*opts.RootOpts, error)

// NewApplyCmd creates a new apply command
func NewApplyCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply change instructions to the configured documents",
		Long: `Apply runs one full pass over every configured document.
It will:
1. Load the instruction list
2. Locate each target text across fragment boundaries
3. Perform the requested edits in place
4. Save the documents and report a per-change outcome`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			results, err := runBatch(ctx, o, false)
			if err != nil {
				return errors.Errorf("applying changes: %w", err)
			}

			printResults(o, results)
			return nil
		},
	}

	return cmd
}

// runBatch wires the configured options into one batch run
func runBatch(ctx context.Context, o *opts.RootOpts, dryRun bool) ([]batch.DocumentResult, error) {
	applyOpts := []apply.Option{
		apply.WithPolicies(o.Config.MatchPolicies()...),
	}
	if o.Config.Annotate {
		applyOpts = append(applyOpts, apply.WithAnnotations(o.Config.Author))
	}

	level := zerolog.InfoLevel
	if zerolog.GlobalLevel() == zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	return batch.Run(ctx, batch.Options{
		Documents:    o.Config.Documents,
		Instructions: o.Instructions,
		Applicator:   apply.New(applyOpts...),
		DryRun:       dryRun,
		Backup:       o.Config.Backup,
		Parallel:     o.Config.Parallel,
		Logger:       log.New(os.Stdout, level),
	})
}

// printResults reports failures and the per-document summary. The batch
// logger already printed the per-change console lines.
func printResults(o *opts.RootOpts, results []batch.DocumentResult) {
	for _, res := range results {
		for _, cr := range res.Summary.Changes {
			if cr.Status != report.StatusSuccess {
				o.UserLogger.LogChangeResult(cr)
			}
		}
		o.UserLogger.LogSummary(res.Path, res.Summary)
	}
}
