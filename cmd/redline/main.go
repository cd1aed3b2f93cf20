// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/redline/cmd/redline/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "redline",
		Short: "Apply structured change instructions to fragment-based documents",
		Long: `redline applies an ordered list of change instructions (replace,
insert, delete) to rich-text documents whose paragraphs are split into
independently formatted fragments, and reports an auditable per-change
outcome.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	addRootFlags(rootCmd)
	rootCmd.AddCommand(
		commands.NewApplyCmd(newRootOpts),
		commands.NewCheckCmd(newRootOpts),
	)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
