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

// Package batch applies one instruction list to many documents. The
// documents are independent, so they can be edited concurrently; each
// document's own apply pass stays strictly sequential.
package batch

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/redline/pkg/apply"
	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/docfile"
	"github.com/walteh/redline/pkg/log"
	"github.com/walteh/redline/pkg/report"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures a batch run
type Options struct {
	// Documents are doublestar glob patterns selecting document files
	Documents []string

	// Instructions is the ordered instruction list applied to each document
	Instructions []change.Instruction

	// Applicator runs each document's pass
	Applicator *apply.Applicator

	// DryRun applies in memory without saving
	DryRun bool

	// Backup writes a .bak copy before saving
	Backup bool

	// Parallel bounds concurrent documents; values below 1 mean 1
	Parallel int

	// Logger, when set, renders one console block per document pass
	Logger *log.Logger
}

// 📋 DocumentResult pairs a document path with its pass summary
type DocumentResult struct {
	Path    string
	Summary report.Summary
}

// Discover expands the configured glob patterns into a sorted, de-duplicated
// list of document paths
func Discover(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Run discovers the documents and applies the instruction list to each.
// Per-instruction failures are recorded in the summaries; only provider
// failures (load/save) abort the batch.
func Run(ctx context.Context, opts Options) ([]DocumentResult, error) {
	logger := zerolog.Ctx(ctx)

	if opts.Applicator == nil {
		return nil, errors.Errorf("applicator is required")
	}
	if len(opts.Instructions) == 0 {
		return nil, errors.Errorf("instruction list is empty")
	}

	paths, err := Discover(opts.Documents)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no documents matched patterns %v", opts.Documents)
	}

	logger.Debug().Int("documents", len(paths)).Int("instructions", len(opts.Instructions)).Msg("starting batch run")

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	results := make([]DocumentResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			summary, err := runOne(gctx, path, opts)
			if err != nil {
				return errors.Errorf("document %s: %w", path, err)
			}
			results[i] = DocumentResult{Path: path, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, path string, opts Options) (report.Summary, error) {
	doc, err := docfile.Load(ctx, path)
	if err != nil {
		return report.Summary{}, err
	}

	summary := opts.Applicator.Run(ctx, doc, opts.Instructions)

	if opts.Logger != nil {
		changes := make([]log.ChangeOperation, 0, len(summary.Changes))
		for _, cr := range summary.Changes {
			changes = append(changes, log.ChangeOperation{
				ChangeID:  cr.ChangeID,
				Operation: cr.Operation,
				Detail:    changeDetail(cr),
				Succeeded: cr.Status == report.StatusSuccess,
				Multiple:  cr.MultipleMatches,
				InTable:   cr.InTable,
			})
		}
		// One atomic console block per document so parallel runs never
		// interleave their change lines
		opts.Logger.LogDocumentPass(ctx, log.DocumentOperation{
			Path:         path,
			Instructions: len(opts.Instructions),
			DryRun:       opts.DryRun,
		}, changes)
	}

	if opts.DryRun {
		return summary, nil
	}
	if opts.Backup {
		if err := docfile.Backup(ctx, path); err != nil {
			return report.Summary{}, err
		}
	}
	if err := docfile.Save(ctx, path, doc); err != nil {
		return report.Summary{}, err
	}
	return summary, nil
}

// changeDetail renders the short per-change console detail
func changeDetail(cr report.ChangeResult) string {
	switch {
	case cr.Status != report.StatusSuccess:
		return string(cr.ErrorKind)
	case cr.InTable:
		return "in table"
	case cr.MultipleMatches:
		return "first of multiple"
	default:
		return "applied"
	}
}
