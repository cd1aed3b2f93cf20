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

// Package apply orchestrates one apply pass: per instruction it indexes
// paragraphs, resolves the target to a span, performs the edit, and
// records a structured outcome. Instructions run strictly sequentially
// against one mutable document; a later instruction sees the effects of
// all earlier successful ones.
package apply

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/document"
	"github.com/walteh/redline/pkg/edit"
	"github.com/walteh/redline/pkg/index"
	"github.com/walteh/redline/pkg/match"
	"github.com/walteh/redline/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Option configures an Applicator
type Option func(*Applicator)

// WithPolicies overrides the match policy fallback chain
func WithPolicies(policies ...match.Policy) Option {
	return func(a *Applicator) {
		a.policies = policies
	}
}

// WithAnnotations makes every successful body-paragraph edit insert an
// annotation paragraph after the edited one
func WithAnnotations(author string) Option {
	return func(a *Applicator) {
		a.annotate = true
		a.author = author
	}
}

// 🎮 Applicator applies an ordered instruction list to one document at a
// time. It holds configuration only; every Run gets its own pass state,
// so one Applicator may serve many documents concurrently as long as
// each document has exactly one Run working on it.
type Applicator struct {
	policies []match.Policy
	annotate bool
	author   string
}

// 🏭 New creates an applicator with the default policy chain
func New(opts ...Option) *Applicator {
	a := &Applicator{
		policies: match.DefaultPolicies(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pass is the per-document state of one Run: the mutable document and
// the per-paragraph index cache. Never shared between documents.
type pass struct {
	*Applicator
	doc *document.Document

	// indexes caches per-paragraph fragment indexes for the current
	// instruction scan. Any mutation of the document drops the cache.
	indexes map[int]*index.Index
}

// Run processes every instruction to completion, in list order, and
// returns the aggregated summary. A single instruction's failure never
// aborts the pass: the caller gets one result per change_id, in input
// order.
func (a *Applicator) Run(ctx context.Context, doc *document.Document, instructions []change.Instruction) report.Summary {
	logger := zerolog.Ctx(ctx)
	p := &pass{
		Applicator: a,
		doc:        doc,
		indexes:    make(map[int]*index.Index),
	}

	results := make([]report.ChangeResult, 0, len(instructions))
	for i := range instructions {
		// Cancellation is coarse: between instructions only. Results
		// already produced stay valid and reportable.
		if ctx.Err() != nil {
			logger.Warn().Int("applied", len(results)).Msg("apply pass abandoned")
			break
		}

		res := p.applyOne(ctx, &instructions[i])
		results = append(results, res)

		logger.Debug().
			Str("change_id", res.ChangeID).
			Str("operation", res.Operation).
			Str("status", string(res.Status)).
			Str("error_kind", string(res.ErrorKind)).
			Bool("multiple_matches", res.MultipleMatches).
			Msg("instruction resolved")
	}

	return report.Finalize(results)
}

// applyOne drives one instruction through index → match → edit and maps
// any failure to a structured result
func (p *pass) applyOne(ctx context.Context, in *change.Instruction) report.ChangeResult {
	res := report.ChangeResult{
		ChangeID:  in.ChangeID,
		Operation: in.Operation.String(),
		Paragraph: -1,
	}

	if err := in.Validate(); err != nil {
		return fail(res, report.ErrorKindStructural, err)
	}

	pi, m, span, err := p.resolve(in)
	if err == nil && pi >= 0 {
		res.MultipleMatches = m.Multiple
		if err := p.editParagraph(pi, span, in); err != nil {
			return fail(res, report.ErrorKindStructural, err)
		}
		res.Status = report.StatusSuccess
		res.Paragraph = pi
		return res
	}
	if err != nil && !errors.Is(err, match.ErrNotFound) {
		return fail(res, report.ErrorKindStructural, err)
	}

	// No body paragraph matched: fall back to tables. An instruction
	// pinned to a specific paragraph never spills into tables.
	if in.Target.Paragraph != nil {
		return fail(res, report.ErrorKindNotFound,
			errors.Errorf("target text not found in paragraph %d", *in.Target.Paragraph))
	}
	hit, ok := p.findInTables(in)
	if !ok {
		return fail(res, report.ErrorKindNotFound,
			errors.Errorf("target text not found in any paragraph or table"))
	}
	multiple, err := p.editTable(hit, in)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return fail(res, report.ErrorKindNotFound, err)
		}
		return fail(res, report.ErrorKindStructural, err)
	}
	res.Status = report.StatusSuccess
	res.InTable = true
	res.MultipleMatches = multiple
	return res
}

// resolve walks body paragraphs in document order until one matches.
// Every miss, including an out-of-range paragraph pin, returns an
// ErrNotFound-wrapped error.
func (p *pass) resolve(in *change.Instruction) (int, match.Match, document.Span, error) {
	first, last := 0, len(p.doc.Paragraphs)-1
	if in.Target.Paragraph != nil {
		pin := *in.Target.Paragraph
		if pin < 0 || pin >= len(p.doc.Paragraphs) {
			return -1, match.Match{}, document.Span{}, errors.Errorf("target paragraph %d out of range: %w", pin, match.ErrNotFound)
		}
		first, last = pin, pin
	}

	for pi := first; pi <= last; pi++ {
		ix := p.indexFor(pi)
		m, err := match.Find(ix.Text(), in.Target.Text, p.policies...)
		if err != nil {
			if errors.Is(err, match.ErrNotFound) {
				continue
			}
			return -1, match.Match{}, document.Span{}, err
		}
		span, err := ix.Locate(m.Start, m.End)
		if err != nil {
			return -1, match.Match{}, document.Span{}, err
		}
		span.Paragraph = pi
		return pi, m, span, nil
	}
	return -1, match.Match{}, document.Span{}, errors.Errorf("scanned paragraphs %d..%d: %w", first, last, match.ErrNotFound)
}

// editParagraph mutates a body paragraph, compacts consumed fragments,
// and drops the index cache
func (p *pass) editParagraph(pi int, span document.Span, in *change.Instruction) error {
	para := &p.doc.Paragraphs[pi]
	if err := edit.Apply(para, span, in.Operation, in.Payload.NewText); err != nil {
		return err
	}
	para.Compact()
	p.invalidate()

	if p.annotate {
		p.insertAnnotation(pi, in)
	}
	return nil
}

// insertAnnotation places a marker paragraph directly after the edited
// one, inheriting the edited paragraph's leading format
func (p *pass) insertAnnotation(pi int, in *change.Instruction) {
	text := fmt.Sprintf("[ANNOTATION by %s] %s", p.author, annotationBody(in))

	var format document.Format
	if len(p.doc.Paragraphs[pi].Fragments) > 0 {
		format = p.doc.Paragraphs[pi].Fragments[0].Format.Clone()
	}
	annotation := document.Paragraph{
		Fragments: []document.Fragment{{ID: 0, Text: text, Format: format}},
	}

	p.doc.Paragraphs = append(p.doc.Paragraphs, document.Paragraph{})
	copy(p.doc.Paragraphs[pi+2:], p.doc.Paragraphs[pi+1:])
	p.doc.Paragraphs[pi+1] = annotation
	p.invalidate()
}

func annotationBody(in *change.Instruction) string {
	if in.Description != "" {
		return in.Description
	}
	return fmt.Sprintf("%s %s", in.ChangeID, in.Operation)
}

// indexFor builds the paragraph's index lazily and caches it until the
// next mutation
func (p *pass) indexFor(pi int) *index.Index {
	if ix, ok := p.indexes[pi]; ok {
		return ix
	}
	ix := index.Build(&p.doc.Paragraphs[pi])
	p.indexes[pi] = ix
	return ix
}

// invalidate drops every cached index. Edits change fragment boundaries
// and annotation inserts shift paragraph positions, so partial
// invalidation is not worth the bookkeeping.
func (p *pass) invalidate() {
	p.indexes = make(map[int]*index.Index)
}

func fail(res report.ChangeResult, kind report.ErrorKind, err error) report.ChangeResult {
	res.Status = report.StatusFailure
	res.ErrorKind = kind
	res.Message = err.Error()
	return res
}
