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

// Package document defines the fragment-based rich-text model that the
// change engine operates on: a document is an ordered list of paragraphs,
// a paragraph an ordered list of formatted fragments (runs).
package document

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎨 Format is an opaque formatting descriptor carried by a fragment.
// The engine never interprets its contents, it only decides which
// fragment(s) inherit it after a split.
type Format map[string]string

// Clone returns an independent copy of the format descriptor
func (f Format) Clone() Format {
	if f == nil {
		return nil
	}
	out := make(Format, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// 📄 Fragment is the minimal unit of text carrying uniform formatting
// within a paragraph. IDs are stable for the duration of one apply pass.
type Fragment struct {
	ID     int    `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`
}

// 📑 Paragraph is an ordered sequence of fragments. The concatenation of
// fragment texts, in order, is the paragraph's logical text.
type Paragraph struct {
	Fragments []Fragment `json:"fragments" yaml:"fragments"`
}

// 📚 Document is an ordered sequence of paragraphs plus any tables.
// It is owned by the caller for the duration of one apply pass; the
// engine borrows it mutably.
type Document struct {
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`
	Tables     []Table     `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// 📍 Span is a contiguous region of logical text expressed in
// fragment-local coordinates (fragment ids + intra-fragment offsets), so
// it stays meaningful after earlier edits shift absolute offsets.
// EndOffset is exclusive.
type Span struct {
	Paragraph     int
	StartFragment int
	StartOffset   int
	EndFragment   int
	EndOffset     int
}

// LogicalText returns the full readable text of the paragraph,
// independent of its fragment partitioning.
func (p *Paragraph) LogicalText() string {
	var b strings.Builder
	for _, f := range p.Fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// FragmentByID returns the position of the fragment with the given id,
// or -1 if no such fragment exists.
func (p *Paragraph) FragmentByID(id int) int {
	for i := range p.Fragments {
		if p.Fragments[i].ID == id {
			return i
		}
	}
	return -1
}

// AllocateID returns a fragment id not yet used in this paragraph
func (p *Paragraph) AllocateID() int {
	next := 0
	for i := range p.Fragments {
		if p.Fragments[i].ID >= next {
			next = p.Fragments[i].ID + 1
		}
	}
	return next
}

// Compact removes fragments whose text was fully consumed by an edit.
// Edits never remove fragments implicitly; this is the explicit tidy-up
// step the applicator runs after a successful edit.
func (p *Paragraph) Compact() {
	kept := p.Fragments[:0]
	for _, f := range p.Fragments {
		if f.Text != "" {
			kept = append(kept, f)
		}
	}
	p.Fragments = kept
}

// NewParagraph builds a paragraph from plain text pieces, assigning
// sequential fragment ids and no formatting
func NewParagraph(pieces ...string) Paragraph {
	p := Paragraph{Fragments: make([]Fragment, 0, len(pieces))}
	for i, text := range pieces {
		p.Fragments = append(p.Fragments, Fragment{ID: i, Text: text})
	}
	return p
}

// AssignIDs gives every fragment in the document a paragraph-unique id.
// Codecs call this after decoding so that documents authored without
// explicit ids still satisfy the stable-identity contract.
func (d *Document) AssignIDs() {
	for i := range d.Paragraphs {
		assignParagraphIDs(&d.Paragraphs[i])
	}
	for ti := range d.Tables {
		for ri := range d.Tables[ti].Rows {
			for ci := range d.Tables[ti].Rows[ri].Cells {
				cell := &d.Tables[ti].Rows[ri].Cells[ci]
				for pi := range cell.Paragraphs {
					assignParagraphIDs(&cell.Paragraphs[pi])
				}
			}
		}
	}
}

func assignParagraphIDs(p *Paragraph) {
	seen := make(map[int]bool, len(p.Fragments))
	duplicated := false
	for i := range p.Fragments {
		if seen[p.Fragments[i].ID] {
			duplicated = true
			break
		}
		seen[p.Fragments[i].ID] = true
	}
	// All-zero ids from hand-written files count as unassigned
	if !duplicated {
		return
	}
	for i := range p.Fragments {
		p.Fragments[i].ID = i
	}
}

// Validate checks the document invariants that the engine relies on
func (d *Document) Validate() error {
	for pi := range d.Paragraphs {
		if err := validateParagraph(&d.Paragraphs[pi]); err != nil {
			return errors.Errorf("paragraph %d: %w", pi, err)
		}
	}
	return nil
}

func validateParagraph(p *Paragraph) error {
	seen := make(map[int]bool, len(p.Fragments))
	for i := range p.Fragments {
		if seen[p.Fragments[i].ID] {
			return errors.Errorf("duplicate fragment id %d", p.Fragments[i].ID)
		}
		seen[p.Fragments[i].ID] = true
	}
	return nil
}
