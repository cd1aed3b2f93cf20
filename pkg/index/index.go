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

// Package index flattens a paragraph's fragments into one logical string
// plus an offset map back to fragment-local coordinates.
package index

import (
	"strings"

	"github.com/walteh/redline/pkg/document"
	"gitlab.com/tozd/go/errors"
)

// fragSpan records which slice of the logical text a fragment owns
type fragSpan struct {
	id    int
	start int // logical offset of the fragment's first byte
	end   int // logical offset one past the fragment's last byte
}

// 🗺️ Index is a pure snapshot of one paragraph: the logical text and the
// offset map back to (fragment id, intra-fragment offset). It never
// self-updates; any mutation of the paragraph invalidates it and the
// caller must rebuild.
type Index struct {
	text  string
	spans []fragSpan
}

// Build flattens the paragraph. Zero-length fragments are skipped so a
// match boundary can never be anchored inside one.
func Build(p *document.Paragraph) *Index {
	var b strings.Builder
	spans := make([]fragSpan, 0, len(p.Fragments))
	off := 0
	for i := range p.Fragments {
		f := &p.Fragments[i]
		if f.Text == "" {
			continue
		}
		b.WriteString(f.Text)
		spans = append(spans, fragSpan{id: f.ID, start: off, end: off + len(f.Text)})
		off += len(f.Text)
	}
	return &Index{text: b.String(), spans: spans}
}

// Text returns the paragraph's logical text
func (ix *Index) Text() string {
	return ix.text
}

// Locate converts a logical-text span [start, end) into fragment-local
// coordinates. When a boundary falls exactly on a fragment edge it is
// attributed to the fragment that minimizes the number of fragments
// touched by the edit: a start on an edge belongs to the fragment that
// begins there, an end on an edge to the fragment that finishes there.
func (ix *Index) Locate(start, end int) (document.Span, error) {
	if start < 0 || end > len(ix.text) || start >= end {
		return document.Span{}, errors.Errorf("span [%d, %d) out of range for text of length %d", start, end, len(ix.text))
	}

	span := document.Span{StartFragment: -1, EndFragment: -1}
	for _, fs := range ix.spans {
		if span.StartFragment < 0 && start >= fs.start && start < fs.end {
			span.StartFragment = fs.id
			span.StartOffset = start - fs.start
		}
		if span.EndFragment < 0 && end > fs.start && end <= fs.end {
			span.EndFragment = fs.id
			span.EndOffset = end - fs.start
		}
	}
	if span.StartFragment < 0 || span.EndFragment < 0 {
		return document.Span{}, errors.Errorf("span [%d, %d) does not map onto fragments", start, end)
	}
	return span, nil
}
