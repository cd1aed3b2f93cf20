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

// Package edit mutates a paragraph's fragment sequence in place for a
// resolved match span, deciding how surviving text and formatting are
// redistributed across fragment boundaries.
package edit

import (
	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/document"
	"gitlab.com/tozd/go/errors"
)

// ErrStaleSpan reports that the span references a fragment id no longer
// present in the paragraph. The caller must rebuild its index; the edit
// is not retried.
var ErrStaleSpan = errors.New("span references a fragment not present in paragraph")

// ErrMissingPayload reports that the operation requires new text and
// none was supplied.
var ErrMissingPayload = errors.New("operation requires new text")

// Apply performs the requested mutation on the paragraph. All validation
// happens before the first write: on error the paragraph is untouched.
// On success any index previously built for the paragraph is invalid.
func Apply(p *document.Paragraph, span document.Span, op change.Operation, newText string) error {
	if op.RequiresPayload() && newText == "" {
		return errors.Errorf("%s: %w", op, ErrMissingPayload)
	}

	startIdx := p.FragmentByID(span.StartFragment)
	endIdx := p.FragmentByID(span.EndFragment)
	if startIdx < 0 || endIdx < 0 || startIdx > endIdx {
		return errors.Errorf("fragments %d..%d: %w", span.StartFragment, span.EndFragment, ErrStaleSpan)
	}
	if span.StartOffset < 0 || span.StartOffset > len(p.Fragments[startIdx].Text) ||
		span.EndOffset < 0 || span.EndOffset > len(p.Fragments[endIdx].Text) {
		return errors.Errorf("offsets out of range for fragments %d..%d: %w", span.StartFragment, span.EndFragment, ErrStaleSpan)
	}

	switch op {
	case change.OpReplace:
		splice(p, startIdx, endIdx, span, newText)
	case change.OpDelete:
		splice(p, startIdx, endIdx, span, "")
	case change.OpInsertBefore:
		insertAt(p, startIdx, newText, p.Fragments[startIdx].Format)
	case change.OpInsertAfter:
		insertAt(p, endIdx+1, newText, p.Fragments[endIdx].Format)
	default:
		return errors.Errorf("unsupported operation: %s", op)
	}
	return nil
}

// splice rewrites the spanned fragments so their concatenation becomes
// kept prefix + newText + kept suffix. The replacement inherits the
// format of the first spanned fragment; kept portions keep their own.
// Fully consumed fragments are left empty, never removed here; removal
// is the applicator's explicit tidy step.
func splice(p *document.Paragraph, startIdx, endIdx int, span document.Span, newText string) {
	if startIdx == endIdx {
		text := p.Fragments[startIdx].Text
		p.Fragments[startIdx].Text = text[:span.StartOffset] + newText + text[span.EndOffset:]
		return
	}

	p.Fragments[startIdx].Text = p.Fragments[startIdx].Text[:span.StartOffset] + newText
	for i := startIdx + 1; i < endIdx; i++ {
		p.Fragments[i].Text = ""
	}
	p.Fragments[endIdx].Text = p.Fragments[endIdx].Text[span.EndOffset:]
}

// insertAt places a new fragment at position idx carrying the inserted
// text and the format of the fragment it sits next to
func insertAt(p *document.Paragraph, idx int, text string, format document.Format) {
	frag := document.Fragment{
		ID:     p.AllocateID(),
		Text:   text,
		Format: format.Clone(),
	}
	p.Fragments = append(p.Fragments, document.Fragment{})
	copy(p.Fragments[idx+1:], p.Fragments[idx:])
	p.Fragments[idx] = frag
}
