package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/document"
	"github.com/walteh/redline/pkg/index"
	"github.com/walteh/redline/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// locate is a test helper: resolve target to a span via a fresh index
func locate(t *testing.T, p *document.Paragraph, target string) document.Span {
	t.Helper()
	ix := index.Build(p)
	m, err := match.Find(ix.Text(), target)
	require.NoError(t, err)
	span, err := ix.Locate(m.Start, m.End)
	require.NoError(t, err)
	return span
}

func TestApply_Replace(t *testing.T) {
	tests := []struct {
		name    string
		pieces  []string
		target  string
		newText string
		want    string
	}{
		{
			name:    "single_fragment_substring",
			pieces:  []string{"Hello World"},
			target:  "World",
			newText: "Universe",
			want:    "Hello Universe",
		},
		{
			name:    "cross_fragment",
			pieces:  []string{"Chapter ", "1. DEFIN", "ITIONS"},
			target:  "1. DEFINITIONS",
			newText: "2. SCOPE",
			want:    "Chapter 2. SCOPE",
		},
		{
			name:    "whole_paragraph",
			pieces:  []string{"Chapter 1. DEFIN", "ITIONS AND INTER", "PRETATION"},
			target:  "Chapter 1. DEFINITIONS AND INTERPRETATION",
			newText: "Chapter 1. DEFINITIONS AND INTERPRETATION test",
			want:    "Chapter 1. DEFINITIONS AND INTERPRETATION test",
		},
		{
			name:    "keeps_prefix_and_suffix",
			pieces:  []string{"The quick ", "brown fox ", "jumps over"},
			target:  "quick brown fox",
			newText: "lazy dog",
			want:    "The lazy dog jumps over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := document.NewParagraph(tt.pieces...)
			span := locate(t, &p, tt.target)

			err := Apply(&p, span, change.OpReplace, tt.newText)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.LogicalText())
		})
	}
}

func TestApply_Replace_FormatInheritance(t *testing.T) {
	// The replacement inherits the format of the FIRST fragment in the
	// span; kept portions keep their original fragment's format
	bold := document.Format{"bold": "true"}
	italic := document.Format{"italic": "true"}
	plain := document.Format{}

	p := document.Paragraph{Fragments: []document.Fragment{
		{ID: 0, Text: "Chapter ", Format: plain},
		{ID: 1, Text: "1. DEFIN", Format: bold},
		{ID: 2, Text: "ITIONS here", Format: italic},
	}}

	span := locate(t, &p, "1. DEFINITIONS")
	require.NoError(t, Apply(&p, span, change.OpReplace, "2. SCOPE"))

	assert.Equal(t, "Chapter 2. SCOPE here", p.LogicalText())
	// New text landed in the bold start fragment
	assert.Equal(t, "1. DEFIN"[:0]+"2. SCOPE", p.Fragments[1].Text)
	assert.Equal(t, bold, p.Fragments[1].Format)
	// Suffix kept its italic format
	assert.Equal(t, " here", p.Fragments[2].Text)
	assert.Equal(t, italic, p.Fragments[2].Format)
	// Untouched prefix fragment
	assert.Equal(t, "Chapter ", p.Fragments[0].Text)
}

func TestApply_Replace_RoundTrip(t *testing.T) {
	// REPLACE(T, N) then REPLACE(N, T) restores the logical text, even
	// though fragment boundaries may differ
	p := document.NewParagraph("Chapter ", "1. DEFIN", "ITIONS AND INTERPRETATION")
	original := p.LogicalText()

	span := locate(t, &p, "1. DEFINITIONS")
	require.NoError(t, Apply(&p, span, change.OpReplace, "9. NOTICES"))
	assert.NotEqual(t, original, p.LogicalText())

	span = locate(t, &p, "9. NOTICES")
	require.NoError(t, Apply(&p, span, change.OpReplace, "1. DEFINITIONS"))
	assert.Equal(t, original, p.LogicalText())
}

func TestApply_Delete(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		target string
		want   string
	}{
		{
			name:   "within_fragment",
			pieces: []string{"Hello cruel World"},
			target: "cruel ",
			want:   "Hello World",
		},
		{
			name:   "across_fragments",
			pieces: []string{"keep AA", "BB", "CC keep"},
			target: "AABBCC ",
			want:   "keep keep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := document.NewParagraph(tt.pieces...)
			span := locate(t, &p, tt.target)

			err := Apply(&p, span, change.OpDelete, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.LogicalText())
		})
	}
}

func TestApply_Delete_LeavesEmptyFragments(t *testing.T) {
	// Fully consumed fragments stay in place, empty; removal is the
	// applicator's explicit tidy step
	p := document.NewParagraph("keep AA", "BB", "CC keep")
	span := locate(t, &p, "AABBCC ")

	require.NoError(t, Apply(&p, span, change.OpDelete, ""))
	require.Len(t, p.Fragments, 3)
	assert.Equal(t, "", p.Fragments[1].Text)

	p.Compact()
	require.Len(t, p.Fragments, 2)
	assert.Equal(t, "keep keep", p.LogicalText())
}

func TestApply_Insert(t *testing.T) {
	bold := document.Format{"bold": "true"}
	italic := document.Format{"italic": "true"}

	p := document.Paragraph{Fragments: []document.Fragment{
		{ID: 0, Text: "one ", Format: bold},
		{ID: 1, Text: "two", Format: italic},
	}}

	// INSERT_BEFORE the match creates a fragment adjacent to the start
	// fragment, inheriting its format
	span := locate(t, &p, "two")
	require.NoError(t, Apply(&p, span, change.OpInsertBefore, "extra "))

	require.Len(t, p.Fragments, 3)
	assert.Equal(t, "one extra two", p.LogicalText())
	assert.Equal(t, "extra ", p.Fragments[1].Text)
	assert.Equal(t, italic, p.Fragments[1].Format)

	// INSERT_AFTER mirrors it on the end fragment
	span = locate(t, &p, "one")
	require.NoError(t, Apply(&p, span, change.OpInsertAfter, "more "))

	assert.Equal(t, "one more extra two", p.LogicalText())
	assert.Equal(t, "more ", p.Fragments[1].Text)
	assert.Equal(t, bold, p.Fragments[1].Format)
}

func TestApply_InsertedFragmentGetsFreshID(t *testing.T) {
	p := document.NewParagraph("one ", "two")
	span := locate(t, &p, "two")
	require.NoError(t, Apply(&p, span, change.OpInsertBefore, "x"))

	seen := map[int]bool{}
	for _, f := range p.Fragments {
		assert.False(t, seen[f.ID], "duplicate fragment id %d", f.ID)
		seen[f.ID] = true
	}
}

func TestApply_ValidatesBeforeWrite(t *testing.T) {
	tests := []struct {
		name    string
		span    document.Span
		op      change.Operation
		newText string
		wantErr error
	}{
		{
			name:    "stale_start_fragment",
			span:    document.Span{StartFragment: 99, EndFragment: 1, EndOffset: 1},
			op:      change.OpReplace,
			newText: "x",
			wantErr: ErrStaleSpan,
		},
		{
			name:    "stale_end_fragment",
			span:    document.Span{StartFragment: 0, EndFragment: 99, EndOffset: 1},
			op:      change.OpDelete,
			wantErr: ErrStaleSpan,
		},
		{
			name:    "offset_out_of_range",
			span:    document.Span{StartFragment: 0, StartOffset: 50, EndFragment: 1, EndOffset: 1},
			op:      change.OpReplace,
			newText: "x",
			wantErr: ErrStaleSpan,
		},
		{
			name:    "missing_payload_for_replace",
			span:    document.Span{StartFragment: 0, EndFragment: 0, EndOffset: 1},
			op:      change.OpReplace,
			wantErr: ErrMissingPayload,
		},
		{
			name:    "missing_payload_for_insert",
			span:    document.Span{StartFragment: 0, EndFragment: 0, EndOffset: 1},
			op:      change.OpInsertAfter,
			wantErr: ErrMissingPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := document.NewParagraph("Hello ", "World")
			before := p.LogicalText()

			err := Apply(&p, tt.span, tt.op, tt.newText)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			// Validate-before-write: the paragraph is untouched
			assert.Equal(t, before, p.LogicalText())
			assert.Len(t, p.Fragments, 2)
		})
	}
}
