package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalText(t *testing.T) {
	tests := []struct {
		name   string
		pieces []string
		want   string
	}{
		{
			name:   "single_fragment",
			pieces: []string{"Hello World"},
			want:   "Hello World",
		},
		{
			name:   "split_mid_word",
			pieces: []string{"Chapter ", "1. DEFIN", "ITIONS"},
			want:   "Chapter 1. DEFINITIONS",
		},
		{
			name:   "empty_fragments_contribute_nothing",
			pieces: []string{"", "a", "", "b", ""},
			want:   "ab",
		},
		{
			name:   "no_fragments",
			pieces: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParagraph(tt.pieces...)
			assert.Equal(t, tt.want, p.LogicalText())
		})
	}
}

func TestFragmentByID(t *testing.T) {
	p := Paragraph{Fragments: []Fragment{
		{ID: 3, Text: "a"},
		{ID: 7, Text: "b"},
	}}

	assert.Equal(t, 0, p.FragmentByID(3))
	assert.Equal(t, 1, p.FragmentByID(7))
	assert.Equal(t, -1, p.FragmentByID(5))
}

func TestAllocateID(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want int
	}{
		{name: "empty_paragraph", ids: nil, want: 0},
		{name: "sequential", ids: []int{0, 1, 2}, want: 3},
		{name: "gaps_are_not_reused", ids: []int{0, 5}, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Paragraph
			for _, id := range tt.ids {
				p.Fragments = append(p.Fragments, Fragment{ID: id})
			}
			assert.Equal(t, tt.want, p.AllocateID())
		})
	}
}

func TestCompact(t *testing.T) {
	p := Paragraph{Fragments: []Fragment{
		{ID: 0, Text: "keep"},
		{ID: 1, Text: ""},
		{ID: 2, Text: "also"},
		{ID: 3, Text: ""},
	}}

	p.Compact()

	require.Len(t, p.Fragments, 2)
	assert.Equal(t, 0, p.Fragments[0].ID)
	assert.Equal(t, 2, p.Fragments[1].ID)
	assert.Equal(t, "keepalso", p.LogicalText())
}

func TestFormatClone(t *testing.T) {
	orig := Format{"bold": "true"}
	clone := orig.Clone()
	clone["bold"] = "false"

	assert.Equal(t, "true", orig["bold"])
	assert.Nil(t, Format(nil).Clone())
}

func TestAssignIDs(t *testing.T) {
	t.Run("duplicate_ids_reassigned", func(t *testing.T) {
		d := Document{Paragraphs: []Paragraph{{
			Fragments: []Fragment{{ID: 0, Text: "a"}, {ID: 0, Text: "b"}},
		}}}

		d.AssignIDs()
		require.NoError(t, d.Validate())
		assert.Equal(t, 0, d.Paragraphs[0].Fragments[0].ID)
		assert.Equal(t, 1, d.Paragraphs[0].Fragments[1].ID)
	})

	t.Run("explicit_ids_preserved", func(t *testing.T) {
		d := Document{Paragraphs: []Paragraph{{
			Fragments: []Fragment{{ID: 9, Text: "a"}, {ID: 2, Text: "b"}},
		}}}

		d.AssignIDs()
		assert.Equal(t, 9, d.Paragraphs[0].Fragments[0].ID)
		assert.Equal(t, 2, d.Paragraphs[0].Fragments[1].ID)
	})

	t.Run("table_cell_paragraphs_covered", func(t *testing.T) {
		d := Document{Tables: []Table{{Rows: []Row{{Cells: []Cell{{
			Paragraphs: []Paragraph{{
				Fragments: []Fragment{{ID: 0, Text: "a"}, {ID: 0, Text: "b"}},
			}},
		}}}}}}}

		d.AssignIDs()
		cell := d.Tables[0].Rows[0].Cells[0]
		assert.Equal(t, 1, cell.Paragraphs[0].Fragments[1].ID)
	})
}

func TestValidate(t *testing.T) {
	d := Document{Paragraphs: []Paragraph{{
		Fragments: []Fragment{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}},
	}}}

	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate fragment id")
}

func TestCellText(t *testing.T) {
	cell := Cell{Paragraphs: []Paragraph{
		NewParagraph("first line"),
		NewParagraph("second ", "line"),
	}}

	assert.Equal(t, "first line\nsecond line", cell.Text())

	cell.SetText("replaced")
	require.Len(t, cell.Paragraphs, 1)
	assert.Equal(t, "replaced", cell.Text())
}

func TestTableColumns(t *testing.T) {
	tbl := Table{Rows: []Row{
		{Cells: []Cell{{}, {}}},
		{Cells: []Cell{{}, {}, {}}},
	}}
	assert.Equal(t, 3, tbl.Columns())

	assert.Equal(t, 0, (&Table{}).Columns())
}
