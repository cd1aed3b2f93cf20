package apply

import (
	"regexp"
	"strings"

	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/edit"
	"github.com/walteh/redline/pkg/index"
	"github.com/walteh/redline/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// tableHit locates a target inside a table. keyColumn is set when the
// hit came from one of the first-column passes, which marks the row as a
// key/value row (e.g. an abbreviation table) eligible for column
// distribution on REPLACE.
type tableHit struct {
	table     int
	row       int
	col       int
	keyColumn bool
}

// findInTables searches every table for the target text. Three passes,
// in priority order: exact match of a whole first-column cell, then a
// word-boundary match in the first column, then a substring match in any
// cell. The first pass that hits wins.
func (p *pass) findInTables(in *change.Instruction) (tableHit, bool) {
	target := strings.TrimSpace(in.Target.Text)
	if target == "" || len(p.doc.Tables) == 0 {
		return tableHit{}, false
	}

	for ti := range p.doc.Tables {
		for ri := range p.doc.Tables[ti].Rows {
			cells := p.doc.Tables[ti].Rows[ri].Cells
			if len(cells) > 0 && strings.TrimSpace(cells[0].Text()) == target {
				return tableHit{table: ti, row: ri, col: 0, keyColumn: true}, true
			}
		}
	}

	boundary := regexp.MustCompile(`(?:^|[\s,;])` + regexp.QuoteMeta(target) + `(?:[\s,;]|$)`)
	for ti := range p.doc.Tables {
		for ri := range p.doc.Tables[ti].Rows {
			cells := p.doc.Tables[ti].Rows[ri].Cells
			if len(cells) > 0 && boundary.MatchString(cells[0].Text()) {
				return tableHit{table: ti, row: ri, col: 0, keyColumn: true}, true
			}
		}
	}

	for ti := range p.doc.Tables {
		for ri := range p.doc.Tables[ti].Rows {
			for ci := range p.doc.Tables[ti].Rows[ri].Cells {
				if strings.Contains(p.doc.Tables[ti].Rows[ri].Cells[ci].Text(), in.Target.Text) {
					return tableHit{table: ti, row: ri, col: ci}, true
				}
			}
		}
	}

	return tableHit{}, false
}

// editTable applies the instruction inside the located table. A REPLACE
// against a key/value row distributes the new text across the row's
// columns; everything else is an in-cell span edit on the cell's own
// paragraphs. Returns the multiple-matches flag of the in-cell match.
func (p *pass) editTable(hit tableHit, in *change.Instruction) (bool, error) {
	table := &p.doc.Tables[hit.table]
	row := &table.Rows[hit.row]

	if hit.keyColumn && in.Operation == change.OpReplace && table.Columns() >= 2 {
		distributed := edit.DistributeToColumns(in.Payload.NewText, table.Columns())
		for ci := range row.Cells {
			if ci < len(distributed) && distributed[ci] != "" {
				row.Cells[ci].SetText(distributed[ci])
			}
		}
		p.invalidate()
		return false, nil
	}

	cell := &row.Cells[hit.col]
	for pi := range cell.Paragraphs {
		ix := index.Build(&cell.Paragraphs[pi])
		m, err := match.Find(ix.Text(), in.Target.Text, p.policies...)
		if err != nil {
			if errors.Is(err, match.ErrNotFound) {
				continue
			}
			return false, err
		}
		span, err := ix.Locate(m.Start, m.End)
		if err != nil {
			return false, err
		}
		if err := edit.Apply(&cell.Paragraphs[pi], span, in.Operation, in.Payload.NewText); err != nil {
			return false, err
		}
		cell.Paragraphs[pi].Compact()
		p.invalidate()
		return m.Multiple, nil
	}

	// The locator saw the target in the cell's joined text but no single
	// cell paragraph contains it (it crosses a paragraph break)
	return false, errors.Errorf("target crosses cell paragraph boundary: %w", match.ErrNotFound)
}
