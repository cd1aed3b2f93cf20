package document

// 🧱 Cell holds the paragraphs of a single table cell. Cell paragraphs use
// the same fragment model as body paragraphs, so the index/match/edit
// machinery works inside cells unchanged.
type Cell struct {
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`
}

// Row is an ordered sequence of cells
type Row struct {
	Cells []Cell `json:"cells" yaml:"cells"`
}

// 🗂️ Table is an ordered sequence of rows. Tables are searched only after
// no body paragraph matched a target.
type Table struct {
	Rows []Row `json:"rows" yaml:"rows"`
}

// Columns returns the column count of the widest row
func (t *Table) Columns() int {
	cols := 0
	for i := range t.Rows {
		if n := len(t.Rows[i].Cells); n > cols {
			cols = n
		}
	}
	return cols
}

// Text returns the logical text of the cell: its paragraphs' logical
// texts joined by newlines
func (c *Cell) Text() string {
	switch len(c.Paragraphs) {
	case 0:
		return ""
	case 1:
		return c.Paragraphs[0].LogicalText()
	}
	out := c.Paragraphs[0].LogicalText()
	for _, p := range c.Paragraphs[1:] {
		out += "\n" + p.LogicalText()
	}
	return out
}

// SetText replaces the cell content with a single plain paragraph
func (c *Cell) SetText(text string) {
	c.Paragraphs = []Paragraph{NewParagraph(text)}
}
