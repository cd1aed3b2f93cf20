package edit

import "strings"

// maxKeyTokenLen is the longest leading token still treated as a key
// (abbreviation) when it is capitalized rather than all-caps
const maxKeyTokenLen = 8

// DistributeToColumns splits replacement text across the columns of a
// key/value table row, e.g. an abbreviation table: a short leading token
// goes to the key column and the remainder to the value column. For
// wider tables the remainder is spread word-evenly over the remaining
// columns.
func DistributeToColumns(newText string, columns int) []string {
	if columns <= 0 {
		return nil
	}

	newText = strings.TrimSpace(newText)
	out := make([]string, columns)
	if newText == "" {
		return out
	}
	if columns == 1 {
		out[0] = newText
		return out
	}

	words := strings.Fields(newText)
	if len(words) == 1 {
		out[0] = words[0]
		return out
	}

	if columns == 2 {
		if looksLikeKey(words[0]) {
			out[0] = words[0]
			out[1] = strings.Join(words[1:], " ")
			return out
		}
		// No obvious key token: split down the middle
		mid := len(words) / 2
		out[0] = strings.Join(words[:mid], " ")
		out[1] = strings.Join(words[mid:], " ")
		return out
	}

	out[0] = words[0]
	rest := words[1:]
	perColumn := len(rest) / (columns - 1)
	if perColumn == 0 {
		perColumn = 1
	}
	start := 0
	for col := 1; col < columns; col++ {
		end := start + perColumn
		if col == columns-1 || end > len(rest) {
			end = len(rest)
		}
		out[col] = strings.Join(rest[start:end], " ")
		start = end
	}
	return out
}

// looksLikeKey reports whether a token reads as an abbreviation: short,
// all upper case, or capitalized and still short
func looksLikeKey(token string) bool {
	if len(token) <= 5 {
		return true
	}
	if token == strings.ToUpper(token) {
		return true
	}
	first := token[:1]
	return first == strings.ToUpper(first) && len(token) <= maxKeyTokenLen
}
