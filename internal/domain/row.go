package domain

import "strings"

const (
	fieldDelimiter = ','
	quoteChar      = '"'
)

// ParseRow splits one CSV line into trimmed fields. A quote toggles quoted
// mode and is dropped from the output; commas inside quotes are kept as
// content. Unbalanced quotes are tolerated: whatever was accumulated is
// flushed at end of line. A blank line yields nil.
func ParseRow(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == quoteChar:
			inQuotes = !inQuotes
		case r == fieldDelimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
