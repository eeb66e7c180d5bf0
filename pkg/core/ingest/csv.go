// Package ingest reads the raw fixture files: the stakeholder CSV export and
// the fetch layer that retrieves every fixture from disk, HTTP or the vault.
package ingest

import "strings"

// SplitFields splits one CSV line on commas that are outside double quotes.
// Quote characters toggle the quoted state and are dropped; doubled quotes are
// not treated as an escape. Each field is trimmed.
func SplitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// ParseRecords splits text into lines, drops blank lines and the header, and
// splits each remaining line into fields. Records with an empty first field
// are dropped.
func ParseRecords(text string) [][]string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if len(lines) == 0 {
		return nil
	}

	records := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := SplitFields(line)
		if fields[0] == "" {
			continue
		}
		records = append(records, fields)
	}
	return records
}
