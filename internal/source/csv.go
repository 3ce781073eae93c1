// Package source fetches and parses the comma-separated consumption file.
package source

import (
	"strings"
	"unicode"

	"github.com/theirongolddev/estalvi/internal/model"
)

// ParseCSV splits text into records keyed by the header line.
//
// Lines are split on "\n" and trimmed, so "\r\n" input parses the same.
// Blank lines are skipped. Short rows get "" for missing trailing fields and
// extra values are dropped. There is no quoting: every comma separates.
// ParseCSV never fails; empty input yields no records.
func ParseCSV(text string) []model.RawRecord {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || trimField(lines[0]) == "" {
		return nil
	}

	headers := splitFields(lines[0])

	records := make([]model.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if trimField(line) == "" {
			continue
		}
		values := splitFields(line)
		rec := make(model.RawRecord, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = values[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func splitFields(line string) []string {
	parts := strings.Split(trimField(line), ",")
	for i := range parts {
		parts[i] = trimField(parts[i])
	}
	return parts
}

// trimField strips whitespace and the U+FEFF byte order mark that spreadsheet
// "CSV UTF-8" exports put in front of the first header.
func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}
