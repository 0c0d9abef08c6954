package extractor

import (
	"regexp"
	"strings"
)

var horizontalSpaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)

// Normalize collapses runs of horizontal whitespace to single spaces,
// collapses consecutive blank lines to exactly one, and trims leading and
// trailing whitespace. Normalize is idempotent:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
