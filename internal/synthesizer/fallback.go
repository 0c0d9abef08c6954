package synthesizer

import (
	"regexp"
	"strconv"
	"strings"

	"docquiz/internal/domain"
)

// Single-field patterns for the last-resort extraction pass. Each matches
// one JSON-ish field occurrence anywhere in the raw reply, tolerant of the
// surrounding structure being garbage.
var (
	questionPattern    = regexp.MustCompile(`"question"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	choicesPattern     = regexp.MustCompile(`"choices"\s*:\s*\[([^\][]*)\]`)
	indexPattern       = regexp.MustCompile(`"correct_answer_index"\s*:\s*(-?\d+)`)
	explanationPattern = regexp.MustCompile(`"explanation"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	stringElemPattern  = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// extractByRegex independently scans the original raw reply for the four
// field patterns and pairs them positionally: the i-th question goes with
// the i-th choices array, index and explanation, only while all four lists
// still have an entry. Ragged tails are dropped.
//
// Everything recovered here is tagged multiple choice regardless of the
// requested quiz type; enumeration and true/false have no fallback
// patterns. A known limitation carried over deliberately.
func extractByRegex(rawReply string) []*domain.QuizQuestion {
	questions := questionPattern.FindAllStringSubmatch(rawReply, -1)
	choiceSets := choicesPattern.FindAllStringSubmatch(rawReply, -1)
	indexes := indexPattern.FindAllStringSubmatch(rawReply, -1)
	explanations := explanationPattern.FindAllStringSubmatch(rawReply, -1)

	n := len(questions)
	for _, l := range []int{len(choiceSets), len(indexes), len(explanations)} {
		if l < n {
			n = l
		}
	}

	var result []*domain.QuizQuestion
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(indexes[i][1])
		if err != nil {
			continue
		}
		q := domain.NewMultipleChoiceQuestion(
			unescapeJSONString(questions[i][1]),
			parseChoicesLiteral(choiceSets[i][1]),
			idx,
			unescapeJSONString(explanations[i][1]),
		)
		if q.Validate() != nil {
			continue
		}
		result = append(result, q)
	}
	return result
}

// parseChoicesLiteral pulls the string elements out of one choices-array
// literal body.
func parseChoicesLiteral(body string) []string {
	matches := stringElemPattern.FindAllStringSubmatch(body, -1)
	choices := make([]string, 0, len(matches))
	for _, m := range matches {
		choices = append(choices, unescapeJSONString(m[1]))
	}
	return choices
}

// unescapeJSONString resolves backslash escapes in a captured string body,
// falling back to the raw capture when it is not valid JSON escaping.
func unescapeJSONString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
