package synthesizer

import (
	"regexp"
	"strings"
)

// conversationalPrefixes are lead-in phrases models prepend despite being
// told not to. Matched case-insensitively at the very start of the reply;
// only the matched prefix is removed.
var conversationalPrefixes = []string{
	"here are the questions:",
	"here are your questions:",
	"here are the quiz questions:",
	"here is the json:",
	"here is your quiz:",
	"sure, here are the questions:",
	"sure! here are the questions:",
	"here you go:",
}

// stripConversationalPrefix trims whitespace and removes a known lead-in
// phrase if the reply starts with one.
func stripConversationalPrefix(reply string) string {
	reply = strings.TrimSpace(reply)
	lower := strings.ToLower(reply)
	for _, prefix := range conversationalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(reply[len(prefix):])
		}
	}
	return reply
}

// stripCodeFence removes a leading markdown code-fence marker (with or
// without a language tag) and a trailing one, if present.
func stripCodeFence(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		if idx := strings.Index(reply, "\n"); idx >= 0 {
			reply = reply[idx+1:]
		} else {
			reply = strings.TrimPrefix(reply, "```")
		}
	}
	reply = strings.TrimSpace(reply)
	reply = strings.TrimSuffix(reply, "```")
	return strings.TrimSpace(reply)
}

// isolateArray keeps the substring between the first '[' and the last ']'
// inclusive. With no '[' present isolation is a no-op; the repair stage
// still attempts parsing and may fail. A missing closing bracket keeps
// everything from '[' onward for the repair stage to close.
func isolateArray(reply string) string {
	start := strings.Index(reply, "[")
	if start < 0 {
		return reply
	}
	end := strings.LastIndex(reply, "]")
	if end < start {
		return reply[start:]
	}
	return reply[start : end+1]
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// repairStructure makes the three mechanical fixes that recover most
// truncated or sloppily quoted model output: append the closing braces and
// brackets a single scan finds missing (closers go at the end of the
// string, never inserted in place), replace single-quote string delimiters
// with double quotes, and drop trailing commas before a closer.
func repairStructure(s string) string {
	s = closeUnbalanced(s)
	s = replaceSingleQuotes(s)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return s
}

// closeUnbalanced scans once, tracking open braces and brackets outside
// string literals, and appends the missing closers innermost-first.
func closeUnbalanced(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s)
	if inString {
		sb.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			sb.WriteByte('}')
		} else {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// replaceSingleQuotes converts single-quote string delimiters to double
// quotes, leaving apostrophes inside double-quoted strings alone.
func replaceSingleQuotes(s string) string {
	b := []byte(s)
	inDouble := false
	escaped := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inDouble = !inDouble
		case '\'':
			if !inDouble {
				b[i] = '"'
			}
		}
	}
	return string(b)
}
