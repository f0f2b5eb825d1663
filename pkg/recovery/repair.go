package recovery

import "strings"

// Repair applies the text-level heuristics for the malformations the
// generative model most often produces, in a fixed order: comment syntax,
// trailing commas, missing commas between adjacent values, doubled commas.
// Each pass is string-aware so quoted content is never rewritten.
func Repair(text string) string {
	text = stripComments(text)
	text = stripTrailingCommas(text)
	text = insertMissingCommas(text)
	text = collapseDoubledCommas(text)
	return text
}

// stripComments removes // line comments and /* ... */ block comments that
// appear outside string literals.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // consume the trailing "/" (loop adds one more)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas that directly precede a closing brace or
// bracket, looping until stable so nested occurrences are caught.
func stripTrailingCommas(s string) string {
	for {
		changed := false
		var b strings.Builder
		b.Grow(len(s))

		inString := false
		escaped := false
		for i := 0; i < len(s); i++ {
			c := s[i]
			if inString {
				b.WriteByte(c)
				if escaped {
					escaped = false
				} else if c == '\\' {
					escaped = true
				} else if c == '"' {
					inString = false
				}
				continue
			}
			if c == '"' {
				inString = true
				b.WriteByte(c)
				continue
			}
			if c == ',' {
				j := i + 1
				for j < len(s) && isSpace(s[j]) {
					j++
				}
				if j < len(s) && (s[j] == '}' || s[j] == ']') {
					changed = true
					continue
				}
			}
			b.WriteByte(c)
		}
		if !changed {
			return s
		}
		s = b.String()
	}
}

// insertMissingCommas adds a comma wherever one value ends and another begins
// with only whitespace between them: adjacent quoted strings, a closing
// brace/bracket followed by a quote or opening brace/bracket, or a bare
// literal/number followed by a quote.
func insertMissingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	escaped := false
	// prev tracks the last significant byte written outside strings; a
	// closing quote counts as significant.
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				prev = '"'
			}
			continue
		}
		if isSpace(c) {
			b.WriteByte(c)
			continue
		}
		if c == '"' || c == '{' || c == '[' {
			if endsValue(prev) {
				b.WriteByte(',')
			}
			b.WriteByte(c)
			if c == '"' {
				inString = true
			}
			prev = c
			continue
		}
		b.WriteByte(c)
		prev = c
	}
	return b.String()
}

// endsValue reports whether prev terminated a complete value, meaning a
// following value-start byte implies a missing comma. A colon, comma, or
// opening bracket means the next value is expected and no comma belongs.
func endsValue(prev byte) bool {
	switch {
	case prev == '"' || prev == '}' || prev == ']':
		return true
	case prev >= '0' && prev <= '9':
		return true
	case prev == 'e' || prev == 'l': // true/false/null end in e or l
		return true
	default:
		return false
	}
}

// collapseDoubledCommas drops commas whose previous significant byte is
// already a comma.
func collapseDoubledCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				prev = '"'
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			prev = c
			continue
		}
		if c == ',' && prev == ',' {
			continue
		}
		b.WriteByte(c)
		if !isSpace(c) {
			prev = c
		}
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
