package evaluate

import (
	"fmt"
	"strings"
)

// Repair recovers a JSON object from free-form model output. It isolates the
// substring between the first '{' and the last '}', strips comments and
// non-printable control characters, then inserts the commas models tend to
// drop between adjacent array string literals and adjacent object boundaries.
// Repairs are applied only outside string literals.
func Repair(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response (%d bytes)", len(raw))
	}

	s := raw[start : end+1]
	s = stripComments(s)
	s = stripControl(s)
	s = insertMissingCommas(s)
	return s, nil
}

// stripComments removes // line comments and /* */ block comments that sit
// outside string literals.
func stripComments(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			out.WriteByte(c)
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
			out.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				out.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // skip the trailing '/'
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// stripControl drops non-printable control characters. Outside strings the
// whitespace controls (\n, \r, \t) are kept as token separators; inside
// strings every raw control character is invalid JSON and is removed.
func stripControl(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if c < 0x20 {
			if !inString && (c == '\n' || c == '\r' || c == '\t') {
				out.WriteByte(c)
			}
			continue
		}

		out.WriteByte(c)
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		} else if c == '"' {
			inString = true
		}
	}
	return out.String()
}

// insertMissingCommas is a single left-to-right scan tracking quote state and
// bracket depth. It inserts a comma when a new value starts right after a
// closed one: a string literal following a string literal inside an array, an
// object following an object, an array following an array, or an object key
// following a closed object or array.
func insertMissingCommas(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	inString := false
	escaped := false
	arrayDepth := 0
	objectDepth := 0
	var lastSig byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				lastSig = '"'
			}
			continue
		}

		switch c {
		case '"':
			if lastSig == '"' && arrayDepth > 0 {
				out.WriteByte(',')
			} else if (lastSig == '}' || lastSig == ']') && objectDepth > 0 {
				out.WriteByte(',')
			}
			inString = true
			out.WriteByte(c)
		case '{':
			if lastSig == '}' || lastSig == ']' || (lastSig == '"' && arrayDepth > 0) {
				out.WriteByte(',')
			}
			objectDepth++
			out.WriteByte(c)
			lastSig = c
		case '[':
			if lastSig == ']' || lastSig == '}' {
				out.WriteByte(',')
			}
			arrayDepth++
			out.WriteByte(c)
			lastSig = c
		case '}':
			if objectDepth > 0 {
				objectDepth--
			}
			out.WriteByte(c)
			lastSig = c
		case ']':
			if arrayDepth > 0 {
				arrayDepth--
			}
			out.WriteByte(c)
			lastSig = c
		case ' ', '\t', '\n', '\r':
			out.WriteByte(c)
		default:
			out.WriteByte(c)
			lastSig = c
		}
	}
	return out.String()
}
