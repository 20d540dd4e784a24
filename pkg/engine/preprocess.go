package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into a form zygomys accepts:
//
//  1. ; and ;; line comments become // comments.
//  2. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with script variables.
//  3. kebab-case identifiers become snake_case (part-add -> part_add),
//     since zygomys reads a hyphen as the minus operator.
//
// String literals pass through untouched.
func preprocessSource(src string) string {
	var out strings.Builder
	out.Grow(len(src) + len(src)/4)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '`':
			j := skipString(src, i)
			out.WriteString(src[i:j])
			i = j

		case c == ';':
			j := i
			for j < len(src) && src[j] == ';' {
				j++
			}
			end := strings.IndexByte(src[j:], '\n')
			if end < 0 {
				end = len(src) - j
			}
			out.WriteString("//")
			out.WriteString(src[j : j+end])
			i = j + end

		case c == ':' && i+1 < len(src) && src[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(src) && isLetter(src[i+1]):
			j := i + 1
			for j < len(src) && isKWChar(src[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(src[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(src) && isIdentChar(src[i-1]) && isLetter(src[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipString returns the index just past the string literal starting at i.
// Backslash escapes are honoured in double-quoted strings only.
func skipString(src string, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) && src[j] != quote {
		if quote == '"' && src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		j++
	}
	if j < len(src) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
