package console

import "strings"

// SplitStatements splits a script on semicolons that are outside string
// literals, quoted identifiers, dollar-quoted bodies and comments. Pieces
// that hold nothing but comments and whitespace are dropped.
func SplitStatements(script string) []string {
	var (
		out   []string
		start int
		i     int
	)
	flush := func(end int) {
		stmt := strings.TrimSpace(script[start:end])
		if stmt != "" && !onlyComments(stmt) {
			out = append(out, stmt)
		}
	}
	for i < len(script) {
		switch c := script[i]; {
		case c == '\'' || c == '"':
			i = skipQuoted(script, i, c, c == '\'' && escapePrefixed(script, i))
		case c == '-' && strings.HasPrefix(script[i:], "--"):
			i = skipLineComment(script, i)
		case c == '/' && strings.HasPrefix(script[i:], "/*"):
			i = skipBlockComment(script, i)
		case c == '$':
			if tag, ok := dollarTag(script[i:]); ok {
				if end := strings.Index(script[i+len(tag):], tag); end >= 0 {
					i += len(tag) + end + len(tag)
				} else {
					i = len(script)
				}
				continue
			}
			i++
		case c == ';':
			flush(i)
			i++
			start = i
		default:
			i++
		}
	}
	flush(len(script))
	return out
}

// skipQuoted returns the index after the closing quote. A doubled quote is an
// escaped quote; in E'...' strings a backslash also escapes the next byte.
func skipQuoted(s string, i int, q byte, backslash bool) int {
	i++
	for i < len(s) {
		if backslash && s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == q {
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

// escapePrefixed reports whether the quote at i opens an E'...' literal: it
// follows a lone E or e that is not the tail of a longer identifier.
func escapePrefixed(s string, i int) bool {
	if i == 0 || (s[i-1] != 'E' && s[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdentByte(s[i-2])
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}

func skipLineComment(s string, i int) int {
	if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
		return i + nl + 1
	}
	return len(s)
}

func skipBlockComment(s string, i int) int {
	if end := strings.Index(s[i+2:], "*/"); end >= 0 {
		return i + 2 + end + 2
	}
	return len(s)
}

// dollarTag recognises $$ and $name$ openers. Positional parameters like $1
// are not tags.
func dollarTag(s string) (string, bool) {
	for j := 1; j < len(s); j++ {
		c := s[j]
		if c == '$' {
			return s[:j+1], true
		}
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !(isDigit && j > 1) {
			return "", false
		}
	}
	return "", false
}

func onlyComments(stmt string) bool {
	i := 0
	for i < len(stmt) {
		switch {
		case stmt[i] == ' ' || stmt[i] == '\t' || stmt[i] == '\n' || stmt[i] == '\r':
			i++
		case strings.HasPrefix(stmt[i:], "--"):
			i = skipLineComment(stmt, i)
		case strings.HasPrefix(stmt[i:], "/*"):
			i = skipBlockComment(stmt, i)
		default:
			return false
		}
	}
	return true
}
