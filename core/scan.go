package core

import (
	"bytes"
	"fmt"
)

// The scanning helpers below work on a complete in-memory buffer. Each takes
// the buffer and a start offset and returns the offset just past what it
// consumed.

// skipSpace skips whitespace and comments starting at pos.
func skipSpace(data []byte, pos int) int {
	for pos < len(data) {
		c := data[pos]
		switch {
		case isWhitespace(c):
			pos++
		case c == '%':
			// comments run to the end of the line
			for pos < len(data) && data[pos] != '\r' && data[pos] != '\n' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// skipEOL skips a single end-of-line marker (LF, CRLF or CR) at pos.
func skipEOL(data []byte, pos int) int {
	if pos < len(data) && data[pos] == '\r' {
		pos++
	}
	if pos < len(data) && data[pos] == '\n' {
		pos++
	}
	return pos
}

// hasPrefixFold reports whether data[pos:] starts with the lower case ASCII
// keyword kw, ignoring case.
func hasPrefixFold(data []byte, pos int, kw string) bool {
	if len(data)-pos < len(kw) {
		return false
	}
	return bytes.EqualFold(data[pos:pos+len(kw)], []byte(kw))
}

// hasPrefix reports whether data[pos:] starts with s.
func hasPrefix(data []byte, pos int, s string) bool {
	return len(data)-pos >= len(s) && string(data[pos:pos+len(s)]) == s
}

// atBoundary reports whether a token ending at pos is properly terminated.
func atBoundary(data []byte, pos int) bool {
	return pos >= len(data) || isWhitespace(data[pos]) || isDelimiter(data[pos])
}

// scanDigits returns the end of the run of decimal digits starting at pos.
func scanDigits(data []byte, pos int) int {
	for pos < len(data) && isDigit(data[pos]) {
		pos++
	}
	return pos
}

// scanNumber returns the end of a numeric literal starting at pos: an
// optional sign followed by digits with an optional fraction, or by a point
// and digits. ok is false when no digit was found.
func scanNumber(data []byte, pos int) (end int, hasPoint, ok bool) {
	i := pos
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}
	intEnd := scanDigits(data, i)
	digits := intEnd - i
	i = intEnd
	if i < len(data) && data[i] == '.' {
		fracEnd := scanDigits(data, i+1)
		if digits > 0 || fracEnd > i+1 {
			digits += fracEnd - (i + 1)
			hasPoint = true
			i = fracEnd
		}
	}
	if digits == 0 {
		return pos, false, false
	}
	return i, hasPoint, true
}

// scanKeyword returns the run of regular characters starting at pos.
func scanKeyword(data []byte, pos int) string {
	end := pos
	for end < len(data) && isRegular(data[end]) {
		end++
	}
	return string(data[pos:end])
}

// scanLiteralString decodes a literal string. data[pos] must be '('. Nested
// balanced parentheses are part of the string; escape sequences are decoded.
func scanLiteralString(data []byte, pos int) ([]byte, int, error) {
	start := pos
	pos++ // (
	var buf bytes.Buffer
	depth := 1
	for {
		if pos >= len(data) {
			return nil, pos, syntaxErrorf(start, ErrMalformedString, "unterminated literal string")
		}
		b := data[pos]
		pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return buf.Bytes(), pos, nil
			}
			buf.WriteByte(b)
		case '\\':
			if pos >= len(data) {
				return nil, pos, syntaxErrorf(start, ErrMalformedString, "unterminated literal string")
			}
			next := data[pos]
			pos++
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(next)
			case '\r', '\n':
				// Line continuation
				if next == '\r' && pos < len(data) && data[pos] == '\n' {
					pos++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				// Octal escape \d, \dd or \ddd; high-order overflow is ignored
				val := next - '0'
				for i := 0; i < 2 && pos < len(data) && isOctalDigit(data[pos]); i++ {
					val = val*8 + (data[pos] - '0')
					pos++
				}
				buf.WriteByte(val)
			default:
				// Unknown escape - keep the character
				buf.WriteByte(next)
			}
		default:
			buf.WriteByte(b)
		}
	}
}

// scanHexString decodes a hexadecimal string. data[pos] must be '<'.
// Whitespace between digits is ignored.
func scanHexString(data []byte, pos int) ([]byte, int, error) {
	start := pos
	pos++ // <
	var digits []byte
	for {
		if pos >= len(data) {
			return nil, pos, syntaxErrorf(start, ErrMalformedString, "unterminated hex string")
		}
		b := data[pos]
		pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, pos, syntaxErrorf(pos-1, ErrMalformedString, "invalid hex digit %q", b)
		}
		digits = append(digits, b)
	}
	if len(digits)%2 != 0 {
		return nil, pos, syntaxErrorf(start, ErrMalformedString, "odd number of hex digits (%d)", len(digits))
	}
	result := make([]byte, len(digits)/2)
	for i := range result {
		result[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return result, pos, nil
}

// scanName decodes a name. data[pos] must be '/'. The raw label runs until
// the first whitespace, delimiter or non-printable byte; #XX escapes in it
// are then decoded.
func scanName(data []byte, pos int) (string, int, error) {
	pos++ // /
	end := pos
	for end < len(data) && isRegular(data[end]) {
		end++
	}
	raw := data[pos:end]
	if bytes.IndexByte(raw, '#') < 0 {
		return string(raw), end, nil
	}
	label := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '#' {
			label = append(label, raw[i])
			continue
		}
		if i+2 >= len(raw) {
			return "", end, syntaxErrorf(pos+i, ErrMalformedName, "truncated #XX escape in name")
		}
		hi, lo := raw[i+1], raw[i+2]
		if !isHexDigit(hi) || !isHexDigit(lo) {
			return "", end, syntaxErrorf(pos+i, ErrMalformedName, "invalid #XX escape %q in name", raw[i:i+3])
		}
		label = append(label, hexValue(hi)<<4|hexValue(lo))
		i += 2
	}
	return string(label), end, nil
}

func syntaxErrorf(offset int, kind error, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Helper functions

func isWhitespace(b byte) bool {
	// whitespace: space, tab, LF, CR, FF, null
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

// isRegular reports whether b may appear unescaped in a name or keyword.
func isRegular(b byte) bool {
	return b >= 0x21 && b <= 0x7E && !isDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	if b >= '0' && b <= '9' {
		return b - '0'
	}
	if b >= 'a' && b <= 'f' {
		return b - 'a' + 10
	}
	if b >= 'A' && b <= 'F' {
		return b - 'A' + 10
	}
	return 0
}
