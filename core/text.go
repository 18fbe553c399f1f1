package core

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextEncoding identifies how the bytes of a String encode text.
type TextEncoding int

const (
	// PDFDocEncoding is the default single-byte text encoding.
	PDFDocEncoding TextEncoding = iota
	UTF16BE
	UTF16LE
	UTF8
)

func (e TextEncoding) String() string {
	switch e {
	case PDFDocEncoding:
		return "PDFDocEncoding"
	case UTF16BE:
		return "UTF-16BE"
	case UTF16LE:
		return "UTF-16LE"
	case UTF8:
		return "UTF-8"
	}
	return "Unknown"
}

var (
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// Encoding reports the text encoding of s, determined by its byte order mark.
func (s String) Encoding() TextEncoding {
	b := []byte(s)
	switch {
	case bytes.HasPrefix(b, bomUTF16BE):
		return UTF16BE
	case bytes.HasPrefix(b, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(b, bomUTF8):
		return UTF8
	}
	return PDFDocEncoding
}

// Text decodes s as a text string.
func (s String) Text() (string, error) {
	var dec transform.Transformer
	switch s.Encoding() {
	case UTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case UTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case UTF8:
		dec = unicode.UTF8BOM.NewDecoder()
	default:
		return decodePDFDoc([]byte(s)), nil
	}
	out, _, err := transform.Bytes(dec, []byte(s))
	if err != nil {
		return "", fmt.Errorf("decoding %s string: %w", s.Encoding(), err)
	}
	return string(out), nil
}

// pdfDocDiffs holds the code points where PDFDocEncoding differs from
// ISO 8859-1.
var pdfDocDiffs = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙',
	0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
	0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}

func decodePDFDoc(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r, ok := pdfDocDiffs[c]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
