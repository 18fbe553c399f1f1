package core

import (
	"fmt"
	"io"
	"strconv"
)

// DefaultMaxDepth is the default bound on array and dictionary nesting.
const DefaultMaxDepth = 256

// Limits bounds the work a parser will do on untrusted input.
type Limits struct {
	// MaxDepth is the maximum nesting of arrays and dictionaries. Zero
	// selects DefaultMaxDepth.
	MaxDepth int

	// MaxBytes is the maximum number of bytes a single ParseObject call may
	// consume. Zero means unbounded.
	MaxBytes int
}

// ParseOption configures a Parser
type ParseOption func(*Parser)

// WithLimits replaces the parser limits.
func WithLimits(l Limits) ParseOption {
	return func(p *Parser) {
		p.limits = l
	}
}

// WithMaxDepth sets the maximum container nesting depth.
func WithMaxDepth(depth int) ParseOption {
	return func(p *Parser) {
		p.limits.MaxDepth = depth
	}
}

// WithMaxBytes sets the byte budget for a single ParseObject call.
func WithMaxBytes(n int) ParseOption {
	return func(p *Parser) {
		p.limits.MaxBytes = n
	}
}

// Parser decodes COS values from an in-memory buffer.
//
// Decoding is a trial of candidate decoders in a fixed order (see
// decoders); the first one that succeeds wins. A candidate that does not
// recognize its input fails with ErrNoMatch and the next one is tried.
type Parser struct {
	data   []byte
	pos    int
	limits Limits
	depth  int

	// memo holds the last dictionary decoded, so that the dictionary
	// decoder does not repeat the work of the stream decoder that precedes
	// it in the trial order.
	memo dictMemo
}

type dictMemo struct {
	valid bool
	start int
	dict  Dict
	end   int
	err   error
}

// NewParser creates a new parser over data.
func NewParser(data []byte, opts ...ParseOption) *Parser {
	p := &Parser{data: data}
	for _, opt := range opts {
		opt(p)
	}
	if p.limits.MaxDepth <= 0 {
		p.limits.MaxDepth = DefaultMaxDepth
	}
	return p
}

// Decode decodes one value from the start of data and returns the bytes that
// follow it.
func Decode(data []byte, opts ...ParseOption) (Object, []byte, error) {
	p := NewParser(data, opts...)
	obj, err := p.ParseObject()
	if err != nil {
		if err == io.EOF {
			return nil, data, syntaxErrorf(len(data), ErrNoMatch, "empty input")
		}
		return nil, data, err
	}
	return obj, p.Remaining(), nil
}

// ParseObject decodes data, which must hold exactly one value, optionally
// surrounded by whitespace and comments.
func ParseObject(data []byte, opts ...ParseOption) (Object, error) {
	p := NewParser(data, opts...)
	if p.limits.MaxBytes > 0 && len(data) > p.limits.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(data), p.limits.MaxBytes)
	}
	obj, err := p.ParseObject()
	if err == io.EOF {
		return nil, syntaxErrorf(len(data), ErrNoMatch, "empty input")
	}
	if err != nil {
		return nil, err
	}
	if !p.AtEOF() {
		return nil, syntaxErrorf(p.skip(p.pos), ErrTrailingData, "unexpected %q after value", p.preview(p.skip(p.pos)))
	}
	return obj, nil
}

// Pos returns the current offset into the input.
func (p *Parser) Pos() int { return p.pos }

// Seek moves the parser to offset pos.
func (p *Parser) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(p.data) {
		pos = len(p.data)
	}
	p.pos = pos
}

// Remaining returns the unconsumed input.
func (p *Parser) Remaining() []byte { return p.data[p.pos:] }

// SkipSpace advances past whitespace and comments.
func (p *Parser) SkipSpace() { p.pos = p.skip(p.pos) }

// AtEOF reports whether only whitespace and comments remain.
func (p *Parser) AtEOF() bool { return p.skip(p.pos) >= len(p.data) }

// PeekKeyword returns the bare keyword at the current position without
// consuming it, or "" if the next token is not a keyword.
func (p *Parser) PeekKeyword() string {
	return scanKeyword(p.data, p.skip(p.pos))
}

// ExpectKeyword consumes the keyword kw or fails.
func (p *Parser) ExpectKeyword(kw string) error {
	start := p.skip(p.pos)
	if got := scanKeyword(p.data, start); got != kw {
		return syntaxErrorf(start, ErrMalformedLiteral, "expected %q, got %q", kw, p.preview(start))
	}
	p.pos = start + len(kw)
	return nil
}

// ParseObject decodes the next value. It returns io.EOF when only whitespace
// and comments remain.
func (p *Parser) ParseObject() (Object, error) {
	if p.AtEOF() {
		return nil, io.EOF
	}
	start := p.pos
	p.depth = 0
	p.memo = dictMemo{}
	obj, end, err := p.value(p.pos)
	if err != nil {
		return nil, err
	}
	if p.limits.MaxBytes > 0 && end-start > p.limits.MaxBytes {
		return nil, fmt.Errorf("%w: value spans %d bytes, limit is %d", ErrInputTooLarge, end-start, p.limits.MaxBytes)
	}
	p.pos = end
	return obj, nil
}

// ParseIndirectObject parses an indirect object definition of the form
// "num gen obj <value> endobj".
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	start := p.skip(p.pos)
	num, end, ok := p.unsigned(start)
	if !ok {
		return nil, syntaxErrorf(start, ErrMalformedLiteral, "expected object number, got %q", p.preview(start))
	}
	genStart := p.skip(end)
	if genStart == end {
		return nil, syntaxErrorf(end, ErrMalformedLiteral, "expected whitespace after object number")
	}
	gen, end, ok := p.unsigned(genStart)
	if !ok {
		return nil, syntaxErrorf(genStart, ErrMalformedLiteral, "expected generation number, got %q", p.preview(genStart))
	}
	p.pos = end
	if err := p.ExpectKeyword("obj"); err != nil {
		return nil, err
	}
	obj, err := p.ParseObject()
	if err == io.EOF {
		return nil, syntaxErrorf(p.pos, ErrNoMatch, "missing value in object %d %d", num, gen)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object %d %d: %w", num, gen, err)
	}
	if err := p.ExpectKeyword("endobj"); err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}
	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

// candidate is one entry of the decoder trial list.
type candidate struct {
	name   string
	decode func(p *Parser, pos int) (Object, int, error)
}

// decoders lists the candidate decoders in trial order. The order resolves
// the local ambiguities of the grammar and must be kept:
//
//   - reference before number, or "1 0 R" decodes as the integer 1 followed
//     by unparsed input;
//   - stream before dictionary, or a stream decodes as its dictionary and
//     leaves the stream keyword dangling;
//   - dictionary before string, since both "<<" and a hex string start
//     with '<'.
//
// It is assigned in init because the decoders call back into the list.
var decoders []candidate

func init() {
	decoders = []candidate{
		{"reference", (*Parser).decodeReference},
		{"stream", (*Parser).decodeStream},
		{"dictionary", (*Parser).decodeDict},
		{"string", (*Parser).decodeString},
		{"name", (*Parser).decodeName},
		{"array", (*Parser).decodeArray},
		{"null", (*Parser).decodeNull},
		{"boolean", (*Parser).decodeBool},
		{"number", (*Parser).decodeNumber},
	}
}

// value tries the candidate decoders at pos in order. A candidate failing
// with ErrNoMatch hands over to the next one; any other failure means the
// candidate recognized its syntax and found it malformed, which ends the
// trial with that error.
func (p *Parser) value(pos int) (Object, int, error) {
	for _, c := range decoders {
		obj, end, err := c.decode(p, pos)
		if err == nil {
			return obj, end, nil
		}
		if !isNoMatch(err) {
			return nil, pos, err
		}
	}
	start := p.skip(pos)
	if start >= len(p.data) {
		return nil, pos, syntaxErrorf(start, ErrNoMatch, "unexpected end of input")
	}
	return nil, pos, syntaxErrorf(start, ErrNoMatch, "unexpected %q", p.preview(start))
}

func (p *Parser) skip(pos int) int {
	return skipSpace(p.data, pos)
}

// preview returns a short excerpt of the input at pos for error messages.
func (p *Parser) preview(pos int) string {
	end := pos + 16
	if end > len(p.data) {
		end = len(p.data)
	}
	if pos >= end {
		return ""
	}
	return string(p.data[pos:end])
}

func (p *Parser) noMatch(pos int) (Object, int, error) {
	return nil, pos, ErrNoMatch
}

// unsigned scans a run of digits at pos as a non-negative int.
func (p *Parser) unsigned(pos int) (int, int, bool) {
	end := scanDigits(p.data, pos)
	if end == pos {
		return 0, pos, false
	}
	n, err := strconv.ParseInt(string(p.data[pos:end]), 10, 0)
	if err != nil {
		return 0, pos, false
	}
	return int(n), end, true
}

// decodeReference decodes "num gen R".
func (p *Parser) decodeReference(pos int) (Object, int, error) {
	start := p.skip(pos)
	num, end, ok := p.unsigned(start)
	if !ok || !atBoundary(p.data, end) {
		return p.noMatch(pos)
	}
	genStart := p.skip(end)
	if genStart == end {
		return p.noMatch(pos)
	}
	gen, end, ok := p.unsigned(genStart)
	if !ok || !atBoundary(p.data, end) {
		return p.noMatch(pos)
	}
	rPos := p.skip(end)
	if rPos == end || !hasPrefix(p.data, rPos, "R") || !atBoundary(p.data, rPos+1) {
		return p.noMatch(pos)
	}
	return IndirectRef{Number: num, Generation: gen}, rPos + 1, nil
}

// decodeString decodes a literal "(...)" or hexadecimal "<...>" string.
func (p *Parser) decodeString(pos int) (Object, int, error) {
	start := p.skip(pos)
	if start >= len(p.data) {
		return p.noMatch(pos)
	}
	switch {
	case p.data[start] == '(':
		val, end, err := scanLiteralString(p.data, start)
		if err != nil {
			return nil, pos, err
		}
		return String(val), end, nil
	case p.data[start] == '<' && !hasPrefix(p.data, start, "<<"):
		val, end, err := scanHexString(p.data, start)
		if err != nil {
			return nil, pos, err
		}
		return String(val), end, nil
	}
	return p.noMatch(pos)
}

// decodeName decodes "/Label".
func (p *Parser) decodeName(pos int) (Object, int, error) {
	start := p.skip(pos)
	if start >= len(p.data) || p.data[start] != '/' {
		return p.noMatch(pos)
	}
	label, end, err := scanName(p.data, start)
	if err != nil {
		return nil, pos, err
	}
	return Name(label), end, nil
}

// decodeNull matches "null" in any letter case.
func (p *Parser) decodeNull(pos int) (Object, int, error) {
	start := p.skip(pos)
	if !hasPrefixFold(p.data, start, "null") {
		return p.noMatch(pos)
	}
	return Null{}, start + len("null"), nil
}

// decodeBool matches "true" or "false" in any letter case.
func (p *Parser) decodeBool(pos int) (Object, int, error) {
	start := p.skip(pos)
	switch {
	case hasPrefixFold(p.data, start, "true"):
		return Bool(true), start + len("true"), nil
	case hasPrefixFold(p.data, start, "false"):
		return Bool(false), start + len("false"), nil
	}
	return p.noMatch(pos)
}

// decodeNumber decodes an integer or real literal. A literal without a point
// that fits an int64 is an Int; anything else is a Real.
func (p *Parser) decodeNumber(pos int) (Object, int, error) {
	start := p.skip(pos)
	end, hasPoint, ok := scanNumber(p.data, start)
	if !ok {
		return p.noMatch(pos)
	}
	text := string(p.data[start:end])
	if !hasPoint {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i), end, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, pos, syntaxErrorf(start, ErrMalformedLiteral, "invalid number %q", text)
	}
	return Real(f), end, nil
}
