package core

import (
	"bytes"
	"fmt"
)

var endstreamMarker = []byte("\nendstream")

// enter records one more level of container nesting.
func (p *Parser) enter(pos int) error {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		return syntaxErrorf(pos, ErrDepthExceeded, "more than %d nested containers", p.limits.MaxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// decodeArray decodes "[ elem ... ]". An element that fails to decode ends
// the array when the input continues with "]"; otherwise the array is
// malformed.
func (p *Parser) decodeArray(pos int) (Object, int, error) {
	start := p.skip(pos)
	if start >= len(p.data) || p.data[start] != '[' {
		return p.noMatch(pos)
	}
	if err := p.enter(start); err != nil {
		return nil, pos, err
	}
	defer p.leave()

	arr := Array{}
	i := start + 1
	for {
		i = p.skip(i)
		obj, end, err := p.value(i)
		if err == nil {
			arr = append(arr, obj)
			i = end
			continue
		}
		switch {
		case i < len(p.data) && p.data[i] == ']':
			return arr, i + 1, nil
		case i >= len(p.data):
			return nil, pos, syntaxErrorf(start, ErrUnterminatedContainer, "array is missing ']'")
		case isNoMatch(err):
			return nil, pos, syntaxErrorf(i, ErrUnterminatedContainer, "unexpected %q in array", p.preview(i))
		}
		return nil, pos, fmt.Errorf("error parsing array element %d: %w", len(arr), err)
	}
}

// decodeDict decodes "<< /Key value ... >>".
func (p *Parser) decodeDict(pos int) (Object, int, error) {
	start := p.skip(pos)
	if !hasPrefix(p.data, start, "<<") {
		return p.noMatch(pos)
	}
	d, end, err := p.dict(start)
	if err != nil {
		return nil, pos, err
	}
	return d, end, nil
}

// dict decodes the dictionary at start, reusing the memoized result when the
// same dictionary was just decoded by the stream decoder.
func (p *Parser) dict(start int) (Dict, int, error) {
	if p.memo.valid && p.memo.start == start {
		return p.memo.dict, p.memo.end, p.memo.err
	}
	d, end, err := p.parseDict(start)
	p.memo = dictMemo{valid: true, start: start, dict: d, end: end, err: err}
	return d, end, err
}

func (p *Parser) parseDict(start int) (Dict, int, error) {
	if err := p.enter(start); err != nil {
		return nil, start, err
	}
	defer p.leave()

	dict := make(Dict)
	i := start + 2
	for {
		i = p.skip(i)
		key, end, err := p.decodeName(i)
		if err != nil {
			switch {
			case hasPrefix(p.data, i, ">>"):
				return dict, i + 2, nil
			case i >= len(p.data):
				return nil, start, syntaxErrorf(start, ErrUnterminatedContainer, "dictionary is missing '>>'")
			case isNoMatch(err):
				return nil, start, syntaxErrorf(i, ErrUnterminatedContainer, "expected name for dictionary key, got %q", p.preview(i))
			}
			return nil, start, err
		}
		value, end, err := p.value(end)
		if err != nil {
			if isNoMatch(err) {
				return nil, start, syntaxErrorf(p.skip(end), ErrUnterminatedContainer, "missing value for key /%s", key.(Name))
			}
			return nil, start, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		// a repeated key replaces the earlier value
		dict[string(key.(Name))] = value
		i = end
	}
}

// decodeStream decodes a dictionary followed by "stream", an end-of-line
// marker, the payload and "endstream".
//
// The payload is delimited by the dictionary's Length entry when it is a
// direct integer and the bytes after that many payload bytes are the
// endstream keyword. Otherwise the first end-of-line followed by endstream
// ends the payload.
func (p *Parser) decodeStream(pos int) (Object, int, error) {
	start := p.skip(pos)
	if !hasPrefix(p.data, start, "<<") {
		return p.noMatch(pos)
	}
	dict, end, err := p.dict(start)
	if err != nil {
		return nil, pos, err
	}
	kw := p.skip(end)
	if !hasPrefix(p.data, kw, "stream") || !atBoundary(p.data, kw+len("stream")) {
		return p.noMatch(pos)
	}
	dataStart := kw + len("stream")
	switch {
	case hasPrefix(p.data, dataStart, "\r\n"):
		dataStart += 2
	case hasPrefix(p.data, dataStart, "\n"):
		dataStart++
	default:
		return nil, pos, syntaxErrorf(dataStart, ErrUnterminatedContainer, "stream keyword must be followed by an end-of-line marker")
	}

	if n, ok := dict.GetInt("Length"); ok && n >= 0 && n <= Int(len(p.data)-dataStart) {
		dataEnd := dataStart + int(n)
		if after, ok := p.endstream(dataEnd); ok {
			return &Stream{Dict: dict, Data: p.data[dataStart:dataEnd], LengthTrusted: true}, after, nil
		}
	}

	// The end-of-line that follows the stream keyword may double as the one
	// preceding endstream in an empty stream.
	idx := bytes.Index(p.data[dataStart-1:], endstreamMarker)
	if idx < 0 {
		return nil, pos, syntaxErrorf(start, ErrUnterminatedContainer, "stream is missing endstream")
	}
	dataEnd := dataStart - 1 + idx
	after := dataEnd + len(endstreamMarker)
	if dataEnd < dataStart {
		dataEnd = dataStart
	}
	if dataEnd > dataStart && p.data[dataEnd-1] == '\r' {
		dataEnd--
	}
	if !atBoundary(p.data, after) {
		return nil, pos, syntaxErrorf(after, ErrUnterminatedContainer, "malformed endstream keyword")
	}
	return &Stream{Dict: dict, Data: p.data[dataStart:dataEnd]}, after, nil
}

// endstream reports whether the endstream keyword, optionally preceded by an
// end-of-line marker, is found at pos and returns the offset after it.
func (p *Parser) endstream(pos int) (int, bool) {
	pos = skipEOL(p.data, pos)
	if !hasPrefix(p.data, pos, "endstream") || !atBoundary(p.data, pos+len("endstream")) {
		return 0, false
	}
	return pos + len("endstream"), true
}
