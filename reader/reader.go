package reader

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/tsawler/pdfcos/core"
	"github.com/tsawler/pdfcos/resolver"
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// headerSearchLimit bounds how far into the file the header may start.
const headerSearchLimit = 1024

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// xrefStreamKeys are the entries of a cross-reference stream dictionary that
// describe the stream itself rather than the document.
var xrefStreamKeys = map[string]bool{
	"Type": true, "W": true, "Index": true, "Length": true,
	"Filter": true, "DecodeParms": true,
}

// Option configures a Reader
type Option func(*options)

type options struct {
	limits core.Limits
	logger *log.Logger
}

// WithLimits sets the parser limits applied to every object.
func WithLimits(l core.Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithLogger sets the logger that receives progress messages. By default
// nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Reader holds a completely parsed and resolved PDF file.
type Reader struct {
	version  PDFVersion
	graph    *resolver.Graph
	trailer  core.Dict
	xref     [][]byte
	fileSize int64
	logger   *log.Logger
}

// Open reads and parses the PDF file at filename.
func Open(filename string, opts ...Option) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewReader(data, opts...)
}

// NewReader parses a complete PDF file held in data. Every object is parsed
// first and the references between them are resolved afterwards; the first
// error in either phase is returned and no Reader is built.
//
// The returned Reader keeps references into data, which must not be
// modified afterwards.
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Reader{
		fileSize: int64(len(data)),
		logger:   o.logger,
	}

	version, bodyStart, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	r.version = version

	seg, err := r.segment(data, bodyStart, o.limits)
	if err != nil {
		return nil, err
	}
	r.xref = seg.xref

	trailer := seg.trailer
	if len(trailer) == 0 {
		trailer = seg.xrefStream
	}
	if len(trailer) == 0 {
		return nil, fmt.Errorf("missing trailer dictionary")
	}

	r.graph, err = resolver.Resolve(seg.objects, resolver.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve objects: %w", err)
	}
	if _, err := r.graph.Resolve(trailer); err != nil {
		return nil, fmt.Errorf("failed to resolve trailer: %w", err)
	}
	r.trailer = trailer

	r.logger.Printf("PDF %s: %d objects, %d xref sections", r.version, r.graph.Len(), len(r.xref))
	return r, nil
}

// parseHeader parses the PDF header (%PDF-x.y) and returns the offset of
// the line after it.
func parseHeader(data []byte) (PDFVersion, int, error) {
	search := data
	if len(search) > headerSearchLimit {
		search = search[:headerSearchLimit]
	}
	start := bytes.Index(search, []byte("%PDF-"))
	if start < 0 {
		return PDFVersion{}, 0, fmt.Errorf("invalid PDF header: %%PDF- not found")
	}
	versionStart := start + len("%PDF-")
	end := versionStart
	for end < len(data) && data[end] != '\r' && data[end] != '\n' {
		end++
	}

	versionStr := string(data[versionStart:end])
	matches := versionPattern.FindStringSubmatch(versionStr)
	if len(matches) < 3 {
		return PDFVersion{}, 0, fmt.Errorf("invalid version format: %q", versionStr)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return PDFVersion{}, 0, fmt.Errorf("invalid major version %q: %w", matches[1], err)
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return PDFVersion{}, 0, fmt.Errorf("invalid minor version %q: %w", matches[2], err)
	}

	return PDFVersion{Major: major, Minor: minor}, end, nil
}

// segments holds the pieces of a file found by segment.
type segments struct {
	objects map[core.IndirectRef]core.Object

	// trailer merges every trailer dictionary, later sections overriding
	// earlier ones.
	trailer core.Dict

	// xrefStream holds the document entries of the last cross-reference
	// stream, used when the file has no trailer keyword.
	xrefStream core.Dict

	xref [][]byte
}

// segment splits the file body into indirect objects, cross-reference
// sections and trailers. An object defined again by a later incremental
// update replaces the earlier definition.
func (r *Reader) segment(data []byte, pos int, limits core.Limits) (*segments, error) {
	seg := &segments{
		objects: make(map[core.IndirectRef]core.Object),
		trailer: make(core.Dict),
	}
	p := core.NewParser(data, core.WithLimits(limits))
	p.Seek(pos)

	for !p.AtEOF() {
		switch p.PeekKeyword() {
		case "xref":
			start := p.Pos()
			end := bytes.Index(data[start:], []byte("trailer"))
			if end < 0 {
				end = len(data)
			} else {
				end += start
			}
			seg.xref = append(seg.xref, bytes.TrimSpace(data[start:end]))
			p.Seek(end)

		case "trailer":
			if err := p.ExpectKeyword("trailer"); err != nil {
				return nil, err
			}
			obj, err := p.ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer: %w", err)
			}
			dict, ok := obj.(core.Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is not a dictionary: %T", obj)
			}
			for k, v := range dict {
				seg.trailer[k] = v
			}

		case "startxref":
			if err := p.ExpectKeyword("startxref"); err != nil {
				return nil, err
			}
			if _, err := p.ParseObject(); err != nil {
				return nil, fmt.Errorf("failed to parse startxref offset: %w", err)
			}

		default:
			p.SkipSpace()
			offset := p.Pos()
			obj, err := p.ParseIndirectObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse object at offset %d: %w", offset, err)
			}
			if _, dup := seg.objects[obj.Ref]; dup {
				r.logger.Printf("object %s redefined at offset %d", obj.Ref, offset)
			}
			seg.objects[obj.Ref] = obj.Object

			if s, ok := obj.Object.(*core.Stream); ok {
				if !s.LengthTrusted {
					r.logger.Printf("object %s: stream payload delimited by endstream", obj.Ref)
				}
				if t, _ := s.Dict.GetName("Type"); t == "XRef" {
					seg.xrefStream = documentEntries(s.Dict)
				}
			}
		}
	}
	return seg, nil
}

// documentEntries copies the entries of a cross-reference stream dictionary
// that belong in a trailer.
func documentEntries(d core.Dict) core.Dict {
	out := make(core.Dict, len(d))
	for k, v := range d {
		if xrefStreamKeys[k] {
			continue
		}
		if _, ok := v.(core.Container); ok && k != "ID" {
			continue
		}
		out[k] = v
	}
	return out
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary with its references resolved.
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// Graph returns the resolved object table.
func (r *Reader) Graph() *resolver.Graph {
	return r.graph
}

// Lookup returns the resolved value of the object ref.
func (r *Reader) Lookup(ref core.IndirectRef) (core.Object, error) {
	return r.graph.Lookup(ref)
}

// GetObject returns the object with number objNum, choosing the highest
// generation when several are defined.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	found := false
	var best core.IndirectRef
	for _, ref := range r.graph.Refs() {
		if ref.Number == objNum {
			best, found = ref, true
		}
	}
	if !found {
		return nil, fmt.Errorf("object %d not found", objNum)
	}
	return r.graph.Lookup(best)
}

// Objects returns the identities of all objects in ascending order.
func (r *Reader) Objects() []core.IndirectRef {
	return r.graph.Refs()
}

// Catalog returns the document catalog (root object)
func (r *Reader) Catalog() (core.Dict, error) {
	root := r.trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}
	catalog, ok := root.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", root)
	}
	return catalog, nil
}

// Info returns the document info dictionary (metadata), or nil when the
// file has none.
func (r *Reader) Info() (core.Dict, error) {
	info := r.trailer.Get("Info")
	if info == nil {
		return nil, nil
	}
	dict, ok := info.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("info is not a dictionary: %T", info)
	}
	return dict, nil
}

// NumObjects returns the Size entry of the trailer.
func (r *Reader) NumObjects() int {
	size, ok := r.trailer.GetInt("Size")
	if !ok {
		return 0
	}
	return int(size)
}

// XRefSections returns the raw bytes of every cross-reference table, in
// file order. They are not interpreted.
func (r *Reader) XRefSections() [][]byte {
	return r.xref
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return r.fileSize
}

// Format renders obj in COS syntax, writing nested objects as references.
func (r *Reader) Format(obj core.Object) string {
	return r.graph.Format(obj)
}
