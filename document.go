package pdfcos

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/tsawler/pdfcos/core"
	"github.com/tsawler/pdfcos/reader"
)

// Document provides a fluent interface for reading a PDF file.
// Each configuration method returns a new Document, leaving the receiver
// unchanged, so configurations can be shared and chained.
type Document struct {
	// Source
	filename string
	data     []byte

	// Parsed on first use
	reader *reader.Reader

	// Configuration
	options Options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Document. The parsed reader is not
// carried over, since the copy may be configured differently.
func (d *Document) clone() *Document {
	return &Document{
		filename: d.filename,
		data:     d.data,
		reader:   d.readerIfFixed(),
		options:  d.options,
		err:      d.err,
	}
}

// readerIfFixed returns the reader of a Document built by FromReader.
func (d *Document) readerIfFixed() *reader.Reader {
	if d.filename == "" && d.data == nil {
		return d.reader
	}
	return nil
}

// ensureReader reads and parses the document if not already done.
func (d *Document) ensureReader() error {
	if d.err != nil {
		return d.err
	}
	if d.reader != nil {
		return nil
	}

	var (
		r   *reader.Reader
		err error
	)
	switch {
	case d.data != nil:
		r, err = reader.NewReader(d.data, d.options.readerOptions()...)
	case d.filename != "":
		r, err = reader.Open(d.filename, d.options.readerOptions()...)
	default:
		return fmt.Errorf("no filename specified")
	}
	if err != nil {
		d.err = fmt.Errorf("failed to open PDF: %w", err)
		return d.err
	}
	d.reader = r
	return nil
}

// ============================================================================
// Configuration Methods (return new Document instance)
// ============================================================================

// MaxDepth bounds the nesting of arrays and dictionaries in any object.
//
// Example:
//
//	catalog, err := pdfcos.Open("doc.pdf").MaxDepth(32).Catalog()
func (d *Document) MaxDepth(n int) *Document {
	newDoc := d.clone()
	newDoc.options.limits.MaxDepth = n
	return newDoc
}

// MaxBytes bounds the number of bytes a single object may span. Zero means
// unbounded.
func (d *Document) MaxBytes(n int) *Document {
	newDoc := d.clone()
	newDoc.options.limits.MaxBytes = n
	return newDoc
}

// Logger sets a logger for progress messages.
//
// Example:
//
//	r, err := pdfcos.Open("doc.pdf").Logger(log.Default()).Reader()
func (d *Document) Logger(l *log.Logger) *Document {
	newDoc := d.clone()
	newDoc.options.logger = l
	return newDoc
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Reader returns the parsed and resolved file.
func (d *Document) Reader() (*reader.Reader, error) {
	if err := d.ensureReader(); err != nil {
		return nil, err
	}
	return d.reader, nil
}

// Version returns the PDF version from the file header, e.g. "1.7".
func (d *Document) Version() (string, error) {
	if err := d.ensureReader(); err != nil {
		return "", err
	}
	return d.reader.Version().String(), nil
}

// Catalog returns the document catalog.
func (d *Document) Catalog() (core.Dict, error) {
	if err := d.ensureReader(); err != nil {
		return nil, err
	}
	return d.reader.Catalog()
}

// Object returns the resolved object with number num.
func (d *Document) Object(num int) (core.Object, error) {
	if err := d.ensureReader(); err != nil {
		return nil, err
	}
	return d.reader.GetObject(num)
}

// Stream returns the decoded payload of stream object num.
func (d *Document) Stream(num int) ([]byte, error) {
	obj, err := d.Object(num)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object %d is not a stream: %s", num, obj.Type())
	}
	data, err := s.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream %d: %w", num, err)
	}
	return data, nil
}

// Dump writes every object in COS syntax, one "num gen obj" block per
// object, followed by the trailer. Objects shared between several places
// are written as references, so the output stays finite for cyclic
// documents.
func (d *Document) Dump(w io.Writer) error {
	if err := d.ensureReader(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, ref := range d.reader.Objects() {
		obj, err := d.reader.Lookup(ref)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%d %d obj\n%s\nendobj\n\n", ref.Number, ref.Generation, d.reader.Format(obj))
	}
	fmt.Fprintf(bw, "trailer\n%s\n", d.reader.Format(d.reader.Trailer()))
	return bw.Flush()
}
