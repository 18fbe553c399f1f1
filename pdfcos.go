// Package pdfcos provides a fluent API for reading the object structure of
// PDF files.
//
// Basic usage:
//
//	catalog, err := pdfcos.Open("document.pdf").Catalog()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	data, err := pdfcos.Open("report.pdf").
//	    MaxDepth(64).
//	    Logger(log.Default()).
//	    Stream(4)
//
// For single values, ParseObject and Resolve work without a file. The
// lower-level core, resolver and reader packages are also available.
package pdfcos

import (
	"github.com/tsawler/pdfcos/core"
	"github.com/tsawler/pdfcos/reader"
	"github.com/tsawler/pdfcos/resolver"
)

// Open returns a Document for the PDF file filename. The file is read by the
// first terminal operation.
//
// Example:
//
//	version, err := pdfcos.Open("document.pdf").Version()
func Open(filename string) *Document {
	return &Document{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Document for a PDF file already held in memory.
func FromBytes(data []byte) *Document {
	return &Document{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader creates a Document from an already parsed reader.Reader.
// Configuration methods have no effect on it.
func FromReader(r *reader.Reader) *Document {
	return &Document{
		reader:  r,
		options: defaultOptions(),
	}
}

// ParseObject decodes data, which must hold exactly one COS value. References
// in it are left as core.IndirectRef placeholders.
//
// Example:
//
//	obj, err := pdfcos.ParseObject([]byte("<< /Type /Page /Parent 2 0 R >>"))
func ParseObject(data []byte, opts ...core.ParseOption) (core.Object, error) {
	return core.ParseObject(data, opts...)
}

// Resolve replaces the references in an object table with the objects they
// name. See resolver.Resolve.
func Resolve(table map[core.IndirectRef]core.Object, opts ...resolver.Option) (*resolver.Graph, error) {
	return resolver.Resolve(table, opts...)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	catalog := pdfcos.Must(pdfcos.Open("document.pdf").Catalog())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
