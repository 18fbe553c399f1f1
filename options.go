package pdfcos

import (
	"log"

	"github.com/tsawler/pdfcos/core"
	"github.com/tsawler/pdfcos/reader"
)

// Options holds configuration for reading a document.
type Options struct {
	// Parser limits applied to every object
	limits core.Limits

	// nil means silent
	logger *log.Logger
}

// defaultOptions returns the default reading options.
func defaultOptions() Options {
	return Options{
		limits: core.Limits{MaxDepth: core.DefaultMaxDepth},
	}
}

// readerOptions translates the options for reader.NewReader.
func (o Options) readerOptions() []reader.Option {
	opts := []reader.Option{reader.WithLimits(o.limits)}
	if o.logger != nil {
		opts = append(opts, reader.WithLogger(o.logger))
	}
	return opts
}
