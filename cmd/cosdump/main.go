// Command cosdump prints the objects of a PDF file in COS syntax.
//
// Usage:
//
//	cosdump [-v] [-c config.yaml] [-depth n] [-bytes n] [-html | -obj n [-decode]] file.pdf
//
// Without -obj, every object is printed followed by the trailer. With -obj,
// only that object is printed; -decode writes the decoded payload of a
// stream object instead. -html writes every object as a page of linked
// sections.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tsawler/pdfcos"
)

var (
	dashv      bool
	dashh      bool
	dashdecode bool
	dashhtml   bool
	dashc      string
	dashdepth  int
	dashbytes  int
	dashobj    int
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
	flag.BoolVar(&dashdecode, "decode", false, "write the decoded payload of the stream selected with -obj")
	flag.BoolVar(&dashhtml, "html", false, "write an HTML page with links between objects")
	flag.StringVar(&dashc, "c", "", "YAML configuration file")
	flag.IntVar(&dashdepth, "depth", 0, "maximum container nesting (default from config, or 256)")
	flag.IntVar(&dashbytes, "bytes", 0, "maximum bytes spanned by one object, 0 for unbounded")
	flag.IntVar(&dashobj, "obj", -1, "print only this object number")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cfg *config, set map[string]bool) {
	if set["depth"] {
		cfg.MaxDepth = dashdepth
	}
	if set["bytes"] {
		cfg.MaxBytes = dashbytes
	}
	if set["decode"] {
		cfg.DecodeStreams = dashdecode
	}
	if set["v"] {
		cfg.Verbose = dashv
	}
	if set["html"] {
		cfg.HTML = dashhtml
	}
}

func document(path string, cfg config) *pdfcos.Document {
	doc := pdfcos.Open(path).MaxBytes(cfg.MaxBytes)
	if cfg.MaxDepth > 0 {
		doc = doc.MaxDepth(cfg.MaxDepth)
	}
	if cfg.Verbose {
		doc = doc.Logger(log.New(os.Stderr, "cosdump: ", 0))
	}
	return doc
}

// run writes the requested output for doc to w. obj < 0 selects every
// object.
func run(w io.Writer, doc *pdfcos.Document, cfg config, obj int) error {
	if cfg.HTML {
		r, err := doc.Reader()
		if err != nil {
			return err
		}
		return writeHTML(w, r)
	}
	if obj < 0 {
		version, err := doc.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%%PDF-%s\n\n", version)
		return doc.Dump(w)
	}
	if cfg.DecodeStreams {
		data, err := doc.Stream(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	o, err := doc.Object(obj)
	if err != nil {
		return err
	}
	r, err := doc.Reader()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, r.Format(o))
	return err
}

func main() {
	flag.Parse()
	if dashh || flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.pdf\n", os.Args[0])
		flag.PrintDefaults()
		if dashh {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg := defaultConfig()
	if dashc != "" {
		var err error
		cfg, err = loadConfig(dashc)
		if err != nil {
			exitf("loading config %s: %s\n", dashc, err)
		}
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(&cfg, set)

	o := bufio.NewWriter(os.Stdout)
	if err := run(o, document(flag.Arg(0), cfg), cfg, dashobj); err != nil {
		exitf("%s: %s\n", flag.Arg(0), err)
	}
	if err := o.Flush(); err != nil {
		exitf("%s\n", err)
	}
}
