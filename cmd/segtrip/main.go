package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/segtrip"
	"github.com/npillmayer/segtrip/codec"
	"github.com/npillmayer/segtrip/engine"
	"github.com/npillmayer/segtrip/format"
	"github.com/npillmayer/segtrip/pipeline"
)

const helpBanner = `segtrip — stream text through Unicode segmentation.

Reads a byte stream, segments it into grapheme clusters, words, sentences
or line-break opportunities, and writes it back out with the boundaries
marked by a delimiter.

Usage: segtrip [options] [file|-]
`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string = "dev"

var (
	// Flags
	mode     = flag.String("mode", "word", "Segmentation mode: grapheme, word, sentence or line")
	enc      = flag.String("enc", "", "Input encoding (utf-8, utf-16, utf-16be, utf-16le, us-ascii, latin1); default is auto-detection")
	delim    = flag.String("delim", "|", "Delimiter text to substitute for segment boundaries")
	ascii    = flag.Bool("a", false, "List scalar values as text instead of re-encoding")
	tracelvl = flag.String("t", "Error", "Trace level (Debug|Info|Error)")
	version  = flag.Bool("v", false, "Print version and exit")
)

func main() {
	log.SetFlags(0)
	prog := filepath.Base(os.Args[0])

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpBanner)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Printf("%s %s\n", prog, Version)
		return
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(traceLevel(*tracelvl))

	segMode, err := segtrip.ParseMode(*mode)
	if err != nil {
		log.Fatalf("%s: %v", prog, err)
	}
	declared, err := codec.Parse(*enc)
	if err != nil {
		log.Fatalf("%s: %v", prog, err)
	}

	source := pipeName
	if flag.NArg() > 0 {
		source = flag.Arg(0)
	}
	in := os.Stdin
	if source != pipeName {
		in, err = os.Open(source)
		if err != nil {
			log.Fatalf("%s: %v", prog, err)
		}
		defer in.Close()
	}

	if err := run(prog, source, in, segMode, declared); err != nil {
		log.Fatalf("%s: %v", prog, err)
	}
}

func traceLevel(name string) tracing.TraceLevel {
	switch strings.ToLower(name) {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

// run wires decoder, engine and formatter together and pumps the input
// through. Malformed bytes are diagnosed on stderr and never fail the
// run; only I/O errors do.
func run(prog, source string, in *os.File, mode segtrip.Mode, declared codec.Encoding) error {
	dec, err := codec.NewDecoder(in, declared)
	if err != nil {
		return err
	}
	eng, err := engine.New(mode)
	if err != nil {
		return err
	}
	var out format.Formatter
	if *ascii {
		out = format.NewScalarList(os.Stdout, *delim)
	} else {
		enc, err := codec.NewEncoder(os.Stdout, codec.ResolveOutput(dec.Encoding()))
		if err != nil {
			return err
		}
		out = format.NewReencoder(enc, *delim)
	}
	rep := &pipeline.Reporter{Program: prog, Source: source, W: os.Stderr}
	return pipeline.NewDriver(dec, eng, out, rep).Run()
}
