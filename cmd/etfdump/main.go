package main

//-*-Mode:Go;coding:utf-8;tab-width:4;c-basic-offset:4-*-
// ex: set ft=go fenc=utf-8 sts=4 ts=4 sw=4 noet nomod:
//
// MIT License
//
// Copyright (c) 2026 The erlang_go Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a
// copy of this software and associated documentation files (the "Software"),
// to deal in the Software without restriction, including without limitation
// the rights to use, copy, modify, merge, publish, distribute, sublicense,
// and/or sell copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.
//


import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pyrlang/erlang_go/erlang"
	"go.uber.org/zap"
)

func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "etfdump: %s\n", err)
	os.Exit(1)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return config.Build()
}

// run decodes every term in data back to back, each term may
// be preceded by the version byte
func run(data []byte, format string, options erlang.Options, out io.Writer, logger *zap.Logger) error {
	render, builder, err := newRenderer(format, out)
	if err != nil {
		return err
	}
	decoder := erlang.NewDecoder(options, builder)
	count := 0
	for i := 0; i < len(data); {
		if data[i] == erlang.TagVersion {
			i++
		}
		term, next, err := decoder.Decode(data, i)
		if err != nil {
			logger.Error("decode failed",
				zap.Int("offset", i),
				zap.Int("terms", count),
				zap.Error(err))
			return fmt.Errorf("offset %d: %w", i, err)
		}
		logger.Debug("decoded term",
			zap.Int("offset", i),
			zap.Int("size", next-i))
		err = render.Render(term)
		if err != nil {
			return err
		}
		count++
		i = next
	}
	logger.Info("done", zap.Int("terms", count), zap.Int("bytes", len(data)))
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	format := flag.String("format", "text", "output format: text, json, yaml or msgpack")
	atomsAsStrings := flag.Bool("atoms-as-strings", false, "decode atoms as strings")
	simpleLists := flag.Bool("simple-lists", false, "decode lists as plain lists, dropping the tail")
	maxDepth := flag.Int("max-depth", 0, "container nesting limit, 0 selects the default")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		errorExit(err)
	}
	// flags given explicitly override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "atoms-as-strings":
			cfg.Decoder["atoms_as_strings"] = *atomsAsStrings
		case "simple-lists":
			cfg.Decoder["simple_lists"] = *simpleLists
		case "max-depth":
			cfg.Decoder["max_depth"] = *maxDepth
		case "v":
			cfg.Verbose = *verbose
		}
	})
	err = cfg.validate()
	if err != nil {
		errorExit(err)
	}
	options, err := cfg.options()
	if err != nil {
		errorExit(err)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		errorExit(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var data []byte
	if flag.NArg() == 1 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		errorExit(err)
	}
	err = run(data, cfg.Format, options, os.Stdout, logger)
	if err != nil {
		_ = logger.Sync()
		errorExit(err)
	}
}
