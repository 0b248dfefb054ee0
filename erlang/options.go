package erlang

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
	"github.com/spf13/cast"
)

// Options select how decoded terms are represented.
// A decode call only reads Options, so one value may be shared freely.
type Options struct {
	// SimpleBinaries is reserved and not consulted by the decoder
	SimpleBinaries bool

	// AtomsAsStrings returns atoms as string instead of calling
	// TermBuilder.MakeAtom (true, false and undefined are unaffected)
	AtomsAsStrings bool

	// SimpleLists returns LIST_EXT as []interface{} and drops the tail
	SimpleLists bool

	// MaxDepth limits container nesting, 0 selects DefaultMaxDepth
	MaxDepth int
}

// ParseOptions reads Options from a loosely typed map, as provided by
// configuration files or embedding languages.
// Recognized keys are simple_binaries, atoms_as_strings, simple_lists
// and max_depth. Other keys are ignored.
func ParseOptions(values map[string]interface{}) (Options, error) {
	var options Options
	var err error
	if value, ok := values["simple_binaries"]; ok {
		options.SimpleBinaries, err = cast.ToBoolE(value)
		if err != nil {
			return Options{}, inputErrorNew("simple_binaries: " + err.Error())
		}
	}
	if value, ok := values["atoms_as_strings"]; ok {
		options.AtomsAsStrings, err = cast.ToBoolE(value)
		if err != nil {
			return Options{}, inputErrorNew("atoms_as_strings: " + err.Error())
		}
	}
	if value, ok := values["simple_lists"]; ok {
		options.SimpleLists, err = cast.ToBoolE(value)
		if err != nil {
			return Options{}, inputErrorNew("simple_lists: " + err.Error())
		}
	}
	if value, ok := values["max_depth"]; ok {
		options.MaxDepth, err = cast.ToIntE(value)
		if err != nil {
			return Options{}, inputErrorNew("max_depth: " + err.Error())
		}
		if options.MaxDepth < 0 {
			return Options{}, inputErrorNew("max_depth: must not be negative")
		}
	}
	return options, nil
}
