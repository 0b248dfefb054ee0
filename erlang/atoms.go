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
	"github.com/puzpuzpuz/xsync/v3"
)

// Symbol is an interned atom. Symbols from one AtomTable with the same
// name and encoding are the same pointer.
type Symbol struct {
	Name     string
	Encoding Encoding
}

func (s *Symbol) String() string {
	return s.Name
}

type symbolKey struct {
	name     string
	encoding Encoding
}

// AtomTable is a TermBuilder that interns atoms as *Symbol.
// It is safe for use by concurrent decoders.
type AtomTable struct {
	DefaultBuilder
	symbols *xsync.MapOf[symbolKey, *Symbol]
}

// NewAtomTable creates an empty AtomTable
func NewAtomTable() *AtomTable {
	return &AtomTable{symbols: xsync.NewMapOf[symbolKey, *Symbol]()}
}

// MakeAtom returns the interned *Symbol
func (t *AtomTable) MakeAtom(name string, encoding Encoding) interface{} {
	return t.Intern(name, encoding)
}

// Intern returns the canonical *Symbol for name and encoding
func (t *AtomTable) Intern(name string, encoding Encoding) *Symbol {
	symbol, _ := t.symbols.LoadOrCompute(symbolKey{name, encoding}, func() *Symbol {
		return &Symbol{Name: name, Encoding: encoding}
	})
	return symbol
}

// Len returns the number of interned atoms
func (t *AtomTable) Len() int {
	return t.symbols.Size()
}
