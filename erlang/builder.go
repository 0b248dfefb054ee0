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

// Encoding is the declared character encoding of an atom name
type Encoding uint8

const (
	// Latin1 is used by ATOM_EXT and SMALL_ATOM_EXT
	Latin1 Encoding = iota
	// UTF8 is used by ATOM_UTF8_EXT and SMALL_ATOM_UTF8_EXT
	UTF8
)

func (e Encoding) String() string {
	if e == UTF8 {
		return "utf8"
	}
	return "latin-1"
}

// TermBuilder creates the Go values for atoms, lists with a tail and pids.
// The Decoder calls it and never constructs these values itself, so an
// embedding program can supply its own representation.
type TermBuilder interface {
	MakeAtom(name string, encoding Encoding) interface{}
	MakeList(elements []interface{}, tail interface{}) interface{}
	MakePid(node interface{}, id, serial uint32, creation uint8) interface{}
}

// DefaultBuilder creates the OtpErlang term structs
type DefaultBuilder struct{}

// MakeAtom returns OtpErlangAtom or OtpErlangAtomUTF8
func (DefaultBuilder) MakeAtom(name string, encoding Encoding) interface{} {
	if encoding == UTF8 {
		return OtpErlangAtomUTF8(name)
	}
	return OtpErlangAtom(name)
}

// MakeList returns OtpErlangList
func (DefaultBuilder) MakeList(elements []interface{}, tail interface{}) interface{} {
	return OtpErlangList{Value: elements, Tail: tail}
}

// MakePid returns OtpErlangPid
func (DefaultBuilder) MakePid(node interface{}, id, serial uint32, creation uint8) interface{} {
	return OtpErlangPid{Node: node, ID: id, Serial: serial, Creation: creation}
}
