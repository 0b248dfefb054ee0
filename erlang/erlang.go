package erlang

//-*-Mode:Go;coding:utf-8;tab-width:4;c-basic-offset:4-*-
// ex: set ft=go fenc=utf-8 sts=4 ts=4 sw=4 noet nomod:
//
// MIT License
//
// Copyright (c) 2017-2019 Michael Truog <mjtruog at protonmail dot com>
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
	"encoding/binary"
	"fmt"
)

// TagVersion is the byte that starts an External Term Format binary
const TagVersion = 131

const (
	// tag values here http://www.erlang.org/doc/apps/erts/erl_ext_dist.html
	tagSmallIntegerExt  = 97
	tagIntegerExt       = 98
	tagAtomExt          = 100
	tagPidExt           = 103
	tagSmallTupleExt    = 104
	tagLargeTupleExt    = 105
	tagNilExt           = 106
	tagStringExt        = 107
	tagListExt          = 108
	tagSmallAtomExt     = 115
	tagAtomUtf8Ext      = 118
	tagSmallAtomUtf8Ext = 119

	// sequences grow by append past this, so nested containers can not
	// each reserve memory for every remaining byte
	sequenceCapacity = 64
)

// DefaultMaxDepth is the container nesting limit used when Options.MaxDepth is 0
const DefaultMaxDepth = 512

// Erlang term structs listed alphabetically

// OtpErlangAtom represents SMALL_ATOM_EXT or ATOM_EXT
type OtpErlangAtom string

// OtpErlangAtomUTF8 represents SMALL_ATOM_UTF8_EXT or ATOM_UTF8_EXT
type OtpErlangAtomUTF8 string

// OtpErlangList represents LIST_EXT with its tail kept.
// A proper list has the empty list as its Tail.
type OtpErlangList struct {
	Value []interface{}
	Tail  interface{}
}

// ProperList returns a list terminated by the empty list
func ProperList(elements ...interface{}) OtpErlangList {
	if elements == nil {
		elements = make([]interface{}, 0)
	}
	return OtpErlangList{Value: elements, Tail: make([]interface{}, 0)}
}

// Proper is true when the tail is the empty list
func (l OtpErlangList) Proper() bool {
	return isEmptyList(l.Tail)
}

// OtpErlangPid represents PID_EXT
type OtpErlangPid struct {
	Node     interface{}
	ID       uint32
	Serial   uint32
	Creation uint8
}

// OtpErlangTuple represents SMALL_TUPLE_EXT or LARGE_TUPLE_EXT
type OtpErlangTuple []interface{}

func isEmptyList(term interface{}) bool {
	switch value := term.(type) {
	case []interface{}:
		return len(value) == 0
	case OtpErlangList:
		return len(value.Value) == 0 && isEmptyList(value.Tail)
	default:
		return false
	}
}

// core functionality

// Decoder turns External Term Format bytes into Go values.
// A Decoder only reads its fields, so one instance may be shared by
// concurrent goroutines as long as the TermBuilder is safe for that.
type Decoder struct {
	options  Options
	builder  TermBuilder
	maxDepth int
}

// NewDecoder creates a Decoder, a nil builder selects DefaultBuilder
func NewDecoder(options Options, builder TermBuilder) *Decoder {
	if builder == nil {
		builder = DefaultBuilder{}
	}
	maxDepth := options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Decoder{options: options, builder: builder, maxDepth: maxDepth}
}

// Options returns the options the Decoder was created with
func (d *Decoder) Options() Options {
	return d.options
}

// Decode decodes the term whose tag byte is at offset and returns it with
// the offset of the first byte after it. The version byte (131) must
// already be skipped. On failure the returned offset is the input offset.
func (d *Decoder) Decode(data []byte, offset int) (interface{}, int, error) {
	i, term, err := d.binaryToTerms(data, offset, 0)
	if err != nil {
		return nil, offset, err
	}
	return term, i, nil
}

// Decode decodes one term at offset using DefaultBuilder
func Decode(data []byte, offset int, options Options) (interface{}, int, error) {
	return NewDecoder(options, nil).Decode(data, offset)
}

// BinaryToTerm decodes a complete External Term Format binary,
// including the version byte, into Go types
func BinaryToTerm(data []byte, options Options) (interface{}, error) {
	size := len(data)
	if size <= 1 {
		return nil, parseErrorNew("null input")
	}
	if data[0] != TagVersion {
		return nil, parseErrorNew("invalid version")
	}
	term, i, err := Decode(data, 1, options)
	if err != nil {
		return nil, err
	}
	if i != size {
		return nil, parseErrorNew("unparsed data")
	}
	return term, nil
}

// Decode implementation functions

func (d *Decoder) binaryToTerms(data []byte, i, depth int) (int, interface{}, error) {
	if i < 0 || i >= len(data) {
		return i, nil, decodeErrorNew(TruncatedInput, i,
			"no data remaining, must at least have 1 byte more")
	}
	tag := data[i]
	switch tag {
	case tagAtomExt, tagAtomUtf8Ext, tagSmallAtomExt, tagSmallAtomUtf8Ext:
		return d.binaryToAtom(data, i, tag)
	case tagNilExt:
		return i + 1, make([]interface{}, 0), nil
	case tagStringExt:
		if len(data)-i < 3 {
			return i, nil, incompleteData(i, "decoding length for a string")
		}
		j := int(binary.BigEndian.Uint16(data[i+1:]))
		i += 3
		if len(data)-i < j {
			return i, nil, incompleteData(i, "decoding text for a string")
		}
		return i + j, string(data[i : i+j]), nil
	case tagListExt:
		return d.binaryToList(data, i, depth)
	case tagSmallTupleExt:
		if len(data)-i < 2 {
			return i, nil, incompleteData(i, "decoding length for a small tuple")
		}
		return d.binaryToTuple(data, i+2, uint32(data[i+1]), depth)
	case tagLargeTupleExt:
		if len(data)-i < 5 {
			return i, nil, incompleteData(i, "decoding length for a large tuple")
		}
		return d.binaryToTuple(data, i+5, binary.BigEndian.Uint32(data[i+1:]), depth)
	case tagSmallIntegerExt:
		if len(data)-i < 2 {
			return i, nil, incompleteData(i, "decoding a small integer")
		}
		return i + 2, int64(data[i+1]), nil
	case tagIntegerExt:
		if len(data)-i < 5 {
			return i, nil, incompleteData(i, "decoding an integer")
		}
		return i + 5, int64(int32(binary.BigEndian.Uint32(data[i+1:]))), nil
	case tagPidExt:
		return d.binaryToPid(data, i, depth)
	default:
		return i, nil, decodeErrorNew(UnrecognizedTag, i, fmt.Sprintf("unknown tag %d", tag))
	}
}

func (d *Decoder) binaryToTermSequence(data []byte, i int, length uint32, depth int, name string) (int, []interface{}, error) {
	if depth >= d.maxDepth {
		return i, nil, decodeErrorNew(TooDeeplyNested, i,
			fmt.Sprintf("nesting depth exceeds %d while decoding %s", d.maxDepth, name))
	}
	// every element takes at least one byte
	if uint64(length) > uint64(len(data)-i) {
		return i, nil, incompleteData(i,
			fmt.Sprintf("decoding elements for %s (%d expected)", name, length))
	}
	sequence := make([]interface{}, 0, min(length, sequenceCapacity))
	for index := uint32(0); index < length; index++ {
		var element interface{}
		var err error
		i, element, err = d.binaryToTerms(data, i, depth+1)
		if err != nil {
			return i, nil, err
		}
		sequence = append(sequence, element)
	}
	return i, sequence, nil
}

// (Decode Erlang term composite type functions)

func (d *Decoder) binaryToTuple(data []byte, i int, arity uint32, depth int) (int, interface{}, error) {
	i, elements, err := d.binaryToTermSequence(data, i, arity, depth, "a tuple")
	if err != nil {
		return i, nil, err
	}
	return i, OtpErlangTuple(elements), nil
}

func (d *Decoder) binaryToList(data []byte, i, depth int) (int, interface{}, error) {
	if len(data)-i < 5 {
		return i, nil, incompleteData(i, "decoding length for a list")
	}
	length := binary.BigEndian.Uint32(data[i+1:])
	i, elements, err := d.binaryToTermSequence(data, i+5, length, depth, "a list")
	if err != nil {
		return i, nil, err
	}
	// the tail is always encoded, NIL_EXT for a proper list
	var tail interface{}
	i, tail, err = d.binaryToTerms(data, i, depth+1)
	if err != nil {
		return i, nil, err
	}
	if d.options.SimpleLists {
		return i, elements, nil
	}
	return i, d.builder.MakeList(elements, tail), nil
}

func (d *Decoder) binaryToPid(data []byte, i, depth int) (int, interface{}, error) {
	if depth >= d.maxDepth {
		return i, nil, decodeErrorNew(TooDeeplyNested, i,
			fmt.Sprintf("nesting depth exceeds %d while decoding a pid", d.maxDepth))
	}
	i, node, err := d.binaryToTerms(data, i+1, depth+1)
	if err != nil {
		return i, nil, err
	}
	if len(data)-i < 9 {
		return i, nil, incompleteData(i, "decoding id, serial and creation for a pid")
	}
	id := binary.BigEndian.Uint32(data[i:])
	serial := binary.BigEndian.Uint32(data[i+4:])
	creation := data[i+8]
	return i + 9, d.builder.MakePid(node, id, serial, creation), nil
}

// (Decode Erlang term primitive type functions)

func (d *Decoder) binaryToAtom(data []byte, i int, tag byte) (int, interface{}, error) {
	var j, header int
	switch tag {
	case tagAtomExt, tagAtomUtf8Ext:
		if len(data)-i < 3 {
			return i, nil, incompleteData(i, "decoding length for an atom name")
		}
		j = int(binary.BigEndian.Uint16(data[i+1:]))
		header = 3
		if len(data)-i-header < j {
			return i, nil, incompleteData(i, "decoding text for an atom")
		}
	default:
		if len(data)-i < 2 {
			return i, nil, incompleteData(i, "decoding length for a small-atom name")
		}
		j = int(data[i+1])
		header = 2
		if len(data)-i-header < j {
			return i, nil, incompleteData(i, "decoding text for a small-atom")
		}
	}
	name := string(data[i+header : i+header+j])
	encoding := Latin1
	if tag == tagAtomUtf8Ext || tag == tagSmallAtomUtf8Ext {
		encoding = UTF8
	}
	return i + header + j, d.strToAtom(name, encoding), nil
}

// the literal names win over AtomsAsStrings
func (d *Decoder) strToAtom(name string, encoding Encoding) interface{} {
	switch name {
	case "true":
		return true
	case "false":
		return false
	case "undefined":
		return nil
	}
	if d.options.AtomsAsStrings {
		return name
	}
	return d.builder.MakeAtom(name, encoding)
}
