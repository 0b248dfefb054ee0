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
	"math"
)

// TermToBinary encodes Go types into the Erlang External Term Format.
// Only the tags Decode understands are produced, so integers must fit
// in 32 bits. Text longer than STRING_EXT allows is written as a list
// of small integers, the way term_to_binary writes it.
func TermToBinary(term interface{}) ([]byte, error) {
	b, err := appendTerm([]byte{TagVersion}, term)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func appendTerm(b []byte, termI interface{}) ([]byte, error) {
	switch term := termI.(type) {
	case nil:
		return appendAtom(b, "undefined", Latin1)
	case bool:
		if term {
			return appendAtom(b, "true", Latin1)
		}
		return appendAtom(b, "false", Latin1)
	case OtpErlangAtom:
		return appendAtom(b, string(term), Latin1)
	case OtpErlangAtomUTF8:
		return appendAtom(b, string(term), UTF8)
	case *Symbol:
		return appendAtom(b, term.Name, term.Encoding)
	case string:
		return appendText(b, term)
	case OtpErlangTuple:
		return appendTuple(b, term)
	case []interface{}:
		return appendList(b, term, make([]interface{}, 0))
	case OtpErlangList:
		return appendList(b, term.Value, term.Tail)
	case OtpErlangPid:
		return appendPid(b, term)
	}
	value, ok, err := integerValue(termI)
	if err != nil {
		return b, err
	}
	if !ok {
		return b, outputErrorNew("unknown go type")
	}
	return appendInteger(b, value)
}

// integerValue widens every Go integer kind, ok is false for other types
func integerValue(termI interface{}) (int64, bool, error) {
	switch term := termI.(type) {
	case int:
		return int64(term), true, nil
	case int8:
		return int64(term), true, nil
	case int16:
		return int64(term), true, nil
	case int32:
		return int64(term), true, nil
	case int64:
		return term, true, nil
	case uint8:
		return int64(term), true, nil
	case uint16:
		return int64(term), true, nil
	case uint32:
		return int64(term), true, nil
	case uint64:
		if term > math.MaxInt32 {
			return 0, true, outputErrorNew("integer out of range")
		}
		return int64(term), true, nil
	default:
		return 0, false, nil
	}
}

func appendInteger(b []byte, value int64) ([]byte, error) {
	switch {
	case value >= 0 && value <= math.MaxUint8:
		return append(b, tagSmallIntegerExt, byte(value)), nil
	case value >= math.MinInt32 && value <= math.MaxInt32:
		b = append(b, tagIntegerExt)
		return binary.BigEndian.AppendUint32(b, uint32(int32(value))), nil
	default:
		return b, outputErrorNew("integer out of range")
	}
}

func appendAtom(b []byte, name string, encoding Encoding) ([]byte, error) {
	smallTag, tag := byte(tagSmallAtomExt), byte(tagAtomExt)
	if encoding == UTF8 {
		smallTag, tag = tagSmallAtomUtf8Ext, tagAtomUtf8Ext
	}
	switch length := len(name); {
	case length <= math.MaxUint8:
		b = append(b, smallTag, byte(length))
	case length <= math.MaxUint16:
		b = append(b, tag)
		b = binary.BigEndian.AppendUint16(b, uint16(length))
	default:
		return b, outputErrorNew("atom name too long")
	}
	return append(b, name...), nil
}

func appendText(b []byte, text string) ([]byte, error) {
	length := len(text)
	switch {
	case length == 0:
		return append(b, tagNilExt), nil
	case length <= math.MaxUint16:
		b = append(b, tagStringExt)
		b = binary.BigEndian.AppendUint16(b, uint16(length))
		return append(b, text...), nil
	case uint64(length) > math.MaxUint32:
		return b, outputErrorNew("text too long")
	}
	b = append(b, tagListExt)
	b = binary.BigEndian.AppendUint32(b, uint32(length))
	for i := 0; i < length; i++ {
		b = append(b, tagSmallIntegerExt, text[i])
	}
	return append(b, tagNilExt), nil
}

func appendTuple(b []byte, elements []interface{}) ([]byte, error) {
	arity := len(elements)
	switch {
	case arity <= math.MaxUint8:
		b = append(b, tagSmallTupleExt, byte(arity))
	case uint64(arity) <= math.MaxUint32:
		b = append(b, tagLargeTupleExt)
		b = binary.BigEndian.AppendUint32(b, uint32(arity))
	default:
		return b, outputErrorNew("tuple too long")
	}
	return appendElements(b, elements)
}

// a nil tail is the undefined atom, not the empty list
func appendList(b []byte, elements []interface{}, tail interface{}) ([]byte, error) {
	if len(elements) == 0 && isEmptyList(tail) {
		return append(b, tagNilExt), nil
	}
	if uint64(len(elements)) > math.MaxUint32 {
		return b, outputErrorNew("list too long")
	}
	b = append(b, tagListExt)
	b = binary.BigEndian.AppendUint32(b, uint32(len(elements)))
	b, err := appendElements(b, elements)
	if err != nil {
		return b, err
	}
	return appendTerm(b, tail)
}

func appendElements(b []byte, elements []interface{}) ([]byte, error) {
	var err error
	for _, element := range elements {
		b, err = appendTerm(b, element)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

func appendPid(b []byte, pid OtpErlangPid) ([]byte, error) {
	b, err := appendTerm(append(b, tagPidExt), pid.Node)
	if err != nil {
		return b, err
	}
	b = binary.BigEndian.AppendUint32(b, pid.ID)
	b = binary.BigEndian.AppendUint32(b, pid.Serial)
	return append(b, pid.Creation), nil
}
