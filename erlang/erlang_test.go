package erlang

//-*-Mode:Go;coding:utf-8;tab-width:4;c-basic-offset:4-*-
// ex: set ft=go fenc=utf-8 sts=4 ts=4 sw=4 noet nomod:
//
// MIT License
//
// Copyright (c) 2017-2019 Michael Truog <mjtruog at protonmail dot com>
// Copyright (c) 2009-2013 Dmitry Vasiliev <dima@hlabs.org>
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
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pidBinary = "gd\x00\x0dnonode@nohost\x00\x00\x00\x3b\x00\x00\x00\x00\x00"

func decode(t *testing.T, b string, options Options) interface{} {
	t.Helper()
	term, i, err := Decode([]byte(b), 0, options)
	require.NoError(t, err)
	require.Equal(t, len(b), i, "decode must consume the whole input")
	return term
}

func assertDecodeError(t *testing.T, kind error, expectedError, b string) {
	t.Helper()
	term, i, err := Decode([]byte(b), 0, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, expectedError, err.Error())
	assert.Nil(t, term)
	assert.Equal(t, 0, i)
}

type recordingBuilder struct {
	atoms []string
	lists int
	pids  int
}

func (b *recordingBuilder) MakeAtom(name string, encoding Encoding) interface{} {
	b.atoms = append(b.atoms, encoding.String()+":"+name)
	return DefaultBuilder{}.MakeAtom(name, encoding)
}

func (b *recordingBuilder) MakeList(elements []interface{}, tail interface{}) interface{} {
	b.lists++
	return DefaultBuilder{}.MakeList(elements, tail)
}

func (b *recordingBuilder) MakePid(node interface{}, id, serial uint32, creation uint8) interface{} {
	b.pids++
	return DefaultBuilder{}.MakePid(node, id, serial, creation)
}

func TestDecode(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "no data remaining, must at least have 1 byte more", "")
	assertDecodeError(t, ErrUnrecognizedTag, "unknown tag 122", "z")
	assertDecodeError(t, ErrUnrecognizedTag, "unknown tag 131", "\x83a\x01")
	// BINARY_EXT is not part of the supported tag table
	assertDecodeError(t, ErrUnrecognizedTag, "unknown tag 109", "m\x00\x00\x00\x00")

	_, i, err := Decode([]byte("a\x01"), 2, Options{})
	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Equal(t, 2, i)
	_, _, err = Decode([]byte("a\x01"), -1, Options{})
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeAtom(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for an atom name", "d")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for an atom name", "d\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for an atom", "d\x00\x01")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for an atom", "d\x00\x05")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a small-atom name", "s")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for a small-atom", "s\x01")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for an atom", "v\x00\x04tes")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for a small-atom", "w\x04tes")
	assert.Equal(t, OtpErlangAtom(""), decode(t, "d\x00\x00", Options{}))
	assert.Equal(t, OtpErlangAtom(""), decode(t, "s\x00", Options{}))
	assert.Equal(t, OtpErlangAtom("test"), decode(t, "d\x00\x04test", Options{}))
	assert.Equal(t, OtpErlangAtom("test"), decode(t, "s\x04test", Options{}))
	assert.Equal(t, OtpErlangAtomUTF8("test"), decode(t, "v\x00\x04test", Options{}))
	assert.Equal(t, OtpErlangAtomUTF8("\xc3\xbf"), decode(t, "w\x02\xc3\xbf", Options{}))
	assert.Equal(t, OtpErlangAtom(strings.Repeat("X", 256)), decode(t, "d\x01\x00"+strings.Repeat("X", 256), Options{}))
}

func TestDecodePredefinedAtom(t *testing.T) {
	for _, options := range []Options{{}, {AtomsAsStrings: true}} {
		assert.Equal(t, true, decode(t, "s\x04true", options))
		assert.Equal(t, true, decode(t, "w\x04true", options))
		assert.Equal(t, false, decode(t, "s\x05false", options))
		assert.Equal(t, false, decode(t, "v\x00\x05false", options))
		assert.Nil(t, decode(t, "d\x00\x09undefined", options))
	}
}

func TestDecodeAtomsAsStrings(t *testing.T) {
	options := Options{AtomsAsStrings: true}
	assert.Equal(t, "test", decode(t, "s\x04test", options))
	assert.Equal(t, "test", decode(t, "v\x00\x04test", options))
	assert.Equal(t, OtpErlangTuple{"ok", int64(1)}, decode(t, "h\x02s\x02oka\x01", options))
}

func TestDecodeBuilder(t *testing.T) {
	builder := &recordingBuilder{}
	decoder := NewDecoder(Options{}, builder)
	data := []byte("h\x04s\x04testw\x04utf8s\x04truel\x00\x00\x00\x01" + pidBinary + "j")
	term, i, err := decoder.Decode(data, 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), i)
	assert.Equal(t, []string{"latin-1:test", "utf8:utf8", "latin-1:nonode@nohost"}, builder.atoms)
	assert.Equal(t, 1, builder.lists)
	assert.Equal(t, 1, builder.pids)
	tuple := term.(OtpErlangTuple)
	assert.Equal(t, true, tuple[2])

	builder = &recordingBuilder{}
	decoder = NewDecoder(Options{AtomsAsStrings: true, SimpleLists: true}, builder)
	_, _, err = decoder.Decode(data, 0)
	require.NoError(t, err)
	assert.Empty(t, builder.atoms)
	assert.Zero(t, builder.lists)
	assert.Equal(t, 1, builder.pids)
}

func TestDecodeEmptyList(t *testing.T) {
	term, i, err := Decode([]byte("j"), 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, []interface{}{}, term)
	assert.Equal(t, []interface{}{}, decode(t, "j", Options{SimpleLists: true}))
}

func TestDecodeString(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a string", "k")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a string", "k\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for a string", "k\x00\x01")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for a string", "k\x00\x05test")
	assert.Equal(t, "", decode(t, "k\x00\x00", Options{}))
	assert.Equal(t, "test", decode(t, "k\x00\x04test", Options{}))
	// no text validation
	assert.Equal(t, "\xff\x00", decode(t, "k\x00\x02\xff\x00", Options{}))
}

func TestDecodeList(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a list", "l")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a list", "l\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a list", "l\x00\x00\x00")
	assertDecodeError(t, ErrTruncatedInput, "no data remaining, must at least have 1 byte more", "l\x00\x00\x00\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding elements for a list (2 expected)", "l\x00\x00\x00\x02j")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding elements for a list (4294967295 expected)", "l\xff\xff\xff\xffj")
	assertDecodeError(t, ErrTruncatedInput, "no data remaining, must at least have 1 byte more", "l\x00\x00\x00\x02jj")

	assert.Equal(t, OtpErlangList{Value: []interface{}{}, Tail: []interface{}{}}, decode(t, "l\x00\x00\x00\x00j", Options{}))
	assert.Equal(t, []interface{}{}, decode(t, "l\x00\x00\x00\x00j", Options{SimpleLists: true}))

	list := decode(t, "l\x00\x00\x00\x02jjj", Options{})
	assert.Equal(t, OtpErlangList{Value: []interface{}{[]interface{}{}, []interface{}{}}, Tail: []interface{}{}}, list)
	assert.True(t, list.(OtpErlangList).Proper())
	assert.Equal(t, ProperList([]interface{}{}, []interface{}{}), list)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, decode(t, "l\x00\x00\x00\x02a\x01a\x02j", Options{SimpleLists: true}))
}

func TestDecodeImproperList(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a string", "l\x00\x00\x00\x00k")
	b := "l\x00\x00\x00\x01a\x01d\x00\x04tail"
	list := decode(t, b, Options{})
	assert.Equal(t, OtpErlangList{Value: []interface{}{int64(1)}, Tail: OtpErlangAtom("tail")}, list)
	assert.False(t, list.(OtpErlangList).Proper())

	// the tail is consumed even when it is dropped
	term, i, err := Decode([]byte(b+"a\x07"), 0, Options{SimpleLists: true})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1)}, term)
	assert.Equal(t, len(b), i)

	assert.Equal(t, OtpErlangList{Value: []interface{}{"a"}, Tail: "b"}, decode(t, "l\x00\x00\x00\x01k\x00\x01ak\x00\x01b", Options{}))
}

func TestDecodeSmallTuple(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a small tuple", "h")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding elements for a tuple (1 expected)", "h\x01")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding a small integer", "h\x02a\x01a")
	assertDecodeError(t, ErrUnrecognizedTag, "unknown tag 122", "h\x02a\x01z")
	assert.Equal(t, OtpErlangTuple{}, decode(t, "h\x00", Options{}))
	assert.Equal(t, OtpErlangTuple{[]interface{}{}, []interface{}{}}, decode(t, "h\x02jj", Options{}))
	assert.Equal(t, OtpErlangTuple{int64(1), int64(2)}, decode(t, "h\x02a\x01a\x02", Options{}))
}

func TestDecodeLargeTuple(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a large tuple", "i")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a large tuple", "i\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding length for a large tuple", "i\x00\x00\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding elements for a tuple (1 expected)", "i\x00\x00\x00\x01")
	assert.Equal(t, OtpErlangTuple{}, decode(t, "i\x00\x00\x00\x00", Options{}))
	assert.Equal(t, OtpErlangTuple{[]interface{}{}, []interface{}{}}, decode(t, "i\x00\x00\x00\x02jj", Options{}))
	tuple := decode(t, "i\x00\x00\x01\x00"+strings.Repeat("h\x00", 256), Options{}).(OtpErlangTuple)
	assert.Len(t, tuple, 256)
	assert.Equal(t, OtpErlangTuple{}, tuple[255])
}

func TestDecodeSmallInteger(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding a small integer", "a")
	term, i, err := Decode([]byte("a\x05"), 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), term)
	assert.Equal(t, 2, i)
	assert.Equal(t, int64(0), decode(t, "a\x00", Options{}))
	assert.Equal(t, int64(255), decode(t, "a\xff", Options{}))
}

func TestDecodeInteger(t *testing.T) {
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding an integer", "b")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding an integer", "b\x00")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding an integer", "b\x00\x00\x00")
	assert.Equal(t, int64(0), decode(t, "b\x00\x00\x00\x00", Options{}))
	assert.Equal(t, int64(2147483647), decode(t, "b\x7f\xff\xff\xff", Options{}))
	assert.Equal(t, int64(-2147483648), decode(t, "b\x80\x00\x00\x00", Options{}))
	assert.Equal(t, int64(-1), decode(t, "b\xff\xff\xff\xff", Options{}))
}

func TestDecodePid(t *testing.T) {
	pid := OtpErlangPid{Node: OtpErlangAtom("nonode@nohost"), ID: 59, Serial: 0, Creation: 0}
	assert.Equal(t, pid, decode(t, pidBinary, Options{}))
	assert.Equal(t,
		OtpErlangPid{Node: OtpErlangAtomUTF8("a@b"), ID: 0x01020304, Serial: 7, Creation: 3},
		decode(t, "gw\x03a@b\x01\x02\x03\x04\x00\x00\x00\x07\x03", Options{}))
	assert.Equal(t,
		OtpErlangPid{Node: "nonode@nohost", ID: 59},
		decode(t, pidBinary, Options{AtomsAsStrings: true}))

	assertDecodeError(t, ErrTruncatedInput, "no data remaining, must at least have 1 byte more", "g")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding text for an atom", "gd\x00\x0dnonode")
	assertDecodeError(t, ErrTruncatedInput, "incomplete data: decoding id, serial and creation for a pid", pidBinary[:len(pidBinary)-1])
	assertDecodeError(t, ErrUnrecognizedTag, "unknown tag 122", "gz")
}

func TestDecodeSequence(t *testing.T) {
	data := []byte("a\x01h\x00j" + pidBinary)
	options := Options{}
	var terms []interface{}
	for i := 0; i < len(data); {
		term, next, err := Decode(data, i, options)
		require.NoError(t, err)
		require.Greater(t, next, i)
		terms = append(terms, term)
		i = next
	}
	assert.Equal(t, []interface{}{
		int64(1),
		OtpErlangTuple{},
		[]interface{}{},
		OtpErlangPid{Node: OtpErlangAtom("nonode@nohost"), ID: 59},
	}, terms)
	_, _, err := Decode(data, len(data), options)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeMaxDepth(t *testing.T) {
	nested := func(depth int) []byte {
		return []byte(strings.Repeat("h\x01", depth) + "j")
	}
	_, _, err := Decode(nested(2), 0, Options{MaxDepth: 2})
	require.NoError(t, err)
	term, i, err := Decode(nested(3), 0, Options{MaxDepth: 2})
	assert.Nil(t, term)
	assert.Equal(t, 0, i)
	assert.ErrorIs(t, err, ErrTooDeeplyNested)
	assert.Equal(t, "nesting depth exceeds 2 while decoding a tuple", err.Error())

	_, _, err = Decode(nested(DefaultMaxDepth), 0, Options{})
	require.NoError(t, err)
	_, _, err = Decode(nested(DefaultMaxDepth+1), 0, Options{})
	assert.ErrorIs(t, err, ErrTooDeeplyNested)

	lists := []byte(strings.Repeat("l\x00\x00\x00\x01", 4) + "j" + strings.Repeat("j", 4))
	_, _, err = Decode(lists, 0, Options{MaxDepth: 4})
	require.NoError(t, err)
	_, _, err = Decode(lists, 0, Options{MaxDepth: 3})
	assert.ErrorIs(t, err, ErrTooDeeplyNested)

	_, _, err = Decode([]byte("h\x01"+pidBinary), 0, Options{MaxDepth: 1})
	var decodeError *DecodeError
	require.ErrorAs(t, err, &decodeError)
	assert.Equal(t, TooDeeplyNested, decodeError.Kind)
	assert.Equal(t, 2, decodeError.Offset)
	assert.Equal(t, "nesting depth exceeds 1 while decoding a pid", decodeError.Error())
}

func TestDecodeIdempotent(t *testing.T) {
	data := []byte("h\x03s\x02okl\x00\x00\x00\x02a\x01b\x00\x00\x01\x00s\x04tail" + pidBinary)
	for _, options := range []Options{{}, {AtomsAsStrings: true}, {SimpleLists: true}} {
		first, i, err := Decode(data, 0, options)
		require.NoError(t, err)
		second, j, err := Decode(data, 0, options)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, i, j)
	}
}

func TestDecodeErrorKind(t *testing.T) {
	_, _, err := Decode([]byte("h\x02a\x01d\x00\x05ab"), 0, Options{})
	var decodeError *DecodeError
	require.ErrorAs(t, err, &decodeError)
	assert.Equal(t, TruncatedInput, decodeError.Kind)
	assert.Equal(t, 4, decodeError.Offset)
	assert.Equal(t, "truncated input", decodeError.Kind.String())
	assert.NotErrorIs(t, err, ErrUnrecognizedTag)
	assert.NotErrorIs(t, err, ErrTooDeeplyNested)
}

func TestBinaryToTerm(t *testing.T) {
	_, err := BinaryToTerm([]byte(""), Options{})
	assert.EqualError(t, err, "null input")
	_, err = BinaryToTerm([]byte("\x83"), Options{})
	assert.EqualError(t, err, "null input")
	_, err = BinaryToTerm([]byte("\x00a"), Options{})
	assert.EqualError(t, err, "invalid version")
	_, err = BinaryToTerm([]byte("\x83a\x01j"), Options{})
	assert.EqualError(t, err, "unparsed data")
	_, err = BinaryToTerm([]byte("\x83z"), Options{})
	assert.ErrorIs(t, err, ErrUnrecognizedTag)
	b, err := TermToBinary(OtpErlangAtom("test"))
	require.NoError(t, err)
	assert.Equal(t, byte(TagVersion), b[0])
	assert.Equal(t, byte(131), b[0])
	term, err := BinaryToTerm(b, Options{})
	require.NoError(t, err)
	assert.Equal(t, OtpErlangAtom("test"), term)
}

func TestDecodeNestedCountsAllocation(t *testing.T) {
	// every list header claims all remaining bytes as elements
	const size = 65536
	const levels = 500
	data := make([]byte, size)
	i := 0
	for level := 0; level < levels; level++ {
		data[i] = tagListExt
		binary.BigEndian.PutUint32(data[i+1:], uint32(size-i-5))
		i += 5
	}
	for ; i < size; i++ {
		data[i] = tagNilExt
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	term, next, err := Decode(data, 0, Options{})
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Nil(t, term)
	assert.Equal(t, 0, next)
	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Less(t, allocated, uint64(256*size),
		"decoding %d bytes allocated %d bytes", size, allocated)
}
