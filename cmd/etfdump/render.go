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
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/pyrlang/erlang_go/erlang"
	"github.com/vmihailenco/msgpack/v5"
)

// plainBuilder maps atoms, lists with a tail and pids onto maps
// that every output encoding can represent
type plainBuilder struct{}

func (plainBuilder) MakeAtom(name string, encoding erlang.Encoding) interface{} {
	return map[string]interface{}{"atom": name, "encoding": encoding.String()}
}

func (plainBuilder) MakeList(elements []interface{}, tail interface{}) interface{} {
	return map[string]interface{}{"list": elements, "tail": tail}
}

func (plainBuilder) MakePid(node interface{}, id, serial uint32, creation uint8) interface{} {
	return map[string]interface{}{"pid": map[string]interface{}{
		"node":     node,
		"id":       id,
		"serial":   serial,
		"creation": creation,
	}}
}

// plainTerm rewrites tuples so they stay distinct from lists
func plainTerm(term interface{}) interface{} {
	switch value := term.(type) {
	case erlang.OtpErlangTuple:
		return map[string]interface{}{"tuple": plainSlice(value)}
	case []interface{}:
		return plainSlice(value)
	case map[string]interface{}:
		result := make(map[string]interface{}, len(value))
		for k, v := range value {
			result[k] = plainTerm(v)
		}
		return result
	default:
		return value
	}
}

func plainSlice(values []interface{}) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = plainTerm(v)
	}
	return result
}

type renderer interface {
	Render(term interface{}) error
}

func newRenderer(format string, out io.Writer) (renderer, erlang.TermBuilder, error) {
	switch format {
	case "text":
		return &textRenderer{out: out}, erlang.DefaultBuilder{}, nil
	case "json":
		return &jsonRenderer{encoder: json.NewEncoder(out)}, plainBuilder{}, nil
	case "yaml":
		return &yamlRenderer{out: out}, plainBuilder{}, nil
	case "msgpack":
		encoder := msgpack.NewEncoder(out)
		encoder.SetSortMapKeys(true)
		return &msgpackRenderer{encoder: encoder}, plainBuilder{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown format %q", format)
	}
}

type jsonRenderer struct {
	encoder *json.Encoder
}

func (r *jsonRenderer) Render(term interface{}) error {
	return r.encoder.Encode(plainTerm(term))
}

type yamlRenderer struct {
	out io.Writer
}

func (r *yamlRenderer) Render(term interface{}) error {
	b, err := yaml.Marshal(plainTerm(term))
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.out, "---\n")
	if err != nil {
		return err
	}
	_, err = r.out.Write(b)
	return err
}

type msgpackRenderer struct {
	encoder *msgpack.Encoder
}

func (r *msgpackRenderer) Render(term interface{}) error {
	return r.encoder.Encode(plainTerm(term))
}

// textRenderer writes one term per line in Erlang syntax
type textRenderer struct {
	out io.Writer
}

func (r *textRenderer) Render(term interface{}) error {
	var b strings.Builder
	formatTerm(&b, term)
	b.WriteByte('\n')
	_, err := io.WriteString(r.out, b.String())
	return err
}

func formatTerm(b *strings.Builder, term interface{}) {
	switch value := term.(type) {
	case nil:
		b.WriteString("undefined")
	case bool:
		b.WriteString(strconv.FormatBool(value))
	case int64:
		b.WriteString(strconv.FormatInt(value, 10))
	case string:
		b.WriteString(strconv.Quote(value))
	case erlang.OtpErlangAtom:
		formatAtom(b, string(value))
	case erlang.OtpErlangAtomUTF8:
		formatAtom(b, string(value))
	case *erlang.Symbol:
		formatAtom(b, value.Name)
	case erlang.OtpErlangTuple:
		b.WriteByte('{')
		formatSequence(b, value)
		b.WriteByte('}')
	case []interface{}:
		b.WriteByte('[')
		formatSequence(b, value)
		b.WriteByte(']')
	case erlang.OtpErlangList:
		b.WriteByte('[')
		formatSequence(b, value.Value)
		if !value.Proper() {
			b.WriteByte('|')
			formatTerm(b, value.Tail)
		}
		b.WriteByte(']')
	case erlang.OtpErlangPid:
		b.WriteByte('<')
		formatTerm(b, value.Node)
		fmt.Fprintf(b, ".%d.%d.%d>", value.ID, value.Serial, value.Creation)
	case map[string]interface{}:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("#{")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			formatAtom(b, k)
			b.WriteString("=>")
			formatTerm(b, value[k])
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", value)
	}
}

func formatSequence(b *strings.Builder, values []interface{}) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		formatTerm(b, v)
	}
}

func formatAtom(b *strings.Builder, name string) {
	if bareAtom(name) {
		b.WriteString(name)
		return
	}
	b.WriteByte('\'')
	for _, c := range []byte(name) {
		switch {
		case c == '\'' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(b, "\\x{%X}", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
}

func bareAtom(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for _, c := range []byte(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '@':
		default:
			return false
		}
	}
	return true
}
