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

// Error structs listed alphabetically

// ErrorKind classifies a DecodeError
type ErrorKind uint8

const (
	// TruncatedInput means a length, arity or payload runs past the buffer
	TruncatedInput ErrorKind = iota + 1
	// UnrecognizedTag means the tag byte is not a supported term tag
	UnrecognizedTag
	// TooDeeplyNested means containers are nested deeper than the limit
	TooDeeplyNested
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedInput:
		return "truncated input"
	case UnrecognizedTag:
		return "unrecognized tag"
	case TooDeeplyNested:
		return "too deeply nested"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is, matching any DecodeError of the same Kind
var (
	ErrTruncatedInput  error = &DecodeError{Kind: TruncatedInput, Reason: "truncated input"}
	ErrUnrecognizedTag error = &DecodeError{Kind: UnrecognizedTag, Reason: "unrecognized tag"}
	ErrTooDeeplyNested error = &DecodeError{Kind: TooDeeplyNested, Reason: "too deeply nested"}
)

// DecodeError provides specific decoding failure information
type DecodeError struct {
	Kind   ErrorKind
	Reason string
	// Offset of the term (or field) that failed
	Offset int
}

func decodeErrorNew(kind ErrorKind, offset int, reason string) error {
	return &DecodeError{Kind: kind, Reason: reason, Offset: offset}
}

func incompleteData(offset int, what string) error {
	return decodeErrorNew(TruncatedInput, offset, "incomplete data: "+what)
}

func (e *DecodeError) Error() string {
	return e.Reason
}

// Is reports whether target is a DecodeError of the same Kind
func (e *DecodeError) Is(target error) bool {
	if t, ok := target.(*DecodeError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// InputError describes problems with function input parameters
type InputError struct {
	message string
}

func inputErrorNew(message string) error {
	return &InputError{message}
}
func (e *InputError) Error() string {
	return e.message
}

// OutputError describes problems with creating function output data
type OutputError struct {
	message string
}

func outputErrorNew(message string) error {
	return &OutputError{message}
}
func (e *OutputError) Error() string {
	return e.message
}

// ParseError provides framing failure information for BinaryToTerm
type ParseError struct {
	message string
}

func parseErrorNew(message string) error {
	return &ParseError{message}
}
func (e *ParseError) Error() string {
	return e.message
}
