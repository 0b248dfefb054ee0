package dist

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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/pyrlang/erlang_go/erlang"
)

// control message operations carried by a passthrough message
const (
	ControlSend         = 2
	ControlRegSend      = 6
	ControlMonitorP     = 19
	ControlDemonitorP   = 20
	ControlMonitorPExit = 21
)

const (
	tagPassthrough = 'p'

	// HandshakeHeaderSize is the packet length prefix used until the
	// handshake completes
	HandshakeHeaderSize = 2
	// ConnectedHeaderSize is the packet length prefix used afterwards
	ConnectedHeaderSize = 4
)

// ErrIncomplete means more data is needed to complete the packet
var ErrIncomplete = errors.New("incomplete packet")

// ProtocolError describes a packet that can not be interpreted
type ProtocolError struct {
	message string
}

func protocolErrorNew(message string) error {
	return &ProtocolError{message}
}
func (e *ProtocolError) Error() string {
	return e.message
}

// Message is one packet received after the handshake
type Message struct {
	// Keepalive is an empty packet, nothing else is set
	Keepalive bool
	Operation int64
	Control   erlang.OtpErlangTuple

	// Payload is only valid when HasPayload is true,
	// since nil is also the decoded undefined atom
	Payload    interface{}
	HasPayload bool

	From   interface{}
	To     interface{}
	Cookie interface{}
	Ref    interface{}
	Reason interface{}
}

// Handled is false for control operations without field mapping
func (m *Message) Handled() bool {
	if m.Keepalive {
		return true
	}
	switch m.Operation {
	case ControlSend, ControlRegSend, ControlMonitorP,
		ControlDemonitorP, ControlMonitorPExit:
		return true
	default:
		return false
	}
}

func checkHeaderSize(headerSize int) error {
	if headerSize != HandshakeHeaderSize && headerSize != ConnectedHeaderSize {
		return protocolErrorNew(fmt.Sprintf("invalid header size %d", headerSize))
	}
	return nil
}

// packetSize reads the length prefix, ok is false until it is complete
func packetSize(data []byte, headerSize int) (size uint64, ok bool) {
	if len(data) < headerSize {
		return 0, false
	}
	if headerSize == HandshakeHeaderSize {
		return uint64(binary.BigEndian.Uint16(data)), true
	}
	return uint64(binary.BigEndian.Uint32(data)), true
}

// Consume splits the first length prefixed packet from data.
// ErrIncomplete is returned until data holds the whole packet.
func Consume(data []byte, headerSize int) (packet, rest []byte, err error) {
	err = checkHeaderSize(headerSize)
	if err != nil {
		return nil, data, err
	}
	size, ok := packetSize(data, headerSize)
	if !ok || uint64(len(data)-headerSize) < size {
		return nil, data, ErrIncomplete
	}
	end := headerSize + int(size)
	return data[headerSize:end], data[end:], nil
}

// Frame prepends the length prefix to packet
func Frame(packet []byte, headerSize int) ([]byte, error) {
	err := checkHeaderSize(headerSize)
	if err != nil {
		return nil, err
	}
	var buffer = new(bytes.Buffer)
	buffer.Grow(headerSize + len(packet))
	if headerSize == HandshakeHeaderSize {
		if len(packet) > math.MaxUint16 {
			return nil, protocolErrorNew("uint16 overflow")
		}
		err = binary.Write(buffer, binary.BigEndian, uint16(len(packet)))
	} else {
		if uint64(len(packet)) > math.MaxUint32 {
			return nil, protocolErrorNew("uint32 overflow")
		}
		err = binary.Write(buffer, binary.BigEndian, uint32(len(packet)))
	}
	if err != nil {
		return nil, err
	}
	_, err = buffer.Write(packet)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Passthrough creates the packet for a control term and an optional
// message term (nil means no message)
func Passthrough(control erlang.OtpErlangTuple, message interface{}) ([]byte, error) {
	packet := []byte{tagPassthrough}
	b, err := erlang.TermToBinary(control)
	if err != nil {
		return nil, err
	}
	packet = append(packet, b...)
	if message != nil {
		b, err = erlang.TermToBinary(message)
		if err != nil {
			return nil, err
		}
		packet = append(packet, b...)
	}
	return packet, nil
}

// ParseMessage interprets a packet received after the handshake.
// The control term and the payload term are decoded back to back,
// each may be preceded by the version byte.
func ParseMessage(packet []byte, decoder *erlang.Decoder) (*Message, error) {
	if len(packet) == 0 {
		return &Message{Keepalive: true}, nil
	}
	if packet[0] != tagPassthrough {
		return nil, protocolErrorNew(fmt.Sprintf("unexpected dist message type %q", packet[0]))
	}
	control, i, err := decodeTerm(packet, 1, decoder)
	if err != nil {
		return nil, fmt.Errorf("control term: %w", err)
	}
	message := &Message{}
	if i < len(packet) {
		message.Payload, i, err = decodeTerm(packet, i, decoder)
		if err != nil {
			return nil, fmt.Errorf("payload term: %w", err)
		}
		message.HasPayload = true
	}
	if i != len(packet) {
		return nil, protocolErrorNew("unparsed data")
	}
	tuple, ok := control.(erlang.OtpErlangTuple)
	if !ok || len(tuple) == 0 {
		return nil, protocolErrorNew("control term must be a non-empty tuple")
	}
	operation, ok := tuple[0].(int64)
	if !ok {
		return nil, protocolErrorNew("control term operation must be an integer")
	}
	message.Operation = operation
	message.Control = tuple
	err = message.mapControl()
	if err != nil {
		return nil, err
	}
	return message, nil
}

func decodeTerm(packet []byte, i int, decoder *erlang.Decoder) (interface{}, int, error) {
	if i < len(packet) && packet[i] == erlang.TagVersion {
		i++
	}
	return decoder.Decode(packet, i)
}

func (m *Message) mapControl() error {
	arity := func(expected int) error {
		if len(m.Control) != expected {
			return protocolErrorNew(fmt.Sprintf(
				"control operation %d expects %d elements, got %d",
				m.Operation, expected, len(m.Control)))
		}
		return nil
	}
	switch m.Operation {
	case ControlSend:
		if err := arity(3); err != nil {
			return err
		}
		m.Cookie, m.To = m.Control[1], m.Control[2]
	case ControlRegSend:
		if err := arity(4); err != nil {
			return err
		}
		m.From, m.Cookie, m.To = m.Control[1], m.Control[2], m.Control[3]
	case ControlMonitorP, ControlDemonitorP:
		if err := arity(4); err != nil {
			return err
		}
		m.From, m.To, m.Ref = m.Control[1], m.Control[2], m.Control[3]
	case ControlMonitorPExit:
		if err := arity(5); err != nil {
			return err
		}
		m.From, m.To, m.Ref, m.Reason = m.Control[1], m.Control[2], m.Control[3], m.Control[4]
	}
	return nil
}
