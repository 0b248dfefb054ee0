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
	"errors"
	"fmt"
	"io"

	"github.com/pyrlang/erlang_go/erlang"
	"go.uber.org/zap"
)

const fragmentSize = 65536

// DefaultMaxPacketSize limits packets unless WithMaxPacketSize is given
const DefaultMaxPacketSize = 64 * 1024 * 1024

// Reader yields packets and messages from a byte stream
type Reader struct {
	reader        io.Reader
	headerSize    int
	maxPacketSize uint64
	decoder       *erlang.Decoder
	logger        *zap.Logger
	fragmentRecv  []byte
	bufferRecv    *bytes.Buffer
}

// ReaderOption configures a Reader
type ReaderOption func(*Reader)

// WithLogger sets the logger, zap.NewNop() is used otherwise
func WithLogger(logger *zap.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDecoder sets the term decoder, a default Decoder is used otherwise
func WithDecoder(decoder *erlang.Decoder) ReaderOption {
	return func(r *Reader) {
		if decoder != nil {
			r.decoder = decoder
		}
	}
}

// WithMaxPacketSize limits the size a length prefix may declare,
// larger packets fail with a ProtocolError before they are buffered
func WithMaxPacketSize(size uint64) ReaderOption {
	return func(r *Reader) {
		if size > 0 {
			r.maxPacketSize = size
		}
	}
}

// NewReader creates a Reader expecting handshake packets
// (a 2 byte length prefix)
func NewReader(reader io.Reader, options ...ReaderOption) *Reader {
	bufferRecv := new(bytes.Buffer)
	bufferRecv.Grow(fragmentSize)
	r := &Reader{
		reader:        reader,
		headerSize:    HandshakeHeaderSize,
		maxPacketSize: DefaultMaxPacketSize,
		decoder:       erlang.NewDecoder(erlang.Options{}, nil),
		logger:        zap.NewNop(),
		fragmentRecv:  make([]byte, fragmentSize),
		bufferRecv:    bufferRecv,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// SetHeaderSize switches the length prefix, 4 after the handshake
func (r *Reader) SetHeaderSize(headerSize int) error {
	err := checkHeaderSize(headerSize)
	if err != nil {
		return err
	}
	r.headerSize = headerSize
	return nil
}

// HeaderSize returns the current length prefix size
func (r *Reader) HeaderSize() int {
	return r.headerSize
}

// Buffered returns the number of bytes read but not yet consumed
func (r *Reader) Buffered() int {
	return r.bufferRecv.Len()
}

// ReadPacket returns the next packet without its length prefix.
// io.EOF is only returned between packets, io.ErrUnexpectedEOF
// when the stream ends within one.
func (r *Reader) ReadPacket() ([]byte, error) {
	for {
		size, ok := packetSize(r.bufferRecv.Bytes(), r.headerSize)
		if ok && size > r.maxPacketSize {
			r.logger.Warn("packet too large",
				zap.Uint64("size", size),
				zap.Uint64("limit", r.maxPacketSize))
			return nil, protocolErrorNew(fmt.Sprintf(
				"packet size %d exceeds limit %d", size, r.maxPacketSize))
		}
		packet, _, err := Consume(r.bufferRecv.Bytes(), r.headerSize)
		if err == nil {
			recv := make([]byte, len(packet))
			copy(recv, packet)
			r.bufferRecv.Next(r.headerSize + len(packet))
			return recv, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return nil, err
		}
		i, err := r.recvFragment()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if i > 0 {
					continue
				}
				if r.bufferRecv.Len() == 0 {
					return nil, io.EOF
				}
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

// ReadMessage returns the next message received after the handshake
func (r *Reader) ReadMessage() (*Message, error) {
	packet, err := r.ReadPacket()
	if err != nil {
		return nil, err
	}
	message, err := ParseMessage(packet, r.decoder)
	if err != nil {
		r.logger.Warn("invalid dist packet",
			zap.Int("size", len(packet)),
			zap.Error(err))
		return nil, err
	}
	switch {
	case message.Keepalive:
		r.logger.Debug("keepalive")
	case !message.Handled():
		r.logger.Warn("unhandled control message",
			zap.Int64("operation", message.Operation),
			zap.Any("control", message.Control))
	default:
		r.logger.Debug("control message",
			zap.Int64("operation", message.Operation),
			zap.Bool("payload", message.HasPayload))
	}
	return message, nil
}

func (r *Reader) recvFragment() (int, error) {
	i, err1 := r.reader.Read(r.fragmentRecv)
	var err2 error
	if i > 0 {
		_, err2 = r.bufferRecv.Write(r.fragmentRecv[:i])
	}
	if err1 != nil {
		return i, err1
	}
	if err2 != nil {
		return i, err2
	}
	return i, nil
}
