// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package wire implements the framing used on byte streams between execution
// contexts. A frame is a 4 byte big-endian length followed by that many
// payload bytes. Payloads are JSON documents.
package wire // import "solarwallet.io/go-solar/wire"

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// MaxFrameSize is the largest payload accepted by ReadFrame.
const MaxFrameSize = 16 << 20

// FrameSizeError is returned for payloads larger than MaxFrameSize.
// WriteFrame returns it before writing anything, so the stream stays usable.
type FrameSizeError struct {
	Size int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("frame of %d bytes exceeds maximum of %d", e.Size, MaxFrameSize)
}

// IsFrameSizeError reports whether err's cause is a *FrameSizeError.
func IsFrameSizeError(err error) bool {
	var fe *FrameSizeError
	return errors.As(err, &fe)
}

// WriteFrame writes payload as a single frame to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return &FrameSizeError{Size: len(payload)}
	}
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)
	_, err := w.Write(buf)
	return errors.Wrap(err, "writing frame")
}

// ReadFrame reads a single frame from r and returns its payload.
// io.EOF is returned unwrapped if r ends cleanly before a frame starts.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading frame header")
	}

	n := binary.BigEndian.Uint32(header[:])
	if n > MaxFrameSize {
		return nil, &FrameSizeError{Size: int(n)}
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(err, "reading frame payload")
	}
	return payload, nil
}

// Encode writes v as a JSON frame to w.
func Encode(w io.Writer, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding frame payload")
	}
	return WriteFrame(w, payload)
}

// Decode reads a JSON frame from r into v.
func Decode(r io.Reader, v interface{}) error {
	payload, err := ReadFrame(r)
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(payload, v), "decoding frame payload")
}
