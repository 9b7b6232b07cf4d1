// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"io"

	"github.com/pkg/errors"
)

// pipeConn is a stream that reads from one pipe and writes to another.
type pipeConn struct {
	io.ReadCloser
	io.WriteCloser
}

func (c *pipeConn) Close() error {
	r := c.ReadCloser.Close()
	w := c.WriteCloser.Close()
	if r != nil || w != nil {
		return errors.Errorf("error closing pipeConn: ReadCloser: %v WriteCloser: %v", r, w)
	}
	return nil
}

// NewPipeConnPair creates two connections that are linked via in-memory
// pipes. Messages are still serialized, so the two ends never share memory.
func NewPipeConnPair() (a Conn, b Conn) {
	ra, wa := io.Pipe()
	rb, wb := io.Pipe()
	return NewConn(&pipeConn{ra, wb}), NewConn(&pipeConn{rb, wa})
}
