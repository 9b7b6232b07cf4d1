// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"io"

	"solarwallet.io/go-solar/wire"
)

var _ Conn = (*serializedConn)(nil)

// serializedConn is a connection that communicates its messages as JSON
// frames over a stream.
type serializedConn struct {
	conn io.ReadWriteCloser
}

// NewConn creates a serialized connection from a stream.
func NewConn(conn io.ReadWriteCloser) Conn {
	return &serializedConn{conn: conn}
}

// Send writes m as one frame. A message too large for a frame is rejected
// with a wire.FrameSizeError and leaves the connection open. Any other error
// closes it.
func (c *serializedConn) Send(m *Msg) error {
	if err := wire.Encode(c.conn, m); err != nil {
		if !wire.IsFrameSizeError(err) {
			c.conn.Close()
		}
		return err
	}
	return nil
}

func (c *serializedConn) Recv() (*Msg, error) {
	m := new(Msg)
	if err := wire.Decode(c.conn, m); err != nil {
		c.conn.Close()
		return nil, err
	}
	return m, nil
}

func (c *serializedConn) Close() error {
	return c.conn.Close()
}
