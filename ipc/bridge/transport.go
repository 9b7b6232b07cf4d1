// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package bridge

import (
	"io"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/wire"
)

// Transport moves messages between the two ends of a bridge. WriteMsg may be
// called concurrently, ReadMsg may not.
type Transport interface {
	WriteMsg(*Msg) error
	ReadMsg() (*Msg, error)
	Close() error
}

// wsTransport sends every message as one websocket text message.
type wsTransport struct {
	conn    *websocket.Conn
	writing sync.Mutex
}

// NewWebsocketTransport wraps a websocket connection.
func NewWebsocketTransport(conn *websocket.Conn) Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) WriteMsg(m *Msg) error {
	t.writing.Lock()
	defer t.writing.Unlock()
	return errors.Wrap(t.conn.WriteJSON(m), "writing websocket message")
}

func (t *wsTransport) ReadMsg() (*Msg, error) {
	m := new(Msg)
	if err := t.conn.ReadJSON(m); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "reading websocket message")
	}
	return m, nil
}

func (t *wsTransport) Close() error {
	t.writing.Lock()
	t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writing.Unlock()
	return t.conn.Close()
}

// streamTransport sends messages as JSON frames over a byte stream.
type streamTransport struct {
	rwc     io.ReadWriteCloser
	writing sync.Mutex
}

// NewStreamTransport wraps a byte stream.
func NewStreamTransport(rwc io.ReadWriteCloser) Transport {
	return &streamTransport{rwc: rwc}
}

func (t *streamTransport) WriteMsg(m *Msg) error {
	t.writing.Lock()
	defer t.writing.Unlock()
	return wire.Encode(t.rwc, m)
}

func (t *streamTransport) ReadMsg() (*Msg, error) {
	m := new(Msg)
	if err := wire.Decode(t.rwc, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *streamTransport) Close() error {
	return t.rwc.Close()
}
