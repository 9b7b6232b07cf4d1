// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/worker"
)

var logger = log.Named("ipc:bridge")

// Server answers bridge messages with an ipc.IPC handler, usually an
// *ipc.Local.
type Server struct {
	handler  ipc.IPC
	upgrader websocket.Upgrader
}

// NewServer creates a server dispatching to handler.
func NewServer(handler ipc.IPC) *Server {
	return &Server{
		handler: handler,
		upgrader: websocket.Upgrader{
			// The bridge only listens on loopback.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a websocket and serves it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	if err := s.Serve(r.Context(), NewWebsocketTransport(conn)); err != nil {
		logger.WithError(err).Debug("bridge connection closed")
	}
}

// ListenStream serves every stream connection accepted on l until ctx is done.
func (s *Server) ListenStream(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	var conns sync.WaitGroup
	defer conns.Wait()
	for {
		c, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accepting bridge connection")
		}
		conns.Add(1)
		go func() {
			defer conns.Done()
			if err := s.Serve(ctx, NewStreamTransport(c)); err != nil {
				logger.WithError(err).Debug("bridge connection closed")
			}
		}()
	}
}

// Serve handles messages arriving on t until it fails or ctx is done. Every
// call is answered on its own goroutine. Subscriptions made over t end with
// it.
func (s *Server) Serve(ctx context.Context, t Transport) error {
	defer t.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			t.Close()
		case <-stop:
		}
	}()

	var (
		calls sync.WaitGroup
		subs  = make(map[string]ipc.Unsubscribe)
	)
	defer func() {
		for _, unsub := range subs {
			unsub()
		}
		calls.Wait()
	}()

	for {
		m, err := t.ReadMsg()
		if err != nil {
			if ctx.Err() != nil || errors.Cause(err) == io.EOF {
				return nil
			}
			return err
		}

		switch m.Kind {
		case KindCall:
			calls.Add(1)
			go func(m *Msg) {
				defer calls.Done()
				if err := t.WriteMsg(s.call(ctx, m)); err != nil {
					logger.WithError(err).Debugf("dropping %s result", m.Type)
				}
			}(m)
		case KindSubscribe:
			id := m.ID
			unsub, err := s.handler.Subscribe(m.Type, func(payload json.RawMessage) {
				if err := t.WriteMsg(&Msg{Kind: KindEvent, ID: id, Type: m.Type, Event: payload}); err != nil {
					logger.WithError(err).Debugf("dropping %s event", m.Type)
				}
			})
			resp := &Msg{Kind: KindResult, ID: id, Type: m.Type}
			if err != nil {
				resp.Error = worker.NewErrorPayload(err)
			} else {
				subs[id] = unsub
			}
			if err := t.WriteMsg(resp); err != nil {
				logger.WithError(err).Debugf("dropping %s subscription result", m.Type)
			}
		case KindUnsubscribe:
			if unsub, ok := subs[m.ID]; ok {
				unsub()
				delete(subs, m.ID)
			}
		default:
			logger.Warnf("ignoring %q message", m.Kind)
		}
	}
}

func (s *Server) call(ctx context.Context, m *Msg) *Msg {
	resp := &Msg{Kind: KindResult, ID: m.ID, Type: m.Type}
	args := make([]interface{}, len(m.Args))
	for i, a := range m.Args {
		args[i] = a
	}
	result, err := s.handler.Call(ctx, m.Type, args...)
	if err != nil {
		resp.Error = worker.NewErrorPayload(err)
		return resp
	}
	resp.Result = result
	return resp
}
