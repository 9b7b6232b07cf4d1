// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/wire"
)

var logger = log.Named("worker")

// Server hosts a fixed set of operations in its own execution context and
// serves them to clients on the other side of a Conn.
type Server struct {
	ops   Operations
	hooks []func(context.Context) error

	initOnce sync.Once
	initErr  error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithInit registers a startup hook. Hooks run once, in order, before the
// server announces readiness on its first connection. A failing hook makes
// every Serve call fail.
func WithInit(hook func(context.Context) error) ServerOption {
	return func(s *Server) { s.hooks = append(s.hooks, hook) }
}

// NewServer creates a server exposing ops. The set of operations is fixed for
// the server's lifetime.
func NewServer(ops Operations, opts ...ServerOption) *Server {
	s := &Server{ops: make(Operations, len(ops))}
	for name, op := range ops {
		s.ops[name] = op
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) init(ctx context.Context) error {
	s.initOnce.Do(func() {
		for _, hook := range s.hooks {
			if err := hook(ctx); err != nil {
				s.initErr = errors.WithMessage(err, "worker startup")
				return
			}
		}
	})
	return s.initErr
}

// Serve runs the startup hooks, announces readiness on conn and then serves
// requests until conn fails or ctx is done. Every request is handled on its
// own goroutine. Serve closes conn and waits for in-flight operations before
// returning. A connection closed by the client ends Serve without error.
func (s *Server) Serve(ctx context.Context, conn Conn) error {
	defer conn.Close()

	if err := s.init(ctx); err != nil {
		return err
	}

	var sending sync.Mutex
	send := func(m *Msg) error {
		sending.Lock()
		defer sending.Unlock()
		return conn.Send(m)
	}

	if err := send(&Msg{Type: MsgReady}); err != nil {
		return errors.WithMessage(err, "announcing readiness")
	}
	logger.Debug("ready")

	var handlers sync.WaitGroup
	defer handlers.Wait()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		m, err := conn.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if cause := errors.Cause(err); cause == io.EOF || cause == io.ErrClosedPipe {
				return nil
			}
			return errors.WithMessage(err, "receiving request")
		}
		if m.Type != MsgRequest {
			logger.Warnf("ignoring unexpected %q message", m.Type)
			continue
		}

		handlers.Add(1)
		go func(req *Msg) {
			defer handlers.Done()
			err := send(s.handle(ctx, req))
			if wire.IsFrameSizeError(err) {
				err = send(&Msg{Type: MsgResponse, ID: req.ID, Err: &ErrorPayload{
					Kind:    KindSerialization,
					Message: errors.WithMessage(err, "result of "+req.Op).Error(),
				}})
			}
			if err != nil {
				logger.WithError(err).Debugf("dropping response to %s call %s", req.Op, req.ID)
			}
		}(m)
	}
}

func (s *Server) handle(ctx context.Context, req *Msg) (resp *Msg) {
	resp = &Msg{Type: MsgResponse, ID: req.ID}

	op, ok := s.ops[req.Op]
	if !ok {
		resp.Err = &ErrorPayload{Kind: KindUnknownOperation, Message: "unknown operation " + req.Op}
		return resp
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("operation %s panicked: %v", req.Op, r)
			resp.Result = nil
			resp.Err = &ErrorPayload{Kind: KindPanic, Message: fmt.Sprint(r)}
		}
	}()

	logger.Debugf("%s %s", req.Op, req.ID)
	result, err := op(ctx, req.Args)
	if err != nil {
		resp.Err = NewErrorPayload(err)
		return resp
	}
	raw, err := json.Marshal(result)
	if err != nil {
		resp.Err = &ErrorPayload{Kind: KindSerialization, Message: err.Error()}
		return resp
	}
	resp.Result = raw
	return resp
}

// Listen serves every connection accepted on l until ctx is done.
func (s *Server) Listen(ctx context.Context, l net.Listener) error {
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
			return errors.Wrap(err, "accepting worker connection")
		}
		conns.Add(1)
		go func() {
			defer conns.Done()
			if err := s.Serve(ctx, NewConn(c)); err != nil && ctx.Err() == nil {
				logger.WithError(err).Warn("worker connection failed")
			}
		}()
	}
}
