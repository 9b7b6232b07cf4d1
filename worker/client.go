// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"context"
	"encoding/json"
	"net"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgsync "solarwallet.io/go-solar/pkg/sync"
	"solarwallet.io/go-solar/wire"
)

const tracerName = "solarwallet.io/go-solar/worker"

// Client calls the operations of a Server in another execution context.
// Clients are safe for concurrent use. Responses are correlated by a per-call
// ID, so concurrent calls never receive each other's results.
type Client struct {
	conn    Conn
	sending pkgsync.Mutex
	pending *pending
	tracer  trace.Tracer

	ready  pkgsync.Closer // Closed on the server's ready message.
	closed pkgsync.Closer // Closed when the connection is gone.
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTracer sets the tracer used for per-call spans. It defaults to the
// global otel tracer provider.
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *Client) { c.tracer = t }
}

// NewClient creates a client on conn and starts receiving.
func NewClient(conn Conn, opts ...ClientOption) *Client {
	c := &Client{
		conn:    conn,
		pending: newPending(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.recvLoop()
	return c
}

// Spawn starts srv on its own goroutine, connected through an in-memory pipe,
// and returns a client for it. The server stops when ctx is done or the
// client is closed.
func Spawn(ctx context.Context, srv *Server, opts ...ClientOption) *Client {
	local, remote := NewPipeConnPair()
	go func() {
		if err := srv.Serve(ctx, remote); err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("worker stopped")
		}
	}()
	return NewClient(local, opts...)
}

// Dial connects to a server that listens on the given network address.
func Dial(ctx context.Context, network, addr string, opts ...ClientOption) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing worker at %s", addr)
	}
	return NewClient(NewConn(conn), opts...), nil
}

func (c *Client) recvLoop() {
	for {
		m, err := c.conn.Recv()
		if err != nil {
			if !c.closed.IsClosed() {
				logger.WithError(err).Debug("connection lost")
			}
			c.shutdown()
			return
		}

		switch m.Type {
		case MsgReady:
			if c.ready.Close() != nil {
				logger.Warn("duplicate ready message")
			}
		case MsgResponse:
			if !c.pending.resolve(m) {
				logger.Debugf("discarding response for abandoned call %s", m.ID)
			}
		default:
			logger.Warnf("ignoring unexpected %q message", m.Type)
		}
	}
}

func (c *Client) shutdown() {
	if c.closed.Close() != nil {
		return
	}
	c.pending.failAll()
	c.conn.Close()
}

// Ready returns a channel that is closed once the server accepts calls.
func (c *Client) Ready() <-chan struct{} {
	return c.ready.Closed()
}

// Closed returns a channel that is closed once the connection is gone.
func (c *Client) Closed() <-chan struct{} {
	return c.closed.Closed()
}

// Close closes the connection. Waiting calls fail with ErrClosed.
func (c *Client) Close() error {
	if c.closed.IsClosed() {
		return errors.New("already closed")
	}
	c.shutdown()
	return nil
}

// Call invokes op with args and returns its JSON encoded result.
//
// Calls issued before the server announced readiness are held back until it
// does; they are never dropped. If ctx is done first, ctx.Err() is returned.
// Abandoning a call via ctx does not cancel the operation in the server, its
// result is discarded. Errors raised by the operation are returned as
// *CallError.
func (c *Client) Call(ctx context.Context, op string, args ...interface{}) (result json.RawMessage, err error) {
	ctx, span := c.tracer.Start(ctx, "worker."+op, trace.WithAttributes(attribute.String("worker.op", op)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rawArgs := make([]json.RawMessage, len(args))
	for i, a := range args {
		if rawArgs[i], err = json.Marshal(a); err != nil {
			return nil, errors.Wrapf(err, "encoding argument %d of %s", i, op)
		}
	}

	select {
	case <-c.ready.Closed():
	case <-c.closed.Closed():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	id := uuid.NewString()
	span.SetAttributes(attribute.String("worker.call_id", id))
	wait := c.pending.add(id)
	defer c.pending.remove(id)

	if !c.sending.TryLockCtx(ctx) {
		return nil, ctx.Err()
	}
	err = c.conn.Send(&Msg{Type: MsgRequest, ID: id, Op: op, Args: rawArgs})
	c.sending.Unlock()
	if wire.IsFrameSizeError(err) {
		p := &ErrorPayload{Kind: KindSerialization, Message: errors.WithMessage(err, "arguments").Error()}
		return nil, p.AsCallError(op)
	} else if err != nil {
		c.shutdown()
		return nil, errors.WithMessagef(ErrClosed, "sending %s", op)
	}

	select {
	case resp, ok := <-wait:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Err != nil {
			return nil, resp.Err.AsCallError(op)
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CallResult invokes op and decodes its result into out. out may be nil if
// the result is not needed.
func (c *Client) CallResult(ctx context.Context, out interface{}, op string, args ...interface{}) error {
	raw, err := c.Call(ctx, op, args...)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(raw, out), "decoding result of %s", op)
}
