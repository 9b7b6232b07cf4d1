// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/url"
	stdsync "sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/pkg/sync"
	"solarwallet.io/go-solar/pkg/sync/atomic"
)

// ErrClosed is returned by calls on a closed bridge client.
var ErrClosed = errors.New("bridge closed")

// Client sends IPC messages to a bridge server. It implements ipc.IPC.
type Client struct {
	sync.Closer
	t       Transport
	closing atomic.Bool

	mutex   stdsync.Mutex
	pending map[string]chan *Msg
	subs    map[string]*subscription
}

var _ ipc.IPC = (*Client)(nil)

// NewClient starts a client on transport t.
func NewClient(t Transport) *Client {
	c := &Client{
		t:       t,
		pending: make(map[string]chan *Msg),
		subs:    make(map[string]*subscription),
	}
	go c.recvLoop()
	return c
}

// NewStreamClient starts a client on a framed byte stream.
func NewStreamClient(rwc io.ReadWriteCloser) *Client {
	return NewClient(NewStreamTransport(rwc))
}

// DialWebsocket connects to the websocket bridge at rawURL.
func DialWebsocket(ctx context.Context, rawURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing bridge %s", rawURL)
	}
	return NewClient(NewWebsocketTransport(conn)), nil
}

// DialStream connects to the stream bridge at a tcp://host:port or
// unix:///path URL.
func DialStream(ctx context.Context, rawURL string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing bridge URL")
	}
	var network, addr string
	switch u.Scheme {
	case "tcp":
		network, addr = "tcp", u.Host
	case "unix":
		network, addr = "unix", u.Path
	default:
		return nil, errors.Errorf("unsupported bridge URL scheme %q", u.Scheme)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing bridge %s", rawURL)
	}
	return NewStreamClient(conn), nil
}

func (c *Client) recvLoop() {
	defer c.shutdown()
	for {
		m, err := c.t.ReadMsg()
		if err != nil {
			if !c.closing.IsSet() && errors.Cause(err) != io.EOF {
				logger.WithError(err).Warn("bridge connection lost")
			}
			return
		}

		c.mutex.Lock()
		switch m.Kind {
		case KindResult:
			if ch, ok := c.pending[m.ID]; ok {
				delete(c.pending, m.ID)
				ch <- m
			}
		case KindEvent:
			if sub, ok := c.subs[m.ID]; ok {
				sub.push(m.Event)
			}
		}
		c.mutex.Unlock()
	}
}

func (c *Client) shutdown() {
	c.Closer.Close()
	c.t.Close()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	for id, sub := range c.subs {
		sub.stop()
		delete(c.subs, id)
	}
}

// Close closes the connection. Pending calls fail with ErrClosed.
func (c *Client) Close() error {
	if !c.closing.TrySet() {
		return errors.New("bridge client already closed")
	}
	return c.t.Close()
}

// request sends m and waits for its result.
func (c *Client) request(ctx context.Context, m *Msg) (*Msg, error) {
	ch := make(chan *Msg, 1)
	c.mutex.Lock()
	if c.IsClosed() {
		c.mutex.Unlock()
		return nil, ErrClosed
	}
	c.pending[m.ID] = ch
	c.mutex.Unlock()

	if err := c.t.WriteMsg(m); err != nil {
		c.drop(m.ID)
		return nil, errors.WithMessage(ErrClosed, err.Error())
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Error != nil {
			return nil, resp.Error.AsCallError(string(m.Type))
		}
		return resp, nil
	case <-ctx.Done():
		c.drop(m.ID)
		return nil, ctx.Err()
	}
}

func (c *Client) drop(id string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.pending, id)
}

// Call sends a call message and waits for the host's reply. Invalid
// messages are rejected without being sent.
func (c *Client) Call(ctx context.Context, t ipc.MessageType, args ...interface{}) (json.RawMessage, error) {
	if err := ipc.Validate(t, len(args)); err != nil {
		return nil, err
	}
	m := &Msg{Kind: KindCall, ID: uuid.NewString(), Type: t, Args: make([]json.RawMessage, len(args))}
	for i, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding argument %d of %s", i, t)
		}
		m.Args[i] = raw
	}

	resp, err := c.request(ctx, m)
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Subscribe subscribes to messages of type t published by the host. fn runs
// on its own goroutine per subscription and receives the messages in order.
func (c *Client) Subscribe(t ipc.MessageType, fn func(json.RawMessage)) (ipc.Unsubscribe, error) {
	if err := ipc.ValidateSubscription(t); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	sub := newSubscription(fn)

	c.mutex.Lock()
	c.subs[id] = sub
	c.mutex.Unlock()

	if _, err := c.request(context.Background(), &Msg{Kind: KindSubscribe, ID: id, Type: t}); err != nil {
		c.unsubscribe(id)
		return nil, err
	}

	var once stdsync.Once
	return func() {
		once.Do(func() {
			c.unsubscribe(id)
			if c.IsClosed() {
				return
			}
			if err := c.t.WriteMsg(&Msg{Kind: KindUnsubscribe, ID: id, Type: t}); err != nil {
				logger.WithError(err).Debugf("dropping %s unsubscription", t)
			}
		})
	}, nil
}

func (c *Client) unsubscribe(id string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if sub, ok := c.subs[id]; ok {
		sub.stop()
		delete(c.subs, id)
	}
}

// subscription queues the events of one subscription for its handler
// goroutine, so the receive loop never waits on a handler.
type subscription struct {
	fn   func(json.RawMessage)
	wake chan struct{}
	done chan struct{}

	mutex stdsync.Mutex
	queue []json.RawMessage
}

func newSubscription(fn func(json.RawMessage)) *subscription {
	s := &subscription{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *subscription) push(payload json.RawMessage) {
	s.mutex.Lock()
	s.queue = append(s.queue, payload)
	s.mutex.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// stop must be called at most once.
func (s *subscription) stop() { close(s.done) }

func (s *subscription) run() {
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}
		s.mutex.Lock()
		queue := s.queue
		s.queue = nil
		s.mutex.Unlock()
		for _, payload := range queue {
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(payload)
		}
	}
}
