// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package sync

import (
	stdsync "sync"

	"github.com/pkg/errors"
)

// Closer is a one-shot event. It starts open and can be closed exactly once.
// The zero value is an open Closer.
//
// Closers are used as barriers: goroutines select on Closed() to wait until
// some state (e.g. readiness or shutdown) has been reached.
type Closer struct {
	once   stdsync.Once
	mutex  stdsync.Mutex
	closed chan struct{}
	fired  bool

	onClose []func()
}

func (c *Closer) init() {
	c.once.Do(func() { c.closed = make(chan struct{}) })
}

// Close closes the Closer and runs all registered OnClose callbacks.
// Returns an error if the Closer was already closed.
func (c *Closer) Close() error {
	c.init()
	c.mutex.Lock()
	if c.fired {
		c.mutex.Unlock()
		return errors.New("already closed")
	}
	c.fired = true
	close(c.closed)
	fns := c.onClose
	c.onClose = nil
	c.mutex.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// Closed returns a channel that is closed once Close() has been called.
func (c *Closer) Closed() <-chan struct{} {
	c.init()
	return c.closed
}

// IsClosed returns whether Close() has been called.
func (c *Closer) IsClosed() bool {
	select {
	case <-c.Closed():
		return true
	default:
		return false
	}
}

// OnClose registers fn to be called on Close(). If the Closer is already
// closed, fn is called immediately. Returns whether fn was registered before
// closing.
func (c *Closer) OnClose(fn func()) bool {
	c.init()
	c.mutex.Lock()
	if c.fired {
		c.mutex.Unlock()
		fn()
		return false
	}
	c.onClose = append(c.onClose, fn)
	c.mutex.Unlock()
	return true
}
