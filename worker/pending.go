// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import "sync"

// pending is the registry of calls that wait for their response.
// Each call has its own buffered channel, so a response is only ever
// delivered to the call that sent the matching request.
type pending struct {
	mutex  sync.Mutex
	calls  map[string]chan *Msg
	closed bool
}

func newPending() *pending {
	return &pending{calls: make(map[string]chan *Msg)}
}

// add registers a call. After failAll, the returned channel is closed.
func (p *pending) add(id string) <-chan *Msg {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	ch := make(chan *Msg, 1)
	if p.closed {
		close(ch)
		return ch
	}
	p.calls[id] = ch
	return ch
}

// remove deletes a call that is no longer waiting.
func (p *pending) remove(id string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	delete(p.calls, id)
}

// resolve delivers a response to its call. Returns false if no call with the
// response's ID is waiting.
func (p *pending) resolve(m *Msg) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	ch, ok := p.calls[m.ID]
	if !ok {
		return false
	}
	delete(p.calls, m.ID)
	ch <- m
	return true
}

// failAll closes the channels of all waiting calls and rejects future ones.
func (p *pending) failAll() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.closed = true
	for id, ch := range p.calls {
		close(ch)
		delete(p.calls, id)
	}
}

func (p *pending) len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.calls)
}
