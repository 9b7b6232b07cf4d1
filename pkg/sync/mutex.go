// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package sync contains synchronization primitives that complement the
// standard library's sync package.
package sync // import "solarwallet.io/go-solar/pkg/sync"

import (
	"context"
	stdsync "sync"
)

// Mutex is a replacement of the standard mutex type.
// It supports the additional TryLock() and TryLockCtx() functions.
// The zero value is an unlocked mutex.
type Mutex struct {
	locked chan struct{} // The lock, capacity 1.
	once   stdsync.Once  // Lazily creates locked.
}

func (m *Mutex) init() {
	m.once.Do(func() { m.locked = make(chan struct{}, 1) })
}

// Lock blocks until the mutex is locked.
func (m *Mutex) Lock() {
	m.init()
	m.locked <- struct{}{}
}

// TryLock tries to lock the mutex without blocking.
// Returns whether the mutex was acquired.
func (m *Mutex) TryLock() bool {
	m.init()
	select {
	case m.locked <- struct{}{}:
		return true
	default:
		return false
	}
}

// TryLockCtx tries to lock the mutex within the context's deadline.
// Returns whether the mutex was acquired. If the context is already done, the
// mutex is never acquired, even if it is unlocked.
func (m *Mutex) TryLockCtx(ctx context.Context) bool {
	m.init()
	if ctx == nil {
		return m.TryLock()
	}

	select {
	case <-ctx.Done():
		return false
	default:
	}

	select {
	case m.locked <- struct{}{}:
		// Discard the lock if the context expired concurrently.
		select {
		case <-ctx.Done():
			<-m.locked
			return false
		default:
			return true
		}
	case <-ctx.Done():
		return false
	}
}

// Unlock unlocks the mutex.
// Panics if the mutex was not locked.
func (m *Mutex) Unlock() {
	m.init()
	select {
	case <-m.locked:
	default:
		panic("unlock of unlocked mutex")
	}
}
