// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package test contains helpers for tests that span multiple goroutines.
package test // import "solarwallet.io/go-solar/pkg/test"

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/stretchr/testify/require"

	pkgsync "solarwallet.io/go-solar/pkg/sync"
	"solarwallet.io/go-solar/pkg/sync/atomic"
)

// stage is a named group of goroutines in a concurrent test. A stage is done
// once all of its goroutines returned or one of them failed.
type stage struct {
	name    string
	started pkgsync.Closer // Closed once the expected goroutine count is known.
	failed  atomic.Bool

	mutex   sync.Mutex
	want    int // Expected number of goroutines.
	joined  int // Goroutines that entered the stage.
	pending sync.WaitGroup

	ct *ConcurrentT
}

// Errorf records a failure on the underlying test.
func (s *stage) Errorf(format string, args ...interface{}) {
	s.ct.t.Errorf("stage %q: "+format, append([]interface{}{s.name}, args...)...)
}

// FailNow marks the stage as failed and terminates the calling goroutine.
func (s *stage) FailNow() {
	s.failed.Set()
	s.ct.FailNow()
}

func (s *stage) join(n int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started.IsClosed() {
		s.want = n
		s.pending.Add(n)
		s.started.Close()
	} else if n != s.want {
		panic(fmt.Sprintf("stage %q joined with inconsistent count %d vs %d", s.name, n, s.want))
	}
	if s.joined == s.want {
		panic(fmt.Sprintf("stage %q joined too often", s.name))
	}
	s.joined++
}

func (s *stage) wait() bool {
	<-s.started.Closed()
	s.pending.Wait()
	return !s.failed.IsSet()
}

// ConcurrentT is a testing object that can be shared by multiple goroutines.
// Goroutines run named stages via Stage or StageN and other goroutines can
// wait for a stage to complete via Wait. A failing stage fails the whole
// test; goroutines waiting on it exit via runtime.Goexit.
type ConcurrentT struct {
	t require.TestingT

	failMutex sync.Mutex
	failed    bool

	mutex  sync.Mutex
	stages map[string]*stage
}

// NewConcurrent creates a new concurrent testing object.
func NewConcurrent(t require.TestingT) *ConcurrentT {
	return &ConcurrentT{t: t, stages: make(map[string]*stage)}
}

func (t *ConcurrentT) stage(name string) *stage {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	s, ok := t.stages[name]
	if !ok {
		s = &stage{name: name, ct: t}
		t.stages[name] = s
	}
	return s
}

// FailNow fails the test once and terminates the calling goroutine.
func (t *ConcurrentT) FailNow() {
	t.failMutex.Lock()
	first := !t.failed
	t.failed = true
	t.failMutex.Unlock()

	if first {
		t.t.FailNow()
	}
	runtime.Goexit()
}

// Wait blocks until all named stages are done. If any of them failed, the
// calling goroutine is terminated.
func (t *ConcurrentT) Wait(names ...string) {
	if len(names) == 0 {
		panic("Wait() called without stage names")
	}
	for _, name := range names {
		if !t.stage(name).wait() {
			runtime.Goexit()
		}
	}
}

// StageN runs fn as one of goroutines goroutines of the named stage and waits
// until the whole stage is done. All StageN calls of a stage must pass the
// same goroutine count. fn must not hand its T to other goroutines.
func (t *ConcurrentT) StageN(name string, goroutines int, fn func(require.TestingT)) {
	s := t.stage(name)
	s.join(goroutines)

	finished := false
	defer func() {
		// fn called FailNow or panicked.
		if !finished {
			s.failed.Set()
			s.pending.Done()
		}
	}()

	fn(s)
	finished = true
	s.pending.Done()
	t.Wait(name)
}

// Stage is shorthand for StageN(name, 1, fn).
func (t *ConcurrentT) Stage(name string, fn func(require.TestingT)) {
	t.StageN(name, 1, fn)
}
