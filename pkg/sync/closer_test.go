// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloser_Close(t *testing.T) {
	t.Parallel()

	var c Closer
	assert.False(t, c.IsClosed(), "fresh Closer must be open")
	select {
	case <-c.Closed():
		t.Fatal("Closed() of an open Closer must block")
	default:
	}

	assert.NoError(t, c.Close())
	assert.True(t, c.IsClosed())
	assert.Error(t, c.Close(), "second Close must fail")

	select {
	case <-c.Closed():
	default:
		t.Fatal("Closed() must be closed after Close")
	}
}

func TestCloser_OnClose(t *testing.T) {
	t.Parallel()

	var c Closer
	called := 0
	assert.True(t, c.OnClose(func() { called++ }))
	assert.Equal(t, 0, called)
	c.Close()
	assert.Equal(t, 1, called)

	assert.False(t, c.OnClose(func() { called++ }), "OnClose after Close must run instantly")
	assert.Equal(t, 2, called)
}
