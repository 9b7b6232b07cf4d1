// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package test contains generic tests for db.Database implementations.
package test // import "solarwallet.io/go-solar/db/test"

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db"
)

// GenericDatabaseTest tests the basic reads and writes of a fresh database.
func GenericDatabaseTest(t *testing.T, d db.Database) {
	has, err := d.Has("missing")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = d.Get("missing")
	assert.True(t, errors.Is(err, db.ErrNotFound), "Get of a missing key must return ErrNotFound")
	_, err = d.GetBytes("missing")
	assert.True(t, errors.Is(err, db.ErrNotFound), "GetBytes of a missing key must return ErrNotFound")

	require.NoError(t, d.Put("settings", `{"agreedToTermsAt":"2026-01-01"}`))
	v, err := d.Get("settings")
	require.NoError(t, err)
	assert.Equal(t, `{"agreedToTermsAt":"2026-01-01"}`, v)

	require.NoError(t, d.PutBytes("blob", []byte{0, 1, 2}))
	b, err := d.GetBytes("blob")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, b)

	require.NoError(t, d.Put("key:2", "b"))
	require.NoError(t, d.Put("key:1", "a"))
	keys, err := d.Keys("key:")
	require.NoError(t, err)
	assert.Equal(t, []string{"key:1", "key:2"}, keys)

	require.NoError(t, d.Delete("key:1"))
	require.NoError(t, d.Delete("key:1"), "deleting a missing key must succeed")
	has, err = d.Has("key:1")
	require.NoError(t, err)
	assert.False(t, has)

	err = d.PutBytes("nil", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}

// GenericBatchTest tests that batches only apply their writes on Apply.
func GenericBatchTest(t *testing.T, d db.Database) {
	require.NoError(t, d.Put("stale", "x"))

	batch := d.NewBatch()
	require.NoError(t, batch.Put("a", "1"))
	require.NoError(t, batch.PutBytes("b", []byte("2")))
	require.NoError(t, batch.Delete("stale"))

	has, err := d.Has("a")
	require.NoError(t, err)
	assert.False(t, has, "batch writes must not be visible before Apply")

	require.NoError(t, batch.Apply())
	v, err := d.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = d.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	has, err = d.Has("stale")
	require.NoError(t, err)
	assert.False(t, has)

	batch.Reset()
	require.NoError(t, batch.Put("c", "3"))
	batch.Reset()
	require.NoError(t, batch.Apply())
	has, err = d.Has("c")
	require.NoError(t, err)
	assert.False(t, has, "Reset must discard collected writes")

	err = batch.PutBytes("nil", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}
