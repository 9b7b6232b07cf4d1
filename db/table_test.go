// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db"
	"solarwallet.io/go-solar/db/memorydb"
	"solarwallet.io/go-solar/db/test"
)

func TestNewTable_NilArgs(t *testing.T) {
	assert.Panics(t, func() { db.NewTable(nil, "prefix") })
}

func TestTable_PutBytes_NilArgs(t *testing.T) {
	err := db.NewTable(memorydb.NewDatabase(), "p:").PutBytes("key", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}

func TestTable(t *testing.T) {
	t.Run("Generic Database test", func(t *testing.T) {
		test.GenericDatabaseTest(t, db.NewTable(memorydb.NewDatabase(), "settings:"))
	})
	t.Run("Generic Batch test", func(t *testing.T) {
		test.GenericBatchTest(t, db.NewTable(memorydb.NewDatabase(), "keys:"))
	})
}

func TestTable_Isolation(t *testing.T) {
	base := memorydb.NewDatabase()
	a := db.NewTable(base, "a:")
	b := db.NewTable(base, "b:")

	require.NoError(t, a.Put("k", "1"))
	has, err := b.Has("k")
	require.NoError(t, err)
	assert.False(t, has, "tables must not see each other's keys")

	v, err := base.Get("a:k")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	keys, err := a.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}
