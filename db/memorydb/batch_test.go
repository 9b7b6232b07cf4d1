// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package memorydb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db/test"
)

func TestDatabase(t *testing.T) {
	t.Run("Generic Database test", func(t *testing.T) {
		test.GenericDatabaseTest(t, NewDatabase())
	})
}

func TestBatch(t *testing.T) {
	t.Run("Generic Batch test", func(t *testing.T) {
		test.GenericBatchTest(t, NewDatabase())
	})
}

func TestBatch_PutBytes_NilArgs(t *testing.T) {
	err := new(Batch).PutBytes("key", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}

func TestBatch_Apply_Unbound(t *testing.T) {
	assert.Error(t, new(Batch).Apply())
}
