// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package db

import (
	"strings"

	"github.com/pkg/errors"
)

// table is a view on a Database that prefixes all keys.
type table struct {
	Database
	prefix string
}

// NewTable creates a view on db in which all keys are prefixed with prefix.
// Keys returned by Keys() have the prefix stripped. Closing the table closes
// the underlying database.
func NewTable(db Database, prefix string) Database {
	if db == nil {
		panic("nil database")
	}
	return &table{Database: db, prefix: prefix}
}

func (t *table) key(key string) string { return t.prefix + key }

func (t *table) Has(key string) (bool, error)        { return t.Database.Has(t.key(key)) }
func (t *table) Get(key string) (string, error)      { return t.Database.Get(t.key(key)) }
func (t *table) GetBytes(key string) ([]byte, error) { return t.Database.GetBytes(t.key(key)) }
func (t *table) Put(key, value string) error         { return t.Database.Put(t.key(key), value) }
func (t *table) Delete(key string) error             { return t.Database.Delete(t.key(key)) }

func (t *table) PutBytes(key string, value []byte) error {
	if err := CheckValue(value); err != nil {
		return errors.WithMessage(err, "table")
	}
	return t.Database.PutBytes(t.key(key), value)
}

func (t *table) Keys(prefix string) ([]string, error) {
	keys, err := t.Database.Keys(t.key(prefix))
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, t.prefix)
	}
	return keys, nil
}

func (t *table) NewBatch() Batch {
	return &tableBatch{Batch: t.Database.NewBatch(), table: t}
}

type tableBatch struct {
	Batch
	table *table
}

func (b *tableBatch) Put(key, value string) error { return b.Batch.Put(b.table.key(key), value) }
func (b *tableBatch) Delete(key string) error     { return b.Batch.Delete(b.table.key(key)) }

func (b *tableBatch) PutBytes(key string, value []byte) error {
	if err := CheckValue(value); err != nil {
		return errors.WithMessage(err, "table batch")
	}
	return b.Batch.PutBytes(b.table.key(key), value)
}
