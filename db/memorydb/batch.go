// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package memorydb

import (
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/db"
)

type batchOp struct {
	key    string
	value  []byte
	delete bool
}

// Batch collects writes to a Database and applies them under a single lock.
type Batch struct {
	db  *Database
	ops []batchOp
}

var _ db.Batch = (*Batch)(nil)

// Put queues a write.
func (b *Batch) Put(key, value string) error {
	return b.PutBytes(key, []byte(value))
}

// PutBytes queues a write.
func (b *Batch) PutBytes(key string, value []byte) error {
	if err := db.CheckValue(value); err != nil {
		return errors.WithMessage(err, "memorydb batch")
	}
	b.ops = append(b.ops, batchOp{key: key, value: append([]byte{}, value...)})
	return nil
}

// Delete queues a deletion.
func (b *Batch) Delete(key string) error {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
	return nil
}

// Apply writes all queued changes.
func (b *Batch) Apply() error {
	if b.db == nil {
		return errors.New("batch is not bound to a database")
	}
	b.db.mutex.Lock()
	defer b.db.mutex.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.data, op.key)
		} else {
			b.db.data[op.key] = op.value
		}
	}
	b.ops = nil
	return nil
}

// Reset discards all queued changes.
func (b *Batch) Reset() {
	b.ops = nil
}
