// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package memorydb provides a volatile in-memory db.Database.
package memorydb // import "solarwallet.io/go-solar/db/memorydb"

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/db"
)

// Database is an in-memory key/value store. It is safe for concurrent use.
type Database struct {
	mutex sync.RWMutex
	data  map[string][]byte
}

var _ db.Database = (*Database)(nil)

// NewDatabase creates an empty in-memory database.
func NewDatabase() *Database {
	return &Database{data: make(map[string][]byte)}
}

// Has returns whether key exists.
func (d *Database) Has(key string) (bool, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	_, ok := d.data[key]
	return ok, nil
}

// Get returns the value of key as a string.
func (d *Database) Get(key string) (string, error) {
	b, err := d.GetBytes(key)
	return string(b), err
}

// GetBytes returns a copy of the value of key.
func (d *Database) GetBytes(key string) ([]byte, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	v, ok := d.data[key]
	if !ok {
		return nil, errors.Wrap(db.ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Keys returns all keys with the given prefix in ascending order.
func (d *Database) Keys(prefix string) ([]string, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	keys := []string{}
	for k := range d.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Put stores value under key.
func (d *Database) Put(key, value string) error {
	return d.PutBytes(key, []byte(value))
}

// PutBytes stores a copy of value under key.
func (d *Database) PutBytes(key string, value []byte) error {
	if err := db.CheckValue(value); err != nil {
		return errors.WithMessage(err, "memorydb")
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data[key] = append([]byte{}, value...)
	return nil
}

// Delete removes key.
func (d *Database) Delete(key string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.data, key)
	return nil
}

// NewBatch creates a batch on the database.
func (d *Database) NewBatch() db.Batch {
	return &Batch{db: d}
}

// Close is a no-op.
func (d *Database) Close() error { return nil }
