// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package leveldb implements db.Database on top of goleveldb. It is the
// on-disk store of the web and desktop platforms.
package leveldb // import "solarwallet.io/go-solar/db/leveldb"

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"solarwallet.io/go-solar/db"
)

// Database is a leveldb-backed key/value store.
type Database struct {
	DB *leveldb.DB
}

var _ db.Database = (*Database)(nil)

// LoadDatabase opens or creates the leveldb database in directory path.
func LoadDatabase(path string) (*Database, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}
	return &Database{DB: ldb}, nil
}

// NewMemDatabase opens a leveldb database on volatile memory storage.
func NewMemDatabase() (*Database, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening leveldb on memory storage")
	}
	return &Database{DB: ldb}, nil
}

// Has returns whether key exists.
func (d *Database) Has(key string) (bool, error) {
	return d.DB.Has([]byte(key), nil)
}

// Get returns the value of key as a string.
func (d *Database) Get(key string) (string, error) {
	b, err := d.GetBytes(key)
	return string(b), err
}

// GetBytes returns the value of key.
func (d *Database) GetBytes(key string) ([]byte, error) {
	v, err := d.DB.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrap(db.ErrNotFound, key)
	}
	return v, errors.Wrap(err, "leveldb get")
}

// Keys returns all keys with the given prefix in ascending order.
func (d *Database) Keys(prefix string) ([]string, error) {
	it := d.DB.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer it.Release()

	keys := []string{}
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	return keys, errors.Wrap(it.Error(), "leveldb iterator")
}

// Put stores value under key.
func (d *Database) Put(key, value string) error {
	return d.PutBytes(key, []byte(value))
}

// PutBytes stores value under key.
func (d *Database) PutBytes(key string, value []byte) error {
	if err := db.CheckValue(value); err != nil {
		return errors.WithMessage(err, "leveldb")
	}
	return errors.Wrap(d.DB.Put([]byte(key), value, nil), "leveldb put")
}

// Delete removes key.
func (d *Database) Delete(key string) error {
	return errors.Wrap(d.DB.Delete([]byte(key), nil), "leveldb delete")
}

// NewBatch creates a batch on the database.
func (d *Database) NewBatch() db.Batch {
	return &Batch{db: d, batch: new(leveldb.Batch)}
}

// Close closes the leveldb database.
func (d *Database) Close() error {
	return d.DB.Close()
}

// Batch wraps a leveldb batch.
type Batch struct {
	db    *Database
	batch *leveldb.Batch
}

// Put queues a write.
func (b *Batch) Put(key, value string) error {
	return b.PutBytes(key, []byte(value))
}

// PutBytes queues a write.
func (b *Batch) PutBytes(key string, value []byte) error {
	if err := db.CheckValue(value); err != nil {
		return errors.WithMessage(err, "leveldb batch")
	}
	b.batch.Put([]byte(key), value)
	return nil
}

// Delete queues a deletion.
func (b *Batch) Delete(key string) error {
	b.batch.Delete([]byte(key))
	return nil
}

// Apply writes the batch to the database.
func (b *Batch) Apply() error {
	err := b.db.DB.Write(b.batch, nil)
	b.batch.Reset()
	return errors.Wrap(err, "leveldb batch write")
}

// Reset discards all queued changes.
func (b *Batch) Reset() {
	b.batch.Reset()
}
