// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package db defines the key/value store that backs persistent client state
// such as settings, sealed keys and protocol handler preferences.
//
// Implementations live in the subpackages memorydb (volatile, for tests and
// ephemeral sessions) and leveldb (on-disk).
package db // import "solarwallet.io/go-solar/db"

import "github.com/pkg/errors"

// ErrNotFound is returned by Get and GetBytes for keys that do not exist.
var ErrNotFound = errors.New("key not found")

// Reader reads from a key/value store.
type Reader interface {
	// Has returns whether the key exists.
	Has(key string) (bool, error)
	// Get returns the value stored under key as a string.
	Get(key string) (string, error)
	// GetBytes returns the value stored under key.
	GetBytes(key string) ([]byte, error)
	// Keys returns all keys starting with prefix, in ascending order.
	Keys(prefix string) ([]string, error)
}

// Writer writes to a key/value store.
type Writer interface {
	// Put stores value under key.
	Put(key, value string) error
	// PutBytes stores value under key. value must not be nil.
	PutBytes(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Batch collects writes that are applied atomically.
type Batch interface {
	Writer
	// Apply writes all collected changes to the database.
	Apply() error
	// Reset discards all collected changes.
	Reset()
}

// Database is a key/value store.
type Database interface {
	Reader
	Writer
	// NewBatch creates a batch that applies to this database.
	NewBatch() Batch
	// Close releases the database's resources.
	Close() error
}

// CheckValue returns an error if a value to be written is nil.
func CheckValue(value []byte) error {
	if value == nil {
		return errors.New("value must not be nil")
	}
	return nil
}
