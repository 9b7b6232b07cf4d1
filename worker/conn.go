// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

// Conn is a connection between two execution contexts.
// The Send and Recv methods do not have to be re-entrancy-safe, but calls to
// Close that happen in other goroutines must interrupt ongoing Send and Recv
// calls.
type Conn interface {
	// Recv receives a message.
	// If an error occurs, the connection must close itself.
	Recv() (*Msg, error)
	// Send sends a message.
	// If an error occurs, the connection must close itself.
	Send(*Msg) error
	// Close closes the connection.
	Close() error
}
