// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package ipc defines the messages the wallet's main context exchanges with
// its host (browser storage, desktop main process or native app) and a
// reference handler implementing them.
package ipc // import "solarwallet.io/go-solar/ipc"

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Unsubscribe ends a subscription.
type Unsubscribe func()

// IPC sends messages to the host.
type IPC interface {
	// Call sends a call message and returns the host's JSON encoded reply.
	Call(ctx context.Context, t MessageType, args ...interface{}) (json.RawMessage, error)
	// Subscribe calls fn with the payload of every message of type t the
	// host publishes until the returned Unsubscribe is called. fn runs on a
	// goroutine of its own subscription, in publishing order, so it may
	// block and issue calls on the same IPC.
	Subscribe(t MessageType, fn func(json.RawMessage)) (Unsubscribe, error)
}

// Call validates and sends a call message and decodes the reply into R.
// Invalid messages are never dispatched.
func Call[R any](ctx context.Context, ipc IPC, t MessageType, args ...interface{}) (R, error) {
	var res R
	if err := Validate(t, len(args)); err != nil {
		return res, err
	}
	raw, err := ipc.Call(ctx, t, args...)
	if err != nil {
		return res, err
	}
	if len(raw) == 0 {
		return res, nil
	}
	return res, errors.Wrapf(json.Unmarshal(raw, &res), "decoding %s reply", t)
}

// Notification is the argument of ShowNotification.
type Notification struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Settings are the persisted application settings, keyed by setting name.
type Settings map[string]json.RawMessage
