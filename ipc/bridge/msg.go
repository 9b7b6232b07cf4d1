// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package bridge carries IPC messages between the main context and a host
// process, over a websocket (desktop) or a framed byte stream (native app).
package bridge // import "solarwallet.io/go-solar/ipc/bridge"

import (
	"encoding/json"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/worker"
)

// Msg kinds.
const (
	KindCall        = "call"
	KindResult      = "result"
	KindSubscribe   = "subscribe"
	KindUnsubscribe = "unsubscribe"
	KindEvent       = "event"
)

// Msg is the wire format of the bridge. Calls and their results share an
// ID. Subscriptions are named by the ID of their subscribe message; events
// and the unsubscribe message carry it.
type Msg struct {
	Kind   string               `json:"kind"`
	ID     string               `json:"id"`
	Type   ipc.MessageType      `json:"type,omitempty"`
	Args   []json.RawMessage    `json:"args,omitempty"`
	Result json.RawMessage      `json:"result,omitempty"`
	Error  *worker.ErrorPayload `json:"error,omitempty"`
	Event  json.RawMessage      `json:"event,omitempty"`
}
