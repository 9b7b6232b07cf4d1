// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import "encoding/json"

// MsgType distinguishes the messages exchanged between a Client and a Server.
type MsgType string

const (
	// MsgReady is sent exactly once by the server after its startup hooks
	// completed. Clients hold back requests until they received it.
	MsgReady MsgType = "ready"
	// MsgRequest invokes an operation.
	MsgRequest MsgType = "request"
	// MsgResponse carries the result or error of the request with the same ID.
	MsgResponse MsgType = "response"
)

// Msg is the unit of communication across the execution context boundary.
// It only carries serialized data; nothing is shared between the contexts.
type Msg struct {
	Type   MsgType           `json:"type"`
	ID     string            `json:"id,omitempty"`
	Op     string            `json:"op,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Result json.RawMessage   `json:"result,omitempty"`
	Err    *ErrorPayload     `json:"error,omitempty"`
}
