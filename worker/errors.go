// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds assigned by the worker itself. Operations can report their own
// kinds by returning errors that implement Kind() string.
const (
	KindError            = "Error"
	KindUnknownOperation = "UnknownOperation"
	KindInvalidArguments = "InvalidArguments"
	KindPanic            = "Panic"
	KindSerialization    = "SerializationError"
)

// ErrClosed is returned by calls on a client whose connection is gone.
var ErrClosed = errors.New("worker connection closed")

// ErrorPayload is the serialized form of an error raised by an operation.
type ErrorPayload struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type kinded interface {
	Kind() string
}

type described interface {
	Meta() map[string]string
}

// NewErrorPayload serializes err. The kind and metadata are taken from the
// first error in err's chain that provides them.
func NewErrorPayload(err error) *ErrorPayload {
	p := &ErrorPayload{Kind: KindError, Message: err.Error()}
	var k kinded
	if errors.As(err, &k) && k.Kind() != "" {
		p.Kind = k.Kind()
	}
	var d described
	if errors.As(err, &d) {
		p.Meta = d.Meta()
	}
	return p
}

// CallError is an error raised by an operation on the far side of a worker
// connection, reconstructed from its ErrorPayload.
type CallError struct {
	Op      string
	kind    string
	Message string
	meta    map[string]string
}

// AsCallError reconstructs the error raised by op from its payload.
func (p *ErrorPayload) AsCallError(op string) *CallError {
	return &CallError{Op: op, kind: p.Kind, Message: p.Message, meta: p.Meta}
}

// Error returns the original error message.
func (e *CallError) Error() string { return e.Message }

// Kind returns the error kind reported by the worker.
func (e *CallError) Kind() string { return e.kind }

// Meta returns the error's metadata. It may be nil.
func (e *CallError) Meta() map[string]string { return e.meta }

// String describes the error including its origin.
func (e *CallError) String() string {
	return fmt.Sprintf("worker op %s failed (%s): %s", e.Op, e.kind, e.Message)
}

// IsKind returns whether err's chain contains a worker error of the given kind.
func IsKind(err error, kind string) bool {
	var k kinded
	return errors.As(err, &k) && k.Kind() == kind
}

// ArgumentError reports arguments that do not match an operation's signature.
type ArgumentError struct {
	Index  int // -1 for arity errors.
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %d: %s", e.Index, e.Reason)
}

// Kind returns KindInvalidArguments.
func (e *ArgumentError) Kind() string { return KindInvalidArguments }
