// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"context"
	"encoding/json"
	"fmt"
)

// Operation is a function exposed by a Server. It receives the JSON encoded
// arguments of a request and returns a JSON encodable result.
type Operation func(ctx context.Context, args []json.RawMessage) (interface{}, error)

// Operations is the static set of named operations of a Server.
type Operations map[string]Operation

func checkArity(args []json.RawMessage, n int) error {
	if len(args) != n {
		return &ArgumentError{Index: -1, Reason: fmt.Sprintf("got %d arguments, want %d", len(args), n)}
	}
	return nil
}

func decodeArg(args []json.RawMessage, i int, v interface{}) error {
	if err := json.Unmarshal(args[i], v); err != nil {
		return &ArgumentError{Index: i, Reason: err.Error()}
	}
	return nil
}

// Op0 exposes a function without arguments.
func Op0[R any](fn func(context.Context) (R, error)) Operation {
	return func(ctx context.Context, args []json.RawMessage) (interface{}, error) {
		if err := checkArity(args, 0); err != nil {
			return nil, err
		}
		return fn(ctx)
	}
}

// Op1 exposes a function with one argument.
func Op1[A, R any](fn func(context.Context, A) (R, error)) Operation {
	return func(ctx context.Context, args []json.RawMessage) (interface{}, error) {
		var a A
		if err := checkArity(args, 1); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 0, &a); err != nil {
			return nil, err
		}
		return fn(ctx, a)
	}
}

// Op2 exposes a function with two arguments.
func Op2[A, B, R any](fn func(context.Context, A, B) (R, error)) Operation {
	return func(ctx context.Context, args []json.RawMessage) (interface{}, error) {
		var (
			a A
			b B
		)
		if err := checkArity(args, 2); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 0, &a); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 1, &b); err != nil {
			return nil, err
		}
		return fn(ctx, a, b)
	}
}

// Op3 exposes a function with three arguments.
func Op3[A, B, C, R any](fn func(context.Context, A, B, C) (R, error)) Operation {
	return func(ctx context.Context, args []json.RawMessage) (interface{}, error) {
		var (
			a A
			b B
			c C
		)
		if err := checkArity(args, 3); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 0, &a); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 1, &b); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 2, &c); err != nil {
			return nil, err
		}
		return fn(ctx, a, b, c)
	}
}

// Op4 exposes a function with four arguments.
func Op4[A, B, C, D, R any](fn func(context.Context, A, B, C, D) (R, error)) Operation {
	return func(ctx context.Context, args []json.RawMessage) (interface{}, error) {
		var (
			a A
			b B
			c C
			d D
		)
		if err := checkArity(args, 4); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 0, &a); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 1, &b); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 2, &c); err != nil {
			return nil, err
		}
		if err := decodeArg(args, 3, &d); err != nil {
			return nil, err
		}
		return fn(ctx, a, b, c, d)
	}
}

// Exec1 exposes a function with one argument and no result.
func Exec1[A any](fn func(context.Context, A) error) Operation {
	return Op1(func(ctx context.Context, a A) (interface{}, error) {
		return nil, fn(ctx, a)
	})
}
