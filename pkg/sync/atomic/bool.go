// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package atomic contains extensions of "sync/atomic".
package atomic // import "solarwallet.io/go-solar/pkg/sync/atomic"

import "sync/atomic"

// Bool is an atomic boolean. The zero value is false.
type Bool int32

// IsSet returns whether the bool is set.
func (b *Bool) IsSet() bool { return atomic.LoadInt32((*int32)(b)) != 0 }

// Set sets the bool to true.
func (b *Bool) Set() { atomic.StoreInt32((*int32)(b), 1) }

// TrySet sets the bool to true and returns whether it was false before.
func (b *Bool) TrySet() bool { return atomic.SwapInt32((*int32)(b), 1) == 0 }

// Unset sets the bool to false.
func (b *Bool) Unset() { atomic.StoreInt32((*int32)(b), 0) }
