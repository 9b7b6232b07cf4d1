// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package platform

import (
	"context"

	"solarwallet.io/go-solar/ipc"
)

// IPCProtocolHandler forwards protocol handler queries to the host process.
type IPCProtocolHandler struct {
	IPC ipc.IPC
}

var _ ProtocolHandler = (*IPCProtocolHandler)(nil)

func (h *IPCProtocolHandler) IsDefaultProtocolClient(ctx context.Context) (bool, error) {
	return ipc.Call[bool](ctx, h.IPC, ipc.IsDefaultProtocolClient)
}

func (h *IPCProtocolHandler) IsDifferentHandlerInstalled(ctx context.Context) (bool, error) {
	return ipc.Call[bool](ctx, h.IPC, ipc.IsDifferentHandlerInstalled)
}

func (h *IPCProtocolHandler) SetAsDefaultProtocolClient(ctx context.Context) (bool, error) {
	return ipc.Call[bool](ctx, h.IPC, ipc.SetAsDefaultProtocolClient)
}

// FixedProtocolHandler answers protocol handler queries with constants. It
// serves platforms whose registration is decided at install time.
type FixedProtocolHandler struct {
	Default, DifferentInstalled, SetResult bool
}

var _ ProtocolHandler = FixedProtocolHandler{}

func (h FixedProtocolHandler) IsDefaultProtocolClient(context.Context) (bool, error) {
	return h.Default, nil
}

func (h FixedProtocolHandler) IsDifferentHandlerInstalled(context.Context) (bool, error) {
	return h.DifferentInstalled, nil
}

func (h FixedProtocolHandler) SetAsDefaultProtocolClient(context.Context) (bool, error) {
	return h.SetResult, nil
}
