// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package client

import (
	"context"
	"encoding/json"

	"solarwallet.io/go-solar/ipc"
)

// ProtocolHandlerDismissedSetting is the setting persisting that the user
// declined to make the wallet the web+stellar: link handler.
const ProtocolHandlerDismissedSetting = "protocolHandlerDismissed"

// PromptProtocolHandler makes the wallet the default web+stellar: handler
// where that does not replace another application's registration. It
// returns true if another handler is installed and the user should be asked
// to confirm, unless the user dismissed the question before. Failures are
// logged and treated as nothing to do.
func (c *Client) PromptProtocolHandler(ctx context.Context) bool {
	settings, err := ipc.Call[ipc.Settings](ctx, c.IPC, ipc.ReadSettings)
	if err != nil {
		logger.WithError(err).Warn("reading settings")
		return false
	}
	var dismissed bool
	if raw, ok := settings[ProtocolHandlerDismissedSetting]; ok && json.Unmarshal(raw, &dismissed) == nil && dismissed {
		return false
	}

	isDefault, err := c.ProtocolHandler.IsDefaultProtocolClient(ctx)
	if err != nil {
		logger.WithError(err).Debug("querying protocol handler")
		return false
	}
	if isDefault {
		return false
	}
	otherInstalled, err := c.ProtocolHandler.IsDifferentHandlerInstalled(ctx)
	if err != nil {
		logger.WithError(err).Debug("querying protocol handler")
		return false
	}
	if otherInstalled {
		return true
	}

	if ok, err := c.ProtocolHandler.SetAsDefaultProtocolClient(ctx); err != nil || !ok {
		logger.WithError(err).Debug("registering as protocol handler failed")
	}
	return false
}

// AcceptProtocolHandler registers the wallet as the default handler after
// the user confirmed, and notifies the user of the outcome.
func (c *Client) AcceptProtocolHandler(ctx context.Context) bool {
	ok, err := c.ProtocolHandler.SetAsDefaultProtocolClient(ctx)
	if err != nil {
		logger.WithError(err).Warn("registering as protocol handler")
	}
	n := ipc.Notification{Title: "Solar", Text: "Successfully registered Solar as default handler."}
	if !ok || err != nil {
		n.Text = "Could not register Solar as default handler."
	}
	if _, err := c.IPC.Call(ctx, ipc.ShowNotification, n); err != nil {
		logger.WithError(err).Debug("showing notification")
	}
	return ok && err == nil
}

// DismissProtocolHandler persists that the user declined, so that
// PromptProtocolHandler does not ask again.
func (c *Client) DismissProtocolHandler(ctx context.Context) error {
	_, err := c.IPC.Call(ctx, ipc.StoreSettings, map[string]bool{ProtocolHandlerDismissedSetting: true})
	return err
}
