// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package client

import (
	"context"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/stellar/multisig"
	"solarwallet.io/go-solar/wallet"
)

// Accounts returns the public keys of all stored keys.
func (c *Client) Accounts(ctx context.Context) ([]string, error) {
	ids, err := ipc.Call[[]string](ctx, c.IPC, ipc.GetKeyIDs)
	if err != nil {
		return nil, err
	}
	accounts := make([]string, 0, len(ids))
	for _, id := range ids {
		k, err := ipc.Call[wallet.PublicKeyData](ctx, c.IPC, ipc.GetPublicKeyData, id)
		if err != nil {
			return nil, errors.WithMessagef(err, "loading key %s", id)
		}
		accounts = append(accounts, k.PublicKey)
	}
	return accounts, nil
}

// WatchSignatureRequests shows a notification for every signature request
// added for one of the stored accounts until ctx is done. Requests the user
// chose to ignore are skipped.
func (c *Client) WatchSignatureRequests(ctx context.Context, svc *multisig.Service, serviceURL string) error {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.New("no stored accounts to watch")
	}

	return svc.Subscribe(ctx, serviceURL, accounts, func(ev multisig.Event) {
		if ev.Type != multisig.EventRequestAdded {
			return
		}
		ignored, err := ipc.Call[[]string](ctx, c.IPC, ipc.ReadIgnoredSignatureRequestHashes)
		if err != nil {
			logger.WithError(err).Warn("reading ignored signature requests")
		}
		for _, h := range ignored {
			if h == ev.Request.Hash {
				return
			}
		}
		n := ipc.Notification{Title: "New signature request", Text: ev.Request.Hash}
		if _, err := c.IPC.Call(ctx, ipc.ShowNotification, n); err != nil {
			logger.WithError(err).Warn("showing notification")
		}
	})
}
