// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db/memorydb"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/platform/web"
	"solarwallet.io/go-solar/stellar/multisig"
	"solarwallet.io/go-solar/wallet/keystore"
)

func TestWatchSignatureRequests(t *testing.T) {
	kp := keypair.MustRandom()
	subscribed := make(chan string, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case subscribed <- r.URL.Query().Get("pubkey"):
		default:
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, ev := range []multisig.Event{
			{Type: multisig.EventRequestAdded, Request: multisig.SignatureRequest{Hash: "h1"}},
			{Type: multisig.EventRequestUpdated, Request: multisig.SignatureRequest{Hash: "h1"}},
			{Type: multisig.EventRequestAdded, Request: multisig.SignatureRequest{Hash: "ignored"}},
			{Type: multisig.EventRequestAdded, Request: multisig.SignatureRequest{Hash: "h2"}},
		} {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	ks := keystore.New(memorydb.NewDatabase(), keystore.WithScryptN(keystore.LightScryptN))
	impl, err := web.New(platform.Options{DB: memorydb.NewDatabase(), Keystore: ks})
	require.NoError(t, err)
	defer impl.Close()
	c := &Client{IPC: impl.IPC(), ProtocolHandler: impl.ProtocolHandler()}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = c.WatchSignatureRequests(ctx, multisig.NewService(srv.Client()), srv.URL)
	assert.Error(t, err, "no accounts")

	_, err = c.IPC.Call(ctx, ipc.SaveKey, "1", "Main", kp.Seed(), "")
	require.NoError(t, err)
	_, err = c.IPC.Call(ctx, ipc.StoreIgnoredSignatureRequestHashes, []string{"ignored"})
	require.NoError(t, err)

	require.NoError(t, c.WatchSignatureRequests(ctx, multisig.NewService(srv.Client()), srv.URL))
	assert.Equal(t, kp.Address(), <-subscribed)

	var shown []string
	for _, n := range impl.(*web.Implementation).Host().Notifications() {
		shown = append(shown, n.Text)
	}
	assert.Equal(t, []string{"h1", "h2"}, shown)
}
