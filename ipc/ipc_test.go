// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db/memorydb"
	"solarwallet.io/go-solar/wallet"
	"solarwallet.io/go-solar/wallet/keystore"
)

func newTestLocal() (*Local, *HeadlessHost) {
	host := new(HeadlessHost)
	ks := keystore.New(memorydb.NewDatabase(), keystore.WithScryptN(keystore.LightScryptN))
	return NewLocal(memorydb.NewDatabase(), ks, host), host
}

// countingIPC records dispatched calls.
type countingIPC struct {
	calls int
}

func (c *countingIPC) Call(context.Context, MessageType, ...interface{}) (json.RawMessage, error) {
	c.calls++
	return json.RawMessage(`true`), nil
}

func (c *countingIPC) Subscribe(MessageType, func(json.RawMessage)) (Unsubscribe, error) {
	return func() {}, nil
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(ReadSettings, 0))
	assert.NoError(t, Validate(SaveKey, 4))

	var verr *ValidationError
	assert.True(t, errors.As(Validate("Bogus", 0), &verr))
	assert.True(t, errors.As(Validate(GetPublicKeyData, 2), &verr))
	assert.Equal(t, "InvalidMessage", verr.Kind())
	assert.Error(t, Validate(DeepLinkURL, 0), "subscriptions can not be called")

	assert.NoError(t, ValidateSubscription(NotificationClicked))
	assert.Error(t, ValidateSubscription(ReadSettings))
	assert.Error(t, ValidateSubscription("Bogus"))

	assert.Len(t, MessageTypes(), 18)
	for _, mt := range MessageTypes() {
		_, ok := Lookup(mt)
		assert.True(t, ok, mt)
	}
}

func TestCall_NeverDispatchesInvalid(t *testing.T) {
	c := new(countingIPC)
	ctx := context.Background()

	_, err := Call[bool](ctx, c, "Bogus")
	assert.Error(t, err)
	_, err = Call[bool](ctx, c, OpenLink)
	assert.Error(t, err)
	assert.Zero(t, c.calls)

	ok, err := Call[bool](ctx, c, IsDefaultProtocolClient)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.calls)
}

func TestLocal_Settings(t *testing.T) {
	l, _ := newTestLocal()
	ctx := context.Background()

	settings, err := Call[Settings](ctx, l, ReadSettings)
	require.NoError(t, err)
	assert.Empty(t, settings)

	_, err = Call[bool](ctx, l, StoreSettings, map[string]interface{}{"multisignature": true, "theme": "dark"})
	require.NoError(t, err)
	_, err = Call[bool](ctx, l, StoreSettings, map[string]interface{}{"theme": "light"})
	require.NoError(t, err)

	settings, err = Call[Settings](ctx, l, ReadSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(settings["multisignature"]))
	assert.JSONEq(t, `"light"`, string(settings["theme"]))

	hashes, err := Call[[]string](ctx, l, ReadIgnoredSignatureRequestHashes)
	require.NoError(t, err)
	assert.Empty(t, hashes)

	_, err = Call[bool](ctx, l, StoreIgnoredSignatureRequestHashes, []string{"h1", "h2"})
	require.NoError(t, err)
	hashes, err = Call[[]string](ctx, l, ReadIgnoredSignatureRequestHashes)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, hashes)

	settings, err = Call[Settings](ctx, l, ReadSettings)
	require.NoError(t, err)
	assert.Len(t, settings, 2, "ignored hashes are no setting")
}

func TestLocal_Keys(t *testing.T) {
	l, _ := newTestLocal()
	ctx := context.Background()
	kp := keypair.MustRandom()

	data, err := Call[wallet.PublicKeyData](ctx, l, SaveKey, "1", "Main", kp.Seed(), "pw")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), data.PublicKey)

	ids, err := Call[[]string](ctx, l, GetKeyIDs)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)

	data, err = Call[wallet.PublicKeyData](ctx, l, GetPublicKeyData, "1")
	require.NoError(t, err)
	assert.Equal(t, "Main", data.Name)

	source := txnbuild.NewSimpleAccount(kp.Address(), 1)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 9}},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	envelope, err := tx.Base64()
	require.NoError(t, err)

	_, err = Call[string](ctx, l, SignTransaction, "1", envelope, "testnet", "wrong")
	assert.ErrorIs(t, err, keystore.ErrWrongPassword)

	signed, err := Call[string](ctx, l, SignTransaction, "1", envelope, "testnet", "pw")
	require.NoError(t, err)
	want, err := tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)
	wantEnvelope, err := want.Base64()
	require.NoError(t, err)
	assert.Equal(t, wantEnvelope, signed)

	_, err = Call[bool](ctx, l, RemoveKey, "1")
	require.NoError(t, err)
	ids, err = Call[[]string](ctx, l, GetKeyIDs)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocal_Host(t *testing.T) {
	l, host := newTestLocal()
	ctx := context.Background()

	_, err := l.Call(ctx, CopyToClipboard, "GABC")
	require.NoError(t, err)
	assert.Equal(t, "GABC", host.Clipboard())

	_, err = l.Call(ctx, ShowNotification, Notification{Title: "Payment", Text: "received"})
	require.NoError(t, err)
	assert.Equal(t, []Notification{{Title: "Payment", Text: "received"}}, host.Notifications())

	ok, err := Call[bool](ctx, l, IsDefaultProtocolClient)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Call[string](ctx, l, ScanQRCode)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = l.Call(ctx, GetPublicKeyData, 42)
	assert.Error(t, err, "argument of wrong type")
}

func TestLocal_Subscribe(t *testing.T) {
	l, _ := newTestLocal()

	_, err := l.Subscribe(ReadSettings, func(json.RawMessage) {})
	assert.Error(t, err)

	received := make(chan string, 1)
	unsub, err := l.Subscribe(DeepLinkURL, func(payload json.RawMessage) {
		var url string
		require.NoError(t, json.Unmarshal(payload, &url))
		received <- url
	})
	require.NoError(t, err)

	n, err := l.Publish(DeepLinkURL, "web+stellar:pay?destination=GA")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case url := <-received:
		assert.Equal(t, "web+stellar:pay?destination=GA", url)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	unsub()
	n, err = l.Publish(DeepLinkURL, "web+stellar:pay?destination=GB")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = l.Publish(NotificationClicked, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "feeds are per message type")

	_, err = l.Publish(OpenLink, "x")
	assert.Error(t, err)
}
