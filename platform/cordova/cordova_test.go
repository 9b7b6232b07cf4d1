// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package cordova

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/db/memorydb"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/ipc/bridge"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/wallet/keystore"
)

// scanningHost is a native host whose camera always sees code.
type scanningHost struct {
	*ipc.HeadlessHost
	code string
}

func (h *scanningHost) ScanQRCode(context.Context) (string, error) { return h.code, nil }

func startHost(t *testing.T, host ipc.Host) string {
	ks := keystore.New(memorydb.NewDatabase(), keystore.WithScryptN(keystore.LightScryptN))
	local := ipc.NewLocal(memorydb.NewDatabase(), ks, host)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bridge.NewServer(local).ListenStream(ctx, l)
	return "tcp://" + l.Addr().String()
}

func TestNew(t *testing.T) {
	cfg := config.Defaults()
	cfg.Bridge.URL = startHost(t, &scanningHost{HeadlessHost: new(ipc.HeadlessHost), code: "web+stellar:tx?xdr=AAAA"})

	impl, err := New(platform.Options{Config: cfg})
	require.NoError(t, err)
	defer impl.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.True(t, impl.IsFullscreenQRPreview())

	var scanned string
	impl.QRReader().Scan(ctx, func(s string) { scanned = s }, func(err error) { t.Error(err) })
	assert.Equal(t, "web+stellar:tx?xdr=AAAA", scanned)

	ids, err := ipc.Call[[]string](ctx, impl.IPC(), ipc.GetKeyIDs)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ph := impl.ProtocolHandler()
	ok, err := ph.IsDefaultProtocolClient(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ph.IsDifferentHandlerInstalled(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = ph.SetAsDefaultProtocolClient(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQRReader_Error(t *testing.T) {
	cfg := config.Defaults()
	cfg.Bridge.URL = startHost(t, new(ipc.HeadlessHost))

	impl, err := New(platform.Options{Config: cfg})
	require.NoError(t, err)
	defer impl.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got error
	impl.QRReader().Scan(ctx, func(s string) { t.Errorf("unexpected scan %q", s) }, func(err error) { got = err })
	require.Error(t, got)
	assert.Equal(t, ipc.ErrUnsupported.Error(), got.Error())
}

func TestNew_BadURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.Bridge.URL = "ws://127.0.0.1:1/ipc"
	_, err := New(platform.Options{Config: cfg})
	assert.Error(t, err)
}
