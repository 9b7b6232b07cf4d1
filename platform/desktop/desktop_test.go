// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package desktop

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/db/memorydb"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/ipc/bridge"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/wallet/keystore"
)

// defaultHost is a main process that is the registered protocol handler.
type defaultHost struct {
	*ipc.HeadlessHost
}

func (defaultHost) IsDefaultProtocolClient(context.Context) (bool, error) { return true, nil }

func newServer() *bridge.Server {
	ks := keystore.New(memorydb.NewDatabase(), keystore.WithScryptN(keystore.LightScryptN))
	return bridge.NewServer(ipc.NewLocal(memorydb.NewDatabase(), ks, defaultHost{new(ipc.HeadlessHost)}))
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/ipc"
}

func TestNew(t *testing.T) {
	srv := httptest.NewServer(newServer())
	defer srv.Close()
	cfg := config.Defaults()
	cfg.Bridge.URL = wsURL(srv.URL)

	impl, err := New(platform.Options{Config: cfg, QRSource: strings.NewReader("GABC\n")})
	require.NoError(t, err)
	defer impl.Close()
	ctx := context.Background()

	assert.False(t, impl.IsFullscreenQRPreview())
	var scanned []string
	impl.QRReader().Scan(ctx, func(s string) { scanned = append(scanned, s) }, func(err error) { t.Error(err) })
	assert.Equal(t, []string{"GABC"}, scanned, "web reader")

	ok, err := impl.ProtocolHandler().IsDefaultProtocolClient(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "answered by the main process")

	_, err = impl.IPC().Call(ctx, ipc.ShowNotification, ipc.Notification{Title: "hi"})
	assert.NoError(t, err)
}

func TestDial_Retries(t *testing.T) {
	// Reserve a port and start serving on it only after a delay.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := httptest.NewUnstartedServer(newServer())
	started := make(chan bool, 1)
	go func() {
		time.Sleep(200 * time.Millisecond)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			started <- false
			return
		}
		srv.Listener.Close()
		srv.Listener = l
		srv.Start()
		started <- true
	}()
	defer func() {
		if <-started {
			srv.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, "ws://"+addr+"/ipc", log.Named("test"))
	require.NoError(t, err)
	defer c.Close()
}

func TestDial_Deadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/ipc", log.Named("test"))
	assert.Error(t, err)

	_, err = Dial(context.Background(), "", log.Named("test"))
	assert.Error(t, err)
}
