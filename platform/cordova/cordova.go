// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package cordova implements the platform for the Android and iOS apps.
// Messages are sent over a framed stream to the native host.
package cordova // import "solarwallet.io/go-solar/platform/cordova"

import (
	"context"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/ipc/bridge"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/platform"
)

func init() {
	platform.Register(platform.Cordova, New)
}

// Implementation is the cordova platform.
type Implementation struct {
	client *bridge.Client
	log    log.Logger
}

var _ platform.Implementation = (*Implementation)(nil)

// New connects to the native host at the configured bridge URL, a tcp:// or
// unix:// URL.
func New(opts platform.Options) (platform.Implementation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := bridge.DialStream(ctx, cfg.Bridge.URL)
	if err != nil {
		return nil, errors.WithMessage(err, "connecting to native host")
	}
	return NewWithClient(client, opts.Logger), nil
}

// NewWithClient creates the platform on an established bridge client.
func NewWithClient(client *bridge.Client, logger log.Logger) *Implementation {
	if logger == nil {
		logger = log.Named("platform:cordova")
	}
	return &Implementation{client: client, log: logger}
}

// IPC returns the bridge client.
func (c *Implementation) IPC() ipc.IPC { return c.client }

// QRReader returns the native scanner.
func (c *Implementation) QRReader() platform.QRReader { return &qrReader{ipc: c.client} }

// IsFullscreenQRPreview is true: the native scanner covers the screen.
func (c *Implementation) IsFullscreenQRPreview() bool { return true }

// ProtocolHandler reports the app as the registered handler. Mobile apps
// declare it in their manifest.
func (c *Implementation) ProtocolHandler() platform.ProtocolHandler {
	return platform.FixedProtocolHandler{Default: true, DifferentInstalled: false, SetResult: true}
}

// Close disconnects from the native host.
func (c *Implementation) Close() error {
	c.log.Debug("closing bridge")
	return c.client.Close()
}

// qrReader opens the native scanner once per Scan.
type qrReader struct {
	ipc ipc.IPC
}

func (r *qrReader) Scan(ctx context.Context, onScan func(string), onError func(error)) {
	data, err := ipc.Call[string](ctx, r.ipc, ipc.ScanQRCode)
	if err != nil {
		if ctx.Err() == nil {
			onError(err)
		}
		return
	}
	onScan(data)
}
