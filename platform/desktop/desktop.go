// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package desktop implements the platform for the desktop app. Messages are
// sent over the websocket bridge to the main process, which owns the wallet
// database and the native integrations.
package desktop // import "solarwallet.io/go-solar/platform/desktop"

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/ipc/bridge"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/platform/web"
)

// DialTimeout bounds connecting to the main process unless the context
// passed in the options has an earlier deadline.
const DialTimeout = 10 * time.Second

func init() {
	platform.Register(platform.Desktop, New)
}

// Implementation is the desktop platform.
type Implementation struct {
	client *bridge.Client
	reader *web.QRReader
	log    log.Logger
}

var _ platform.Implementation = (*Implementation)(nil)

// New connects to the bridge at the configured URL, retrying with
// exponential backoff while the main process starts up.
func New(opts platform.Options) (platform.Implementation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Named("platform:desktop")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	client, err := Dial(ctx, cfg.Bridge.URL, logger)
	if err != nil {
		return nil, err
	}
	return &Implementation{
		client: client,
		reader: web.NewQRReader(opts.QRSource),
		log:    logger,
	}, nil
}

// Dial connects to the websocket bridge at url, retrying until ctx is done.
func Dial(ctx context.Context, url string, logger log.Logger) (*bridge.Client, error) {
	if url == "" {
		return nil, errors.New("no desktop bridge URL configured")
	}
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(0),
	)
	client, err := backoff.RetryNotifyWithData(func() (*bridge.Client, error) {
		return bridge.DialWebsocket(ctx, url)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.WithError(err).Debugf("bridge not reachable, retrying in %v", next)
	})
	return client, errors.WithMessage(err, "connecting to desktop main process")
}

// IPC returns the bridge client.
func (d *Implementation) IPC() ipc.IPC { return d.client }

// QRReader returns the web QR reader.
func (d *Implementation) QRReader() platform.QRReader { return d.reader }

// IsFullscreenQRPreview is false: the preview is embedded in the window.
func (d *Implementation) IsFullscreenQRPreview() bool { return false }

// ProtocolHandler asks the main process.
func (d *Implementation) ProtocolHandler() platform.ProtocolHandler {
	return &platform.IPCProtocolHandler{IPC: d.client}
}

// Close disconnects from the main process.
func (d *Implementation) Close() error {
	d.log.Debug("closing bridge")
	return d.client.Close()
}
