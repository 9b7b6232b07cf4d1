// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"solarwallet.io/go-solar/client"
	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/networker"
	"solarwallet.io/go-solar/platform"
	_ "solarwallet.io/go-solar/platform/cordova" // platform init
	_ "solarwallet.io/go-solar/platform/desktop" // platform init
	_ "solarwallet.io/go-solar/platform/web"     // platform init
	"solarwallet.io/go-solar/worker"
)

const tracerName = "solarwallet.io/go-solar/cmd/solar"

func networkerConfig(cfg *config.Config) networker.Config {
	return networker.Config{DirectoryURL: cfg.WellknownAccountsURL}
}

// connectWorker connects to the configured net worker, or starts one in
// process if no address is configured, and waits until it is ready.
func connectWorker(ctx context.Context, cfg *config.Config) (*networker.Client, error) {
	tracing := worker.WithTracer(otel.Tracer(tracerName))
	var w *worker.Client
	if cfg.Worker.Address == "" {
		w = worker.Spawn(ctx, networker.NewServer(networker.NewServices(networkerConfig(cfg))), tracing)
	} else {
		var err error
		if w, err = worker.Dial(ctx, cfg.Worker.Network, cfg.Worker.Address, tracing); err != nil {
			return nil, err
		}
	}

	select {
	case <-w.Ready():
		return networker.NewClient(w), nil
	case <-w.Closed():
		return nil, errors.New("net worker closed before it was ready")
	case <-ctx.Done():
		w.Close()
		return nil, ctx.Err()
	}
}

// process holds the platform implementation of this process. It is
// initialized by the first command that needs it and shared by all later
// ones.
var process struct {
	sync.Mutex
	impl platform.Implementation
}

// initPlatform initializes the platform the configuration resolves to, or
// returns the one already initialized.
func initPlatform(ctx context.Context, cfg *config.Config) (platform.Implementation, error) {
	process.Lock()
	defer process.Unlock()
	if process.impl != nil {
		return process.impl, nil
	}
	impl, err := platform.Init(platform.EnvFromConfig(cfg), platform.Options{Config: cfg, Context: ctx})
	if err != nil {
		return nil, err
	}
	process.impl = impl
	return impl, nil
}

// closePlatform closes the platform implementation, if one was initialized.
func closePlatform() error {
	process.Lock()
	defer process.Unlock()
	if process.impl == nil {
		return nil
	}
	return errors.WithMessage(process.impl.Close(), "closing platform")
}

// newClient initializes the platform and the net worker. The returned func
// releases the net worker.
func newClient(ctx context.Context, cfg *config.Config) (*client.Client, func(), error) {
	impl, err := initPlatform(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	w, err := connectWorker(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client.New(impl, w), func() { w.Close() }, nil
}
