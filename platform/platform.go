// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package platform selects the implementation of the environment-dependent
// capabilities (IPC, QR code scanning, protocol handler registration) the
// wallet runs with.
//
// Implementations live in the subpackages web, desktop and cordova, which
// register themselves on import:
//
//	import _ "solarwallet.io/go-solar/platform/web" // platform init
//
// Exactly one implementation is initialized per process.
package platform // import "solarwallet.io/go-solar/platform"

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/db"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/wallet/keystore"
)

// Variant names a platform implementation.
type Variant int

// The platform variants.
const (
	Web Variant = iota
	Cordova
	Desktop
)

func (v Variant) String() string {
	switch v {
	case Web:
		return "web"
	case Cordova:
		return "cordova"
	case Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// Env holds the signals the variant is resolved from.
type Env struct {
	DesktopBridge bool
	BuildTarget   string
	BrowserWindow bool
}

// EnvFromConfig reads the resolution signals from the configuration.
func EnvFromConfig(cfg *config.Config) Env {
	return Env{
		DesktopBridge: cfg.Platform.DesktopBridge,
		BuildTarget:   cfg.Platform.BuildTarget,
		BrowserWindow: cfg.Platform.BrowserWindow,
	}
}

// QRReader scans QR codes. Scan reports every decoded code to onScan and
// failures to onError until ctx is done or the source is exhausted.
type QRReader interface {
	Scan(ctx context.Context, onScan func(data string), onError func(error))
}

// ProtocolHandler manages the registration of the wallet as the handler of
// web+stellar: links.
type ProtocolHandler interface {
	IsDefaultProtocolClient(ctx context.Context) (bool, error)
	IsDifferentHandlerInstalled(ctx context.Context) (bool, error)
	SetAsDefaultProtocolClient(ctx context.Context) (bool, error)
}

// Implementation is the capability set of one platform variant.
type Implementation interface {
	IPC() ipc.IPC
	QRReader() QRReader
	IsFullscreenQRPreview() bool
	ProtocolHandler() ProtocolHandler
	Close() error
}

// Options are passed to the factory of the resolved variant.
type Options struct {
	Config   *config.Config
	DB       db.Database
	Keystore *keystore.Keystore
	Logger   log.Logger
	// QRSource supplies decoded QR codes, one per line, to readers that have
	// no camera access.
	QRSource io.Reader
	// Context bounds connecting to the host process.
	Context context.Context
}

// Factory creates an implementation.
type Factory func(Options) (Implementation, error)

// ErrAlreadyInitialized is returned by a second call to Init.
var ErrAlreadyInitialized = errors.New("platform already initialized")

// UnsupportedError is returned when no implementation serves the
// environment.
type UnsupportedError struct {
	Env     Env
	Variant *Variant
}

func (e *UnsupportedError) Error() string {
	if e.Variant != nil {
		return "no implementation registered for platform " + e.Variant.String()
	}
	return "unsupported platform"
}

// Kind returns "PlatformUnsupportedError".
func (e *UnsupportedError) Kind() string { return "PlatformUnsupportedError" }

var (
	registry struct {
		sync.RWMutex
		factories map[Variant]Factory
	}

	current struct {
		sync.Mutex
		impl Implementation
	}
)

// Register makes a factory available for variant v. It is called from the
// init function of the implementing package and panics if v is registered
// twice.
func Register(v Variant, f Factory) {
	registry.Lock()
	defer registry.Unlock()
	if registry.factories == nil {
		registry.factories = make(map[Variant]Factory)
	}
	if _, ok := registry.factories[v]; ok {
		log.Panicf("platform %v registered twice", v)
	}
	registry.factories[v] = f
}

// Resolve returns the variant serving env. The desktop bridge takes
// precedence over a mobile build target, which takes precedence over a
// browser window.
func Resolve(env Env) (Variant, error) {
	switch {
	case env.DesktopBridge:
		return Desktop, nil
	case env.BuildTarget == "android" || env.BuildTarget == "ios":
		return Cordova, nil
	case env.BrowserWindow:
		return Web, nil
	default:
		return 0, &UnsupportedError{Env: env}
	}
}

// Init resolves the variant serving env and creates its implementation,
// which Current returns from then on. It may succeed only once per process.
func Init(env Env, opts Options) (Implementation, error) {
	current.Lock()
	defer current.Unlock()
	if current.impl != nil {
		return nil, ErrAlreadyInitialized
	}

	v, err := Resolve(env)
	if err != nil {
		return nil, err
	}
	registry.RLock()
	f, ok := registry.factories[v]
	registry.RUnlock()
	if !ok {
		return nil, &UnsupportedError{Env: env, Variant: &v}
	}

	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Named("platform:" + v.String())
	}
	impl, err := f(opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "initializing %v platform", v)
	}
	current.impl = impl
	log.WithField("platform", v).Info("platform initialized")
	return impl, nil
}

// Current returns the initialized implementation. It panics if Init has not
// succeeded.
func Current() Implementation {
	current.Lock()
	defer current.Unlock()
	if current.impl == nil {
		log.Panic("platform not initialized")
	}
	return current.impl
}

// reset forgets the current implementation and all registrations.
func reset() {
	current.Lock()
	current.impl = nil
	current.Unlock()
	registry.Lock()
	registry.factories = nil
	registry.Unlock()
}
