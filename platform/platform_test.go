// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package platform

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/ipc"
)

type fakeImpl struct {
	variant Variant
	closed  bool
}

func (f *fakeImpl) IPC() ipc.IPC                     { return nil }
func (f *fakeImpl) QRReader() QRReader               { return nil }
func (f *fakeImpl) IsFullscreenQRPreview() bool      { return f.variant == Cordova }
func (f *fakeImpl) ProtocolHandler() ProtocolHandler { return nil }
func (f *fakeImpl) Close() error                     { f.closed = true; return nil }

// registerCounting registers factories for all variants and returns the
// number of calls per variant.
func registerCounting() map[Variant]int {
	calls := make(map[Variant]int)
	for _, v := range []Variant{Web, Cordova, Desktop} {
		v := v
		Register(v, func(opts Options) (Implementation, error) {
			calls[v]++
			return &fakeImpl{variant: v}, nil
		})
	}
	return calls
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "web", Web.String())
	assert.Equal(t, "cordova", Cordova.String())
	assert.Equal(t, "desktop", Desktop.String())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want Variant
	}{
		{"desktop wins", Env{DesktopBridge: true, BuildTarget: "android", BrowserWindow: true}, Desktop},
		{"android", Env{BuildTarget: "android", BrowserWindow: true}, Cordova},
		{"ios", Env{BuildTarget: "ios"}, Cordova},
		{"browser", Env{BrowserWindow: true}, Web},
		{"unknown target falls through", Env{BuildTarget: "tizen", BrowserWindow: true}, Web},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Resolve(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	_, err := Resolve(Env{})
	var uerr *UnsupportedError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "PlatformUnsupportedError", uerr.Kind())
	assert.Nil(t, uerr.Variant)
}

func TestEnvFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Platform.BuildTarget = "ios"
	assert.Equal(t, Env{BuildTarget: "ios", BrowserWindow: true}, EnvFromConfig(cfg))
}

func TestInit(t *testing.T) {
	reset()
	defer reset()
	calls := registerCounting()

	assert.Panics(t, func() { Current() })

	impl, err := Init(Env{BuildTarget: "android"}, Options{})
	require.NoError(t, err)
	assert.True(t, impl.IsFullscreenQRPreview())
	assert.Same(t, impl, Current())
	assert.Same(t, Current(), Current(), "memoized")

	_, err = Init(Env{BrowserWindow: true}, Options{})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, map[Variant]int{Cordova: 1}, calls, "exactly one factory call")
}

func TestInit_Unsupported(t *testing.T) {
	reset()
	defer reset()
	calls := registerCounting()

	_, err := Init(Env{}, Options{})
	var uerr *UnsupportedError
	require.True(t, errors.As(err, &uerr))
	assert.Empty(t, calls, "no factory called")
	assert.Panics(t, func() { Current() })
}

func TestInit_Unregistered(t *testing.T) {
	reset()
	defer reset()

	_, err := Init(Env{DesktopBridge: true}, Options{})
	var uerr *UnsupportedError
	require.True(t, errors.As(err, &uerr))
	require.NotNil(t, uerr.Variant)
	assert.Equal(t, Desktop, *uerr.Variant)
}

func TestInit_FactoryError(t *testing.T) {
	reset()
	defer reset()
	Register(Web, func(opts Options) (Implementation, error) {
		assert.NotNil(t, opts.Logger)
		assert.NotNil(t, opts.Context)
		return nil, errors.New("no database")
	})

	_, err := Init(Env{BrowserWindow: true}, Options{Context: context.Background()})
	assert.Error(t, err)
	assert.Panics(t, func() { Current() }, "a failed Init leaves the platform uninitialized")
}

func TestRegister_Twice(t *testing.T) {
	reset()
	defer reset()
	registerCounting()
	assert.Panics(t, func() { Register(Web, nil) })
}
