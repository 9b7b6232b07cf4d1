// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package web implements the platform for a plain browser window. Messages
// are handled in-process by an ipc.Local over the wallet database.
package web // import "solarwallet.io/go-solar/platform/web"

import (
	"path/filepath"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/db/leveldb"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/wallet/keystore"
)

func init() {
	platform.Register(platform.Web, New)
}

// Implementation is the web platform.
type Implementation struct {
	local   *ipc.Local
	host    *ipc.HeadlessHost
	reader  *QRReader
	closeDB func() error
	log     log.Logger
}

var _ platform.Implementation = (*Implementation)(nil)

// New creates the web platform. Without a database in opts, the leveldb
// database in the configured data directory is opened and closed with the
// implementation.
func New(opts platform.Options) (platform.Implementation, error) {
	database, closeDB := opts.DB, func() error { return nil }
	if database == nil {
		cfg := opts.Config
		if cfg == nil {
			cfg = config.Defaults()
		}
		ldb, err := leveldb.LoadDatabase(DatabasePath(cfg))
		if err != nil {
			return nil, err
		}
		database, closeDB = ldb, ldb.Close
	}
	ks := opts.Keystore
	if ks == nil {
		ks = keystore.New(database)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Named("platform:web")
	}
	host := new(ipc.HeadlessHost)
	return &Implementation{
		local:   ipc.NewLocal(database, ks, host),
		host:    host,
		reader:  NewQRReader(opts.QRSource),
		closeDB: closeDB,
		log:     logger,
	}, nil
}

// DatabasePath returns the location of the wallet database in the
// configured data directory.
func DatabasePath(cfg *config.Config) string {
	return filepath.Join(cfg.Data(), "wallet")
}

// IPC returns the in-process message handler.
func (w *Implementation) IPC() ipc.IPC { return w.local }

// Local returns the handler as its concrete type, which can also publish
// subscription messages.
func (w *Implementation) Local() *ipc.Local { return w.local }

// Host returns the headless host backing clipboard and notifications.
func (w *Implementation) Host() *ipc.HeadlessHost { return w.host }

// QRReader returns the line source reader.
func (w *Implementation) QRReader() platform.QRReader { return w.reader }

// IsFullscreenQRPreview is false: the preview is embedded in the page.
func (w *Implementation) IsFullscreenQRPreview() bool { return false }

// ProtocolHandler returns the web handler, which can not register the
// wallet for web+stellar: links.
func (w *Implementation) ProtocolHandler() platform.ProtocolHandler { return w.host }

// Close closes the database if it was opened by New.
func (w *Implementation) Close() error {
	w.log.Debug("closing")
	return errors.WithMessage(w.closeDB(), "closing web database")
}
