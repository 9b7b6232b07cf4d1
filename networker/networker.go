// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package networker is the net worker: the background execution context
// performing network requests on behalf of the main context. Its operations
// are exposed through a worker.Server and called through Client.
package networker // import "solarwallet.io/go-solar/networker"

import (
	"context"
	"net/http"
	"time"

	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/stellar/ecosystem"
	"solarwallet.io/go-solar/stellar/horizon"
	"solarwallet.io/go-solar/stellar/multisig"
	"solarwallet.io/go-solar/stellar/sep10"
	"solarwallet.io/go-solar/worker"
)

// Operation names.
const (
	OpFetchWebAuthChallenge  = "fetchWebAuthChallenge"
	OpFetchWebAuthData       = "fetchWebAuthData"
	OpPostWebAuthResponse    = "postWebAuthResponse"
	OpFetchAccountData       = "fetchAccountData"
	OpFetchAccountSigners    = "fetchAccountSigners"
	OpCheckMultisigThreshold = "checkMultisigThreshold"
	OpFetchSignatureRequests = "fetchSignatureRequests"
	OpSubmitSignatureRequest = "submitSignatureRequest"
	OpFetchStellarToml       = "fetchStellarToml"
	OpFetchWellknownAccounts = "fetchWellknownAccounts"
	OpSubmitTransaction      = "submitTransaction"
	OpEnableLogging          = "enableLogging"
)

// DefaultRequestTimeout bounds every HTTP request of the net worker.
const DefaultRequestTimeout = 30 * time.Second

var logger = log.Named("net-worker")

// Config configures the services of the net worker.
type Config struct {
	// HTTP is the client used for all requests. A client with
	// DefaultRequestTimeout is used if nil.
	HTTP *http.Client
	// DirectoryURL lists well-known accounts. Defaults to
	// ecosystem.DefaultDirectoryURL.
	DirectoryURL string
	// TomlScheme overrides the scheme used to fetch stellar.toml files.
	TomlScheme string
	// NewHorizon overrides how Horizon clients are created.
	NewHorizon func(horizonURL string) horizon.Client
	// Now overrides the clock used to validate challenges.
	Now func() time.Time
}

// Services are the Stellar clients backing the net worker operations.
type Services struct {
	Horizon   *horizon.Pool
	Toml      *ecosystem.TomlFetcher
	Directory *ecosystem.Directory
	SEP10     *sep10.Service
	Multisig  *multisig.Service
	Checker   *multisig.Checker
}

// NewServices creates the services described by cfg.
func NewServices(cfg Config) *Services {
	client := cfg.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	pool := &horizon.Pool{HTTP: client, New: cfg.NewHorizon}
	toml := &ecosystem.TomlFetcher{HTTP: client, Scheme: cfg.TomlScheme}
	svc := sep10.NewService(client, pool, toml)
	svc.Now = cfg.Now
	return &Services{
		Horizon:   pool,
		Toml:      toml,
		Directory: &ecosystem.Directory{HTTP: client, URL: cfg.DirectoryURL},
		SEP10:     svc,
		Multisig:  multisig.NewService(client),
		Checker:   &multisig.Checker{Horizon: pool},
	}
}

// Operations returns the net worker's operations backed by s.
func Operations(s *Services) worker.Operations {
	return worker.Operations{
		OpFetchWebAuthChallenge:  worker.Op4(s.SEP10.FetchChallenge),
		OpFetchWebAuthData:       worker.Op2(s.SEP10.FetchWebAuthData),
		OpPostWebAuthResponse:    worker.Op3(s.SEP10.PostResponse),
		OpFetchAccountData:       worker.Op2(s.Horizon.FetchAccountData),
		OpFetchAccountSigners:    worker.Op2(s.Checker.FetchAccountSigners),
		OpCheckMultisigThreshold: worker.Op4(s.Checker.CheckTransaction),
		OpFetchSignatureRequests: worker.Op2(s.Multisig.FetchSignatureRequests),
		OpSubmitSignatureRequest: worker.Op2(s.Multisig.SubmitSignatureRequest),
		OpFetchStellarToml:       worker.Op1(s.Toml.FetchStellarToml),
		OpFetchWellknownAccounts: worker.Op0(s.Directory.FetchWellknownAccounts),
		OpSubmitTransaction:      worker.Op2(s.Horizon.SubmitTransaction),
		OpEnableLogging:          worker.Exec1(enableLogging),
	}
}

// NewServer creates the net worker server.
func NewServer(s *Services, opts ...worker.ServerOption) *worker.Server {
	opts = append([]worker.ServerOption{worker.WithInit(func(context.Context) error {
		logger.Debug("Net worker started")
		return nil
	})}, opts...)
	return worker.NewServer(Operations(s), opts...)
}

// enableLogging selects the log namespaces emitting debug output, see
// log.EnableNamespaces.
func enableLogging(_ context.Context, namespaces string) error {
	log.EnableNamespaces(namespaces)
	log.WithField("namespaces", namespaces).Info("Debug logging namespaces changed")
	return nil
}
