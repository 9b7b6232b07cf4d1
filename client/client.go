// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package client orchestrates the main context of the wallet: it combines
// the platform's IPC with the net worker to run multi-step flows such as
// web authentication and payment request verification.
package client // import "solarwallet.io/go-solar/client"

import (
	"context"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/networker"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/stellar/sep10"
	"solarwallet.io/go-solar/stellar/uri"
	"solarwallet.io/go-solar/wallet"
	"solarwallet.io/go-solar/wallet/keystore"
)

var logger = log.Named("client")

// Signer signs transaction envelopes with a stored key.
type Signer interface {
	SignTransaction(ctx context.Context, keyID, envelope, network, password string) (string, error)
}

// IPCSigner signs through the platform's IPC, with the keys held by the host.
type IPCSigner struct {
	IPC ipc.IPC
}

// SignTransaction sends a SignTransaction message.
func (s *IPCSigner) SignTransaction(ctx context.Context, keyID, envelope, network, password string) (string, error) {
	return ipc.Call[string](ctx, s.IPC, ipc.SignTransaction, keyID, envelope, network, password)
}

// KeystoreSigner signs with keys from a local keystore.
type KeystoreSigner struct {
	Keystore *keystore.Keystore
}

// SignTransaction unlocks the key, signs and locks it again.
func (s *KeystoreSigner) SignTransaction(_ context.Context, keyID, envelope, network, password string) (string, error) {
	acc, err := s.Keystore.Unlock(keyID, password)
	if err != nil {
		return "", err
	}
	defer acc.Lock()
	return sep10.SignChallenge(envelope, network, acc)
}

// Client runs wallet flows.
type Client struct {
	IPC             ipc.IPC
	ProtocolHandler platform.ProtocolHandler
	Worker          *networker.Client
	Signer          Signer
}

// New creates a client on a platform implementation, signing with the keys
// held by the platform's host.
func New(impl platform.Implementation, worker *networker.Client) *Client {
	return &Client{
		IPC:             impl.IPC(),
		ProtocolHandler: impl.ProtocolHandler(),
		Worker:          worker,
		Signer:          &IPCSigner{IPC: impl.IPC()},
	}
}

// ErrNoWebAuth is returned when the issuer does not offer web authentication.
var ErrNoWebAuth = errors.New("issuer does not support web authentication")

// Authenticate logs in to the web auth endpoint of the organization issuing
// an asset, using key keyID. It returns the auth token.
func (c *Client) Authenticate(ctx context.Context, keyID, password, horizonURL, issuerAccountID, network string) (*sep10.AuthResult, error) {
	data, err := c.Worker.FetchWebAuthData(ctx, horizonURL, issuerAccountID)
	if err != nil {
		return nil, errors.WithMessage(err, "looking up web auth endpoint")
	}
	if data == nil {
		return nil, ErrNoWebAuth
	}

	key, err := ipc.Call[wallet.PublicKeyData](ctx, c.IPC, ipc.GetPublicKeyData, keyID)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading key %s", keyID)
	}

	l := logger.WithFields(log.Fields{"domain": data.Domain, "account": key.PublicKey})
	l.Debug("fetching challenge")
	challenge, err := c.Worker.FetchWebAuthChallenge(ctx, data.EndpointURL, data.SigningKey, key.PublicKey, network)
	if err != nil {
		return nil, err
	}
	signed, err := c.Signer.SignTransaction(ctx, keyID, challenge, network, password)
	if err != nil {
		return nil, errors.WithMessage(err, "signing challenge")
	}
	res, err := c.Worker.PostWebAuthResponse(ctx, data.EndpointURL, signed, network)
	if err != nil {
		return nil, err
	}
	l.Info("authenticated")
	return res, nil
}

// VerifyTransactionRequest parses and verifies a web+stellar: request, using
// the net worker to fetch the origin domain's stellar.toml.
func (c *Client) VerifyTransactionRequest(ctx context.Context, request string, opts uri.Options) (*uri.Request, error) {
	return uri.Verify(ctx, request, c.Worker, opts)
}
