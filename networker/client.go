// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package networker

import (
	"context"

	"solarwallet.io/go-solar/stellar/ecosystem"
	"solarwallet.io/go-solar/stellar/horizon"
	"solarwallet.io/go-solar/stellar/multisig"
	"solarwallet.io/go-solar/stellar/sep10"
	"solarwallet.io/go-solar/worker"
)

// Client calls the net worker's operations.
type Client struct {
	w *worker.Client
}

// NewClient wraps a worker client connected to a net worker.
func NewClient(w *worker.Client) *Client {
	return &Client{w: w}
}

// Worker returns the underlying worker client.
func (c *Client) Worker() *worker.Client { return c.w }

// Close closes the connection to the net worker.
func (c *Client) Close() error { return c.w.Close() }

// FetchWebAuthChallenge fetches and validates a SEP-10 challenge and returns
// its base64 encoded envelope. serviceSigningKey may be empty.
func (c *Client) FetchWebAuthChallenge(ctx context.Context, endpointURL, serviceSigningKey, localPublicKey, network string) (string, error) {
	var envelope string
	err := c.w.CallResult(ctx, &envelope, OpFetchWebAuthChallenge, endpointURL, serviceSigningKey, localPublicKey, network)
	return envelope, err
}

// FetchWebAuthData looks up the web auth endpoint of the issuer's
// organization. It returns nil if there is none.
func (c *Client) FetchWebAuthData(ctx context.Context, horizonURL, issuerAccountID string) (*sep10.WebAuthData, error) {
	var data *sep10.WebAuthData
	err := c.w.CallResult(ctx, &data, OpFetchWebAuthData, horizonURL, issuerAccountID)
	return data, err
}

// PostWebAuthResponse exchanges a signed challenge for an auth token.
func (c *Client) PostWebAuthResponse(ctx context.Context, endpointURL, txXDR, network string) (*sep10.AuthResult, error) {
	var res *sep10.AuthResult
	err := c.w.CallResult(ctx, &res, OpPostWebAuthResponse, endpointURL, txXDR, network)
	return res, err
}

// FetchAccountData loads an account. It returns nil if the account does not
// exist.
func (c *Client) FetchAccountData(ctx context.Context, horizonURL, accountID string) (*horizon.AccountData, error) {
	var acc *horizon.AccountData
	err := c.w.CallResult(ctx, &acc, OpFetchAccountData, horizonURL, accountID)
	return acc, err
}

// FetchAccountSigners loads the signers and thresholds of an account.
func (c *Client) FetchAccountSigners(ctx context.Context, horizonURL, accountID string) (*multisig.AccountSigners, error) {
	var signers *multisig.AccountSigners
	err := c.w.CallResult(ctx, &signers, OpFetchAccountSigners, horizonURL, accountID)
	return signers, err
}

// CheckMultisigThreshold checks whether the signatures on txXDR satisfy the
// account's threshold.
func (c *Client) CheckMultisigThreshold(ctx context.Context, horizonURL, accountID, txXDR, network string) (*multisig.ThresholdResult, error) {
	var res *multisig.ThresholdResult
	err := c.w.CallResult(ctx, &res, OpCheckMultisigThreshold, horizonURL, accountID, txXDR, network)
	return res, err
}

// FetchSignatureRequests returns the open signature requests of accountIDs.
func (c *Client) FetchSignatureRequests(ctx context.Context, serviceURL string, accountIDs []string) ([]multisig.SignatureRequest, error) {
	var requests []multisig.SignatureRequest
	err := c.w.CallResult(ctx, &requests, OpFetchSignatureRequests, serviceURL, accountIDs)
	return requests, err
}

// SubmitSignatureRequest submits a SEP-7 URI for co-signing.
func (c *Client) SubmitSignatureRequest(ctx context.Context, serviceURL, request string) (*multisig.SignatureRequest, error) {
	var created *multisig.SignatureRequest
	err := c.w.CallResult(ctx, &created, OpSubmitSignatureRequest, serviceURL, request)
	return created, err
}

// FetchStellarToml fetches the stellar.toml of domain.
func (c *Client) FetchStellarToml(ctx context.Context, domain string) (*ecosystem.StellarToml, error) {
	var st *ecosystem.StellarToml
	err := c.w.CallResult(ctx, &st, OpFetchStellarToml, domain)
	return st, err
}

// FetchWellknownAccounts returns the directory of well-known accounts.
func (c *Client) FetchWellknownAccounts(ctx context.Context) ([]ecosystem.Account, error) {
	var accounts []ecosystem.Account
	err := c.w.CallResult(ctx, &accounts, OpFetchWellknownAccounts)
	return accounts, err
}

// SubmitTransaction submits a signed transaction envelope to Horizon.
func (c *Client) SubmitTransaction(ctx context.Context, horizonURL, txXDR string) (*horizon.SubmitResult, error) {
	var res *horizon.SubmitResult
	err := c.w.CallResult(ctx, &res, OpSubmitTransaction, horizonURL, txXDR)
	return res, err
}

// EnableLogging sets the worker's debug log namespaces.
func (c *Client) EnableLogging(ctx context.Context, namespaces string) error {
	_, err := c.w.Call(ctx, OpEnableLogging, namespaces)
	return err
}
