// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package sep10

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"solarwallet.io/go-solar/stellar"
	"solarwallet.io/go-solar/wallet"
)

// MaxClockSkew is the tolerated difference between our clock and the time
// bounds of a challenge.
const MaxClockSkew = 5 * time.Minute

const (
	authKeySuffix = " auth"
	nonceSize     = 48
)

type challengeResponse struct {
	Transaction       string `json:"transaction"`
	NetworkPassphrase string `json:"network_passphrase"`
}

// FetchChallenge requests a challenge for localPublicKey from the web auth
// endpoint and validates it. serviceSigningKey may be empty if the
// endpoint's signing key is unknown. network is a passphrase or one of the
// short names "public" and "testnet". It returns the base64 encoded
// transaction envelope of the challenge.
func (s *Service) FetchChallenge(ctx context.Context, endpointURL, serviceSigningKey, localPublicKey, network string) (string, error) {
	u, err := url.Parse(endpointURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing endpoint URL")
	}
	q := u.Query()
	q.Set("account", localPublicKey)
	u.RawQuery = q.Encode()

	var resp challengeResponse
	if err := stellar.GetJSON(ctx, s.HTTP, u.String(), &resp); err != nil {
		return "", errors.WithMessage(err, "fetching web auth challenge")
	}

	passphrase := stellar.Passphrase(network)
	if resp.NetworkPassphrase != "" && resp.NetworkPassphrase != passphrase {
		return "", newChallengeError(endpointURL, "network passphrase mismatch: got %q", resp.NetworkPassphrase)
	}
	if _, err := ValidateChallenge(endpointURL, resp.Transaction, serviceSigningKey, localPublicKey, passphrase, s.now()); err != nil {
		return "", err
	}
	logger.Debugf("Fetched web auth challenge from %s", endpointURL)
	return resp.Transaction, nil
}

// ValidateChallenge decodes and checks the challenge envelope: it must be a
// regular transaction with sequence number 0, valid at now, made only of
// ManageData operations where the first one is sourced by the client key,
// named "<home domain> auth" and carries a 48 byte nonce, and every later one
// is sourced by the server. It must be signed by its source account.
//
// If serviceSigningKey is given the transaction must also be sourced by it
// and the challenge is additionally read with txnbuild.ReadChallengeTx.
func ValidateChallenge(endpoint, envelope, serviceSigningKey, localPublicKey, passphrase string, now time.Time) (*txnbuild.Transaction, error) {
	gentx, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return nil, newChallengeError(endpoint, "decoding transaction: %v", err)
	}
	tx, ok := gentx.Transaction()
	if !ok {
		return nil, newChallengeError(endpoint, "fee bump transactions are not valid challenges")
	}

	source := tx.SourceAccount()
	if source.Sequence != 0 {
		return nil, newChallengeError(endpoint, "sequence number must be 0, got %d", source.Sequence)
	}
	if serviceSigningKey != "" && source.AccountID != serviceSigningKey {
		return nil, newChallengeError(endpoint, "source account %s is not the service signing key", source.AccountID)
	}

	tb := tx.Timebounds()
	if tb.MaxTime == 0 {
		return nil, newChallengeError(endpoint, "no time bounds")
	}
	if now.Add(MaxClockSkew).Unix() < tb.MinTime || now.Add(-MaxClockSkew).Unix() > tb.MaxTime {
		return nil, newChallengeError(endpoint, "expired or not yet valid")
	}

	homeDomain, err := checkOperations(tx.Operations(), source.AccountID, localPublicKey)
	if err != nil {
		return nil, newChallengeError(endpoint, "%v", err)
	}

	if serviceSigningKey == "" {
		if err := verifySignedBy(tx, source.AccountID, passphrase); err != nil {
			return nil, newChallengeError(endpoint, "%v", err)
		}
		return tx, nil
	}

	webAuthDomain := ""
	if u, err := url.Parse(endpoint); err == nil {
		webAuthDomain = u.Host
	}
	read, clientAccountID, _, _, err := txnbuild.ReadChallengeTx(envelope, serviceSigningKey, passphrase, webAuthDomain, []string{homeDomain})
	if err != nil {
		return nil, newChallengeError(endpoint, "%v", err)
	}
	if clientAccountID != localPublicKey {
		return nil, newChallengeError(endpoint, "challenge is for %s", clientAccountID)
	}
	return read, nil
}

// checkOperations checks the operations of a challenge and returns the home
// domain named by the first one.
func checkOperations(ops []txnbuild.Operation, server, client string) (string, error) {
	if len(ops) == 0 {
		return "", errors.New("no operations")
	}
	var homeDomain string
	for i, op := range ops {
		md, ok := op.(*txnbuild.ManageData)
		if !ok {
			return "", errors.Errorf("operation %d is not a manage data operation", i)
		}
		if i > 0 {
			if md.SourceAccount != server {
				return "", errors.Errorf("operation %d is not sourced by the server", i)
			}
			continue
		}
		if md.SourceAccount != client {
			return "", errors.Errorf("first operation is not sourced by %s", client)
		}
		if !strings.HasSuffix(md.Name, authKeySuffix) || len(md.Name) == len(authKeySuffix) {
			return "", errors.Errorf("first operation key %q does not name a home domain", md.Name)
		}
		homeDomain = strings.TrimSuffix(md.Name, authKeySuffix)
		nonce, err := base64.StdEncoding.DecodeString(string(md.Value))
		if err != nil || len(nonce) != nonceSize {
			return "", errors.Errorf("nonce must be %d base64 encoded bytes", nonceSize)
		}
	}
	return homeDomain, nil
}

func verifySignedBy(tx *txnbuild.Transaction, signer, passphrase string) error {
	kp, err := keypair.ParseAddress(signer)
	if err != nil {
		return errors.Wrap(err, "parsing signing key")
	}
	hash, err := tx.Hash(passphrase)
	if err != nil {
		return errors.Wrap(err, "hashing transaction")
	}
	for _, sig := range tx.Signatures() {
		if kp.Verify(hash[:], sig.Signature) == nil {
			return nil
		}
	}
	return errors.Errorf("not signed by %s", signer)
}

// SignChallenge adds signer's signature to the challenge envelope and
// returns the signed envelope.
func SignChallenge(envelope, network string, signer wallet.Account) (string, error) {
	signed, err := wallet.SignTransaction(signer, envelope, stellar.Passphrase(network))
	return signed, errors.WithMessage(err, "signing challenge")
}
