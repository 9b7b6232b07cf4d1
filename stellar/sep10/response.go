// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package sep10

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stellar/go/txnbuild"

	"solarwallet.io/go-solar/stellar"
)

// AuthResult is the outcome of a successful web authentication.
type AuthResult struct {
	AuthToken string        `json:"authToken"`
	Decoded   jwt.MapClaims `json:"decoded"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// PostResponse submits the signed challenge txXDR to the web auth endpoint
// and returns the issued token together with its claims. The token is not
// verified; it is only meaningful to the server that issued it.
func (s *Service) PostResponse(ctx context.Context, endpointURL, txXDR, network string) (*AuthResult, error) {
	if _, err := txnbuild.TransactionFromXDR(txXDR); err != nil {
		return nil, errors.Wrap(err, "decoding signed challenge")
	}

	var resp tokenResponse
	err := stellar.PostJSON(ctx, s.HTTP, endpointURL, map[string]string{"transaction": txXDR}, &resp)
	var reqErr *stellar.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		reason := reqErr.Detail
		if reason == "" {
			reason = reqErr.Error()
		}
		return nil, &ChallengeError{Endpoint: endpointURL, Reason: reason}
	} else if err != nil {
		return nil, errors.WithMessage(err, "posting web auth response")
	}
	if resp.Token == "" {
		return nil, &ChallengeError{Endpoint: endpointURL, Reason: "no token in response"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, claims); err != nil {
		return nil, errors.Wrap(err, "decoding auth token")
	}
	logger.WithField("network", stellar.Passphrase(network)).Debugf("Authenticated at %s", endpointURL)
	return &AuthResult{AuthToken: resp.Token, Decoded: claims}, nil
}
