// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package sep10 implements the client side of SEP-10 Stellar web
// authentication: fetching and validating a challenge, signing it and
// exchanging it for a JWT.
package sep10 // import "solarwallet.io/go-solar/stellar/sep10"

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/stellar/ecosystem"
	"solarwallet.io/go-solar/stellar/horizon"
)

var logger = log.Named("net-worker:sep10")

// KindInvalidChallenge is the error kind of a *ChallengeError.
const KindInvalidChallenge = "InvalidChallenge"

// ChallengeError reports a challenge that was rejected, either by us while
// validating it or by the authentication server.
type ChallengeError struct {
	Endpoint string
	Reason   string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("web auth challenge of %s rejected: %s", e.Endpoint, e.Reason)
}

// Kind returns KindInvalidChallenge.
func (e *ChallengeError) Kind() string { return KindInvalidChallenge }

// Meta names the endpoint.
func (e *ChallengeError) Meta() map[string]string {
	return map[string]string{"endpoint": e.Endpoint}
}

func newChallengeError(endpoint, format string, args ...interface{}) *ChallengeError {
	return &ChallengeError{Endpoint: endpoint, Reason: fmt.Sprintf(format, args...)}
}

// IsChallengeError returns whether err is caused by a *ChallengeError.
func IsChallengeError(err error) bool {
	var cerr *ChallengeError
	return errors.As(err, &cerr)
}

// Service performs SEP-10 requests.
type Service struct {
	HTTP    *http.Client
	Horizon *horizon.Pool
	Toml    *ecosystem.TomlFetcher
	Now     func() time.Time
}

// NewService creates a service sharing client between all requests.
func NewService(client *http.Client, pool *horizon.Pool, toml *ecosystem.TomlFetcher) *Service {
	return &Service{HTTP: client, Horizon: pool, Toml: toml}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// WebAuthData describes the SEP-10 endpoint of an organization.
type WebAuthData struct {
	Domain      string `json:"domain"`
	EndpointURL string `json:"endpointURL"`
	SigningKey  string `json:"signingKey,omitempty"`
}

// FetchWebAuthData looks up the web authentication endpoint of the
// organization owning issuerAccountID: the issuer's home domain is read from
// Horizon and its stellar.toml is fetched. It returns nil and no error if
// the issuer has no home domain or the domain offers no web authentication.
func (s *Service) FetchWebAuthData(ctx context.Context, horizonURL, issuerAccountID string) (*WebAuthData, error) {
	account, err := s.Horizon.FetchAccountData(ctx, horizonURL, issuerAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.HomeDomain == "" {
		logger.Debugf("Account %s has no home domain", issuerAccountID)
		return nil, nil
	}

	st, err := s.Toml.FetchStellarToml(ctx, account.HomeDomain)
	if err != nil {
		return nil, errors.WithMessagef(err, "fetching stellar.toml of %s", account.HomeDomain)
	}
	if st.WebAuthEndpoint == "" {
		return nil, nil
	}
	return &WebAuthData{
		Domain:      account.HomeDomain,
		EndpointURL: st.WebAuthEndpoint,
		SigningKey:  st.SigningKey,
	}, nil
}
