// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package uri

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// KindVerification is the error kind of a *VerificationError.
const KindVerification = "StellarUriVerificationError"

// VerificationError reports a request that must not be presented to the user.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string { return e.Reason }

// Kind returns KindVerification.
func (e *VerificationError) Kind() string { return KindVerification }

// IsVerificationError returns whether err is caused by a *VerificationError.
func IsVerificationError(err error) bool {
	var verr *VerificationError
	return errors.As(err, &verr)
}

// Options control request verification.
type Options struct {
	// AllowUnsafeTestnetURIs accepts test network requests whose signature
	// is missing or invalid.
	AllowUnsafeTestnetURIs bool
}

// Verify parses request and checks its signature and callback URL.
// Verification failures are returned as *VerificationError, errors fetching
// the origin domain's stellar.toml are returned unchanged.
func Verify(ctx context.Context, request string, fetcher TomlFetcher, opts Options) (*Request, error) {
	r, err := Parse(request)
	if err != nil {
		return nil, &VerificationError{Reason: "Invalid request: " + err.Error()}
	}

	valid, err := r.VerifySignature(ctx, fetcher)
	if err != nil {
		return nil, err
	}
	if !valid && !(r.IsTestNetwork() && opts.AllowUnsafeTestnetURIs) {
		return nil, &VerificationError{Reason: "The transaction request signature could not be verified."}
	}

	if cb := r.Callback(); cb != "" {
		if err := checkCallback(cb); err != nil {
			return nil, &VerificationError{Reason: "Invalid callback URL format: " + err.Error()}
		}
	}
	return r, nil
}

func checkCallback(callback string) error {
	u, err := url.Parse(callback)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("Unsupported schema")
	}
	if u.Host == "" {
		return errors.New("Missing host")
	}
	return nil
}
