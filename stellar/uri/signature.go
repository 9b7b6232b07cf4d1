// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package uri

import (
	"context"
	"encoding/base64"
	"net/url"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"

	"solarwallet.io/go-solar/stellar/ecosystem"
)

const signaturePrefix = "stellar.sep.7 - URI Scheme"

// TomlFetcher looks up the stellar.toml of a domain.
type TomlFetcher interface {
	FetchStellarToml(ctx context.Context, domain string) (*ecosystem.StellarToml, error)
}

// SignaturePayload returns the bytes signed by the origin domain: 35 zero
// bytes and the byte 4, the prefix "stellar.sep.7 - URI Scheme" and the URI
// without its signature.
func (r *Request) SignaturePayload() []byte {
	payload := make([]byte, 36, 36+len(signaturePrefix)+len(r.Raw))
	payload[35] = 4
	payload = append(payload, signaturePrefix...)
	return append(payload, r.Unsigned()...)
}

// Sign signs the request with kp and returns the signed URI.
func (r *Request) Sign(kp *keypair.Full) (*Request, error) {
	sig, err := kp.Sign(r.SignaturePayload())
	if err != nil {
		return nil, errors.Wrap(err, "signing request")
	}
	raw := r.Unsigned() + "&signature=" + url.QueryEscape(base64.StdEncoding.EncodeToString(sig))
	return Parse(raw)
}

// VerifySignature checks the request's signature against the
// URI_REQUEST_SIGNING_KEY published by its origin domain. Requests without
// origin domain or signature are not valid.
func (r *Request) VerifySignature(ctx context.Context, fetcher TomlFetcher) (bool, error) {
	domain, signature := r.OriginDomain(), r.Signature()
	if domain == "" || signature == "" {
		return false, nil
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, nil
	}

	st, err := fetcher.FetchStellarToml(ctx, domain)
	if err != nil {
		return false, errors.WithMessagef(err, "fetching stellar.toml of %s", domain)
	}
	if st.URIRequestSigningKey == "" {
		return false, nil
	}
	kp, err := keypair.ParseAddress(st.URIRequestSigningKey)
	if err != nil {
		return false, nil
	}
	return kp.Verify(r.SignaturePayload(), sig) == nil, nil
}
