// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package uri parses, signs and verifies SEP-7 "web+stellar:" transaction
// and payment request URIs.
package uri // import "solarwallet.io/go-solar/stellar/uri"

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/stellar/go/network"
)

// Scheme is the URI scheme of SEP-7 requests.
const Scheme = "web+stellar"

// Request operations.
const (
	OpTx  = "tx"
	OpPay = "pay"
)

// Request is a parsed SEP-7 request.
type Request struct {
	Raw       string     `json:"raw"`
	Operation string     `json:"operation"`
	Params    url.Values `json:"params"`
}

// Parse parses a "web+stellar:tx" or "web+stellar:pay" URI.
func Parse(raw string) (*Request, error) {
	rest, ok := strings.CutPrefix(raw, Scheme+":")
	if !ok {
		return nil, errors.Errorf("not a %s URI", Scheme)
	}
	op, query, _ := strings.Cut(rest, "?")
	if op != OpTx && op != OpPay {
		return nil, errors.Errorf("unsupported operation %q", op)
	}
	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, errors.Wrap(err, "parsing parameters")
	}

	r := &Request{Raw: raw, Operation: op, Params: params}
	switch {
	case op == OpTx && r.XDR() == "":
		return nil, errors.New("tx request without xdr parameter")
	case op == OpPay && r.Destination() == "":
		return nil, errors.New("pay request without destination parameter")
	}
	return r, nil
}

// XDR is the base64 encoded transaction envelope of a tx request.
func (r *Request) XDR() string { return r.Params.Get("xdr") }

// Destination is the receiving account of a pay request.
func (r *Request) Destination() string { return r.Params.Get("destination") }

// Amount is the requested amount of a pay request.
func (r *Request) Amount() string { return r.Params.Get("amount") }

// AssetCode is the requested asset of a pay request. Empty means lumens.
func (r *Request) AssetCode() string { return r.Params.Get("asset_code") }

// AssetIssuer is the issuer of AssetCode.
func (r *Request) AssetIssuer() string { return r.Params.Get("asset_issuer") }

// Memo is the memo to attach to the payment.
func (r *Request) Memo() string { return r.Params.Get("memo") }

// MemoType is the type of Memo.
func (r *Request) MemoType() string { return r.Params.Get("memo_type") }

// PubKey is the account the request asks to sign with.
func (r *Request) PubKey() string { return r.Params.Get("pubkey") }

// Message is a message for the user.
func (r *Request) Message() string { return r.Params.Get("msg") }

// OriginDomain is the domain claiming to have created the request.
func (r *Request) OriginDomain() string { return r.Params.Get("origin_domain") }

// Signature is the base64 encoded signature of the request.
func (r *Request) Signature() string {
	// Unescaped '+' in the query decode to spaces.
	return strings.ReplaceAll(r.Params.Get("signature"), " ", "+")
}

// Callback returns the callback URL without its "url:" prefix.
func (r *Request) Callback() string {
	return strings.TrimPrefix(r.Params.Get("callback"), "url:")
}

// NetworkPassphrase is the network of the request, the public network if
// the request does not name one.
func (r *Request) NetworkPassphrase() string {
	if p := r.Params.Get("network_passphrase"); p != "" {
		return p
	}
	return network.PublicNetworkPassphrase
}

// IsTestNetwork returns whether the request targets the test network.
func (r *Request) IsTestNetwork() bool {
	return r.NetworkPassphrase() == network.TestNetworkPassphrase
}

// Unsigned returns the raw URI with the signature parameter removed,
// keeping the order and encoding of all other parameters.
func (r *Request) Unsigned() string {
	base, query, found := strings.Cut(r.Raw, "?")
	if !found {
		return r.Raw
	}
	var kept []string
	for _, p := range strings.Split(query, "&") {
		if !strings.HasPrefix(p, "signature=") {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return base
	}
	return base + "?" + strings.Join(kept, "&")
}
