// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package stellar contains helpers shared by the Stellar network clients of
// the net worker: network passphrase resolution and HTTP JSON requests with
// errors that survive serialization across the worker boundary.
package stellar // import "solarwallet.io/go-solar/stellar"

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/stellar/go/network"
)

// Short network names accepted wherever a network passphrase is expected.
const (
	Public  = "public"
	Testnet = "testnet"
)

// maxResponseSize limits the size of JSON responses read from remote servers.
const maxResponseSize = 1 << 20

// Passphrase resolves the short network names "public" and "testnet" to their
// passphrases. Any other value is returned unchanged.
func Passphrase(networkName string) string {
	switch networkName {
	case Public, "":
		return network.PublicNetworkPassphrase
	case Testnet:
		return network.TestNetworkPassphrase
	default:
		return networkName
	}
}

// IsTestnet returns whether passphrase denotes the test network.
func IsTestnet(passphrase string) bool {
	return Passphrase(passphrase) == network.TestNetworkPassphrase
}

// RequestError reports a failed request to a remote server.
type RequestError struct {
	URL        string
	StatusCode int    // 0 if no response was received.
	Detail     string // Server provided error text, if any.
	Err        error  // Transport error, if any.
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
}

// Unwrap returns the transport error.
func (e *RequestError) Unwrap() error { return e.Err }

// Kind returns "RequestError".
func (e *RequestError) Kind() string { return "RequestError" }

// Meta describes the failed request.
func (e *RequestError) Meta() map[string]string {
	return map[string]string{"url": e.URL, "status": strconv.Itoa(e.StatusCode)}
}

// GetJSON fetches url and decodes the JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	return doJSON(client, req, out)
}

// PostJSON posts body as JSON to url and decodes the JSON response into out.
func PostJSON(ctx context.Context, client *http.Client, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	if client == nil {
		client = http.DefaultClient
	}
	url := req.URL.String()

	resp, err := client.Do(req)
	if err != nil {
		return &RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &RequestError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{URL: url, StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(body, out), "decoding response of %s", url)
}

// errorDetail extracts the error text of the common {"error": "..."} bodies.
func errorDetail(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		return e.Message
	}
	return ""
}
