// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ecosystem

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/stellar"
)

// DefaultDirectoryURL lists the well-known accounts of the public network.
const DefaultDirectoryURL = "https://api.stellar.expert/explorer/directory?limit=200"

// Account is a well-known account, e.g. an exchange or an anchor.
type Account struct {
	Address string   `json:"address"`
	Name    string   `json:"name"`
	Domain  string   `json:"domain,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Directory fetches the list of well-known accounts.
type Directory struct {
	HTTP *http.Client
	URL  string // DefaultDirectoryURL if empty.
}

// FetchWellknownAccounts returns the accounts listed by the directory. The
// directory either serves a plain JSON array or an object wrapping the
// array in "_embedded.records".
func (d *Directory) FetchWellknownAccounts(ctx context.Context) ([]Account, error) {
	url := d.URL
	if url == "" {
		url = DefaultDirectoryURL
	}

	var raw directoryResponse
	if err := stellar.GetJSON(ctx, d.HTTP, url, &raw); err != nil {
		return nil, errors.WithMessage(err, "fetching well-known accounts")
	}
	accounts := raw.accounts()
	logger.Debugf("Fetched %d well-known accounts", len(accounts))
	return accounts, nil
}
