// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ecosystem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
VERSION = "2.0.0"
NETWORK_PASSPHRASE = "Test SDF Network ; September 2015"
WEB_AUTH_ENDPOINT = "https://testanchor.stellar.org/auth"
SIGNING_KEY = "GCUZ6YLL5RQBTYLTTQLPCM73C5XAIUGK2TIMWQH7HPSGWVS2KJ2F3CHS"
URI_REQUEST_SIGNING_KEY = "GDGUF4SCNINRDCRUIVOMDYGIMXOWVP3ZLMTL2OGQIWMFDDSECZSFQMQV"
ACCOUNTS = ["GCUZ6YLL5RQBTYLTTQLPCM73C5XAIUGK2TIMWQH7HPSGWVS2KJ2F3CHS"]
UNKNOWN_FIELD = 42

[DOCUMENTATION]
ORG_NAME = "Test Anchor"
ORG_URL = "https://testanchor.stellar.org"

[[CURRENCIES]]
code = "SRT"
issuer = "GCDNJUBQSX7AJWLJACMJ7I4BC3Z47BQUTMHEICZLE6MU4KQBRYG5JY6B"
display_decimals = 2
`

func newTomlServer(hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != TomlPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(hits, 1)
		w.Write([]byte(testToml))
	}))
}

func TestParseToml(t *testing.T) {
	st, err := ParseToml(testToml)
	require.NoError(t, err)
	assert.Equal(t, "https://testanchor.stellar.org/auth", st.WebAuthEndpoint)
	assert.Equal(t, "Test Anchor", st.Documentation.OrgName)
	require.Len(t, st.Currencies, 1)
	assert.Equal(t, "SRT", st.Currencies[0].Code)
	assert.Equal(t, 2, st.Currencies[0].DisplayDecimals)

	_, err = ParseToml("VERSION = ")
	assert.Error(t, err)
}

func TestTomlFetcher(t *testing.T) {
	var hits int32
	srv := newTomlServer(&hits)
	defer srv.Close()

	now := time.Unix(1700000000, 0)
	f := &TomlFetcher{
		HTTP:   srv.Client(),
		Scheme: "http",
		Now:    func() time.Time { return now },
	}
	domain := strings.TrimPrefix(srv.URL, "http://")

	st, err := f.FetchStellarToml(context.Background(), domain)
	require.NoError(t, err)
	assert.Equal(t, "GDGUF4SCNINRDCRUIVOMDYGIMXOWVP3ZLMTL2OGQIWMFDDSECZSFQMQV", st.URIRequestSigningKey)

	_, err = f.FetchStellarToml(context.Background(), strings.ToUpper(domain))
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "second fetch should be served from cache")

	now = now.Add(DefaultTomlMaxAge)
	_, err = f.FetchStellarToml(context.Background(), domain)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "stale entry should be refetched")
}

func TestTomlFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := &TomlFetcher{HTTP: srv.Client(), Scheme: "http"}
	_, err := f.FetchStellarToml(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	assert.Error(t, err)

	_, err = f.FetchStellarToml(context.Background(), "  ")
	assert.Error(t, err)
}

func TestTomlFetcher_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# " + strings.Repeat("x", MaxTomlSize) + "\n"))
	}))
	defer srv.Close()

	f := &TomlFetcher{HTTP: srv.Client(), Scheme: "http"}
	_, err := f.FetchStellarToml(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list":
			w.Write([]byte(`[{"address":"GA1","name":"Exchange","tags":["exchange"]}]`))
		case "/wrapped":
			w.Write([]byte(`{"_embedded":{"records":[{"address":"GA2","name":"Anchor","domain":"anchor.example"}]}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	accounts, err := (&Directory{HTTP: srv.Client(), URL: srv.URL + "/list"}).FetchWellknownAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "GA1", accounts[0].Address)
	assert.Equal(t, []string{"exchange"}, accounts[0].Tags)

	accounts, err = (&Directory{HTTP: srv.Client(), URL: srv.URL + "/wrapped"}).FetchWellknownAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "anchor.example", accounts[0].Domain)

	_, err = (&Directory{HTTP: srv.Client(), URL: srv.URL + "/broken"}).FetchWellknownAccounts(ctx)
	assert.Error(t, err)
}
