// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package ecosystem looks up public information about Stellar organizations:
// their stellar.toml files and a directory of well-known accounts.
package ecosystem // import "solarwallet.io/go-solar/stellar/ecosystem"

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/stellar"
)

// TomlPath is where a domain serves its stellar.toml.
const TomlPath = "/.well-known/stellar.toml"

// MaxTomlSize is the maximum accepted size of a stellar.toml file.
const MaxTomlSize = 100 << 10

// DefaultTomlMaxAge is how long fetched stellar.toml files are cached.
const DefaultTomlMaxAge = 10 * time.Minute

var logger = log.Named("net-worker:ecosystem")

// StellarToml holds the fields of a stellar.toml file used by the wallet.
type StellarToml struct {
	Version               string     `toml:"VERSION" json:"version,omitempty"`
	NetworkPassphrase     string     `toml:"NETWORK_PASSPHRASE" json:"networkPassphrase,omitempty"`
	FederationServer      string     `toml:"FEDERATION_SERVER" json:"federationServer,omitempty"`
	AuthServer            string     `toml:"AUTH_SERVER" json:"authServer,omitempty"`
	TransferServer        string     `toml:"TRANSFER_SERVER" json:"transferServer,omitempty"`
	TransferServerSep0024 string     `toml:"TRANSFER_SERVER_SEP0024" json:"transferServerSep0024,omitempty"`
	KYCServer             string     `toml:"KYC_SERVER" json:"kycServer,omitempty"`
	WebAuthEndpoint       string     `toml:"WEB_AUTH_ENDPOINT" json:"webAuthEndpoint,omitempty"`
	SigningKey            string     `toml:"SIGNING_KEY" json:"signingKey,omitempty"`
	HorizonURL            string     `toml:"HORIZON_URL" json:"horizonUrl,omitempty"`
	URIRequestSigningKey  string     `toml:"URI_REQUEST_SIGNING_KEY" json:"uriRequestSigningKey,omitempty"`
	Accounts              []string   `toml:"ACCOUNTS" json:"accounts,omitempty"`
	Documentation         OrgInfo    `toml:"DOCUMENTATION" json:"documentation"`
	Currencies            []Currency `toml:"CURRENCIES" json:"currencies,omitempty"`
}

// OrgInfo is the DOCUMENTATION table of a stellar.toml.
type OrgInfo struct {
	OrgName        string `toml:"ORG_NAME" json:"orgName,omitempty"`
	OrgURL         string `toml:"ORG_URL" json:"orgUrl,omitempty"`
	OrgLogo        string `toml:"ORG_LOGO" json:"orgLogo,omitempty"`
	OrgDescription string `toml:"ORG_DESCRIPTION" json:"orgDescription,omitempty"`
}

// Currency is one entry of the CURRENCIES array of a stellar.toml.
type Currency struct {
	Code            string `toml:"code" json:"code"`
	Issuer          string `toml:"issuer" json:"issuer,omitempty"`
	DisplayDecimals int    `toml:"display_decimals" json:"displayDecimals,omitempty"`
	Name            string `toml:"name" json:"name,omitempty"`
	Desc            string `toml:"desc" json:"desc,omitempty"`
	Image           string `toml:"image" json:"image,omitempty"`
}

// ParseToml decodes a stellar.toml document. Unknown keys are ignored.
func ParseToml(data string) (*StellarToml, error) {
	var st StellarToml
	if _, err := toml.Decode(data, &st); err != nil {
		return nil, errors.Wrap(err, "parsing stellar.toml")
	}
	return &st, nil
}

type cachedToml struct {
	toml    *StellarToml
	fetched time.Time
}

// TomlFetcher fetches and caches stellar.toml files by domain.
type TomlFetcher struct {
	HTTP   *http.Client
	Scheme string        // "https" if empty.
	MaxAge time.Duration // DefaultTomlMaxAge if zero.
	Now    func() time.Time

	mutex sync.Mutex
	cache map[string]cachedToml
}

// NewTomlFetcher creates a fetcher using client for requests.
func NewTomlFetcher(client *http.Client) *TomlFetcher {
	return &TomlFetcher{HTTP: client}
}

func (f *TomlFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *TomlFetcher) maxAge() time.Duration {
	if f.MaxAge > 0 {
		return f.MaxAge
	}
	return DefaultTomlMaxAge
}

// URL returns the stellar.toml location of domain.
func (f *TomlFetcher) URL(domain string) string {
	scheme := f.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + domain + TomlPath
}

// FetchStellarToml returns the stellar.toml of domain, fetching it if it is
// not cached or the cached copy is stale.
func (f *TomlFetcher) FetchStellarToml(ctx context.Context, domain string) (*StellarToml, error) {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), "/")
	if domain == "" {
		return nil, errors.New("empty domain")
	}

	f.mutex.Lock()
	c, ok := f.cache[domain]
	f.mutex.Unlock()
	if ok && f.now().Sub(c.fetched) < f.maxAge() {
		return c.toml, nil
	}

	st, err := f.fetch(ctx, domain)
	if err != nil {
		return nil, err
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.cache == nil {
		f.cache = make(map[string]cachedToml)
	}
	f.cache[domain] = cachedToml{toml: st, fetched: f.now()}
	return st, nil
}

func (f *TomlFetcher) fetch(ctx context.Context, domain string) (*StellarToml, error) {
	url := f.URL(domain)
	logger.Debugf("Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &stellar.RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &stellar.RequestError{URL: url, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTomlSize+1))
	if err != nil {
		return nil, &stellar.RequestError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if len(data) > MaxTomlSize {
		return nil, errors.Errorf("stellar.toml of %s exceeds %d bytes", domain, MaxTomlSize)
	}
	return ParseToml(string(data))
}
