// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package horizon queries Stellar Horizon servers.
package horizon // import "solarwallet.io/go-solar/stellar/horizon"

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	hprotocol "github.com/stellar/go/protocols/horizon"

	"solarwallet.io/go-solar/log"
)

// Well-known Horizon servers.
const (
	PublicURL  = "https://horizon.stellar.org"
	TestnetURL = "https://horizon-testnet.stellar.org"
)

var logger = log.Named("net-worker:horizon")

// Client is the subset of the Horizon API used by the wallet.
// *horizonclient.Client implements it.
type Client interface {
	AccountDetail(request horizonclient.AccountRequest) (hprotocol.Account, error)
	SubmitTransactionXDR(transactionXdr string) (hprotocol.Transaction, error)
}

// Pool hands out one Client per Horizon URL.
type Pool struct {
	// New creates the client of a Horizon URL. Defaults to a horizonclient
	// using HTTP.
	New  func(horizonURL string) Client
	HTTP *http.Client

	mutex   sync.Mutex
	clients map[string]Client
}

// NewPool creates a pool of horizonclient clients using client for requests.
func NewPool(client *http.Client) *Pool {
	return &Pool{HTTP: client}
}

// Get returns the client of horizonURL, creating it on first use.
func (p *Pool) Get(horizonURL string) Client {
	horizonURL = strings.TrimSuffix(horizonURL, "/")

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if c, ok := p.clients[horizonURL]; ok {
		return c
	}
	if p.clients == nil {
		p.clients = make(map[string]Client)
	}
	c := p.newClient(horizonURL)
	p.clients[horizonURL] = c
	return c
}

func (p *Pool) newClient(horizonURL string) Client {
	if p.New != nil {
		return p.New(horizonURL)
	}
	hc := &horizonclient.Client{HorizonURL: horizonURL + "/"}
	if p.HTTP != nil {
		hc.HTTP = p.HTTP
	}
	return hc
}

// do runs fn, giving up when ctx is done. horizonclient calls don't take a
// context, so an abandoned fn finishes in the background.
func do[R any](ctx context.Context, fn func() (R, error)) (R, error) {
	type result struct {
		val R
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn()
		done <- result{val, err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Error wraps an error response of a Horizon server.
type Error struct {
	Status      int
	Title       string
	Detail      string
	ResultCodes []string
	err         error
}

func (e *Error) Error() string {
	msg := "horizon: " + e.Title
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.ResultCodes) > 0 {
		msg += " [" + strings.Join(e.ResultCodes, ", ") + "]"
	}
	return msg
}

// Unwrap returns the horizonclient error.
func (e *Error) Unwrap() error { return e.err }

// Kind returns "HorizonError".
func (e *Error) Kind() string { return "HorizonError" }

// Meta carries the result codes of a failed submission.
func (e *Error) Meta() map[string]string {
	if len(e.ResultCodes) == 0 {
		return nil
	}
	return map[string]string{"result_codes": strings.Join(e.ResultCodes, ",")}
}

// wrapError converts horizonclient problems into *Error and annotates other
// errors with msg.
func wrapError(err error, msg string) error {
	herr := horizonclient.GetError(err)
	if herr == nil {
		return errors.WithMessage(err, msg)
	}
	e := &Error{
		Status: herr.Problem.Status,
		Title:  herr.Problem.Title,
		Detail: herr.Problem.Detail,
		err:    err,
	}
	if codes, cerr := herr.ResultCodes(); cerr == nil && codes != nil {
		if codes.TransactionCode != "" {
			e.ResultCodes = append(e.ResultCodes, codes.TransactionCode)
		}
		e.ResultCodes = append(e.ResultCodes, codes.OperationCodes...)
	}
	return e
}
