// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package multisig

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/stellar"
)

// DefaultServiceURL is the public multisig coordination service.
const DefaultServiceURL = "https://multisig.solarwallet.io"

// Signature request states.
const (
	StatusPending   = "pending"
	StatusReady     = "ready"
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
)

// SignatureRequest is a transaction waiting for co-signatures. Request is a
// SEP-7 "web+stellar:tx" URI.
type SignatureRequest struct {
	Hash       string    `json:"hash"`
	Request    string    `json:"req"`
	Status     string    `json:"status"`
	Signers    []string  `json:"signed_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	SourceKeys []string  `json:"source_keys,omitempty"`
}

// Event types sent on the subscription stream.
const (
	EventRequestAdded   = "signature-request:added"
	EventRequestUpdated = "signature-request:updated"
)

// Event notifies about a new or changed signature request.
type Event struct {
	Type    string           `json:"type"`
	Request SignatureRequest `json:"signature_request"`
}

// Service is a client of the multisig coordination service.
type Service struct {
	HTTP   *http.Client
	Dialer *websocket.Dialer
}

// NewService creates a service client using client for requests.
func NewService(client *http.Client) *Service {
	return &Service{HTTP: client}
}

func endpoint(serviceURL, path string, accountIDs []string) string {
	u := strings.TrimSuffix(serviceURL, "/") + path
	if len(accountIDs) == 0 {
		return u
	}
	q := url.Values{"pubkey": accountIDs}
	return u + "?" + q.Encode()
}

// FetchSignatureRequests returns the open signature requests of accountIDs.
func (s *Service) FetchSignatureRequests(ctx context.Context, serviceURL string, accountIDs []string) ([]SignatureRequest, error) {
	var requests []SignatureRequest
	if err := stellar.GetJSON(ctx, s.HTTP, endpoint(serviceURL, "/requests", accountIDs), &requests); err != nil {
		return nil, errors.WithMessage(err, "fetching signature requests")
	}
	if requests == nil {
		requests = []SignatureRequest{}
	}
	return requests, nil
}

// SubmitSignatureRequest submits the SEP-7 URI request for co-signing.
func (s *Service) SubmitSignatureRequest(ctx context.Context, serviceURL, request string) (*SignatureRequest, error) {
	if !strings.HasPrefix(request, "web+stellar:tx") {
		return nil, errors.New("signature request must be a web+stellar:tx URI")
	}
	var created SignatureRequest
	body := map[string]string{"request": request}
	if err := stellar.PostJSON(ctx, s.HTTP, endpoint(serviceURL, "/submit", nil), body, &created); err != nil {
		return nil, errors.WithMessage(err, "submitting signature request")
	}
	logger.WithField("hash", created.Hash).Debug("Signature request submitted")
	return &created, nil
}

// Subscribe streams signature request events of accountIDs to handler until
// ctx is done or the stream breaks. It returns nil if ctx ended the stream.
func (s *Service) Subscribe(ctx context.Context, serviceURL string, accountIDs []string, handler func(Event)) error {
	wsURL := endpoint(serviceURL, "/stream", accountIDs)
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return &stellar.RequestError{URL: wsURL, Err: err}
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return errors.Wrap(err, "reading signature request stream")
		}
		handler(ev)
	}
}
