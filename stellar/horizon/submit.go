// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package horizon

import (
	"context"

	hprotocol "github.com/stellar/go/protocols/horizon"
)

// SubmitResult describes a transaction accepted by Horizon.
type SubmitResult struct {
	Hash       string `json:"hash"`
	Ledger     int32  `json:"ledger"`
	Successful bool   `json:"successful"`
}

// SubmitTransaction submits the base64 encoded transaction envelope txXDR.
func (p *Pool) SubmitTransaction(ctx context.Context, horizonURL, txXDR string) (*SubmitResult, error) {
	client := p.Get(horizonURL)
	tx, err := do(ctx, func() (hprotocol.Transaction, error) {
		return client.SubmitTransactionXDR(txXDR)
	})
	if err != nil {
		return nil, wrapError(err, "submitting transaction")
	}
	logger.WithField("hash", tx.Hash).Debug("Transaction submitted")
	return &SubmitResult{Hash: tx.Hash, Ledger: tx.Ledger, Successful: tx.Successful}, nil
}
