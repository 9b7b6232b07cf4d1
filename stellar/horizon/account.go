// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package horizon

import (
	"context"

	"github.com/stellar/go/clients/horizonclient"
	hprotocol "github.com/stellar/go/protocols/horizon"
)

// AccountData is the wallet's view of a Stellar account.
type AccountData struct {
	ID         string            `json:"id"`
	Sequence   int64             `json:"sequence,string"`
	HomeDomain string            `json:"home_domain,omitempty"`
	Balances   []Balance         `json:"balances"`
	Signers    []Signer          `json:"signers"`
	Thresholds Thresholds        `json:"thresholds"`
	Data       map[string]string `json:"data,omitempty"`
}

// Balance of one asset. AssetType "native" denotes lumens.
type Balance struct {
	AssetType   string `json:"asset_type"`
	AssetCode   string `json:"asset_code,omitempty"`
	AssetIssuer string `json:"asset_issuer,omitempty"`
	Balance     string `json:"balance"`
	Limit       string `json:"limit,omitempty"`
}

// Signer is a key allowed to sign for an account.
type Signer struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Weight int32  `json:"weight"`
}

// Thresholds are the operation thresholds of an account.
type Thresholds struct {
	Low    uint8 `json:"low_threshold"`
	Medium uint8 `json:"med_threshold"`
	High   uint8 `json:"high_threshold"`
}

// FetchAccountData loads accountID from the Horizon server at horizonURL. It
// returns nil and no error if the account does not exist.
func (p *Pool) FetchAccountData(ctx context.Context, horizonURL, accountID string) (*AccountData, error) {
	client := p.Get(horizonURL)
	logger.Debugf("Fetching account %s from %s", accountID, horizonURL)

	acc, err := do(ctx, func() (hprotocol.Account, error) {
		return client.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	})
	if horizonclient.IsNotFoundError(err) {
		return nil, nil
	} else if err != nil {
		return nil, wrapError(err, "fetching account "+accountID)
	}
	return newAccountData(acc)
}

func newAccountData(acc hprotocol.Account) (*AccountData, error) {
	seq, err := acc.GetSequenceNumber()
	if err != nil {
		return nil, err
	}
	data := &AccountData{
		ID:         acc.AccountID,
		Sequence:   seq,
		HomeDomain: acc.HomeDomain,
		Balances:   make([]Balance, 0, len(acc.Balances)),
		Signers:    make([]Signer, 0, len(acc.Signers)),
		Thresholds: Thresholds{
			Low:    acc.Thresholds.LowThreshold,
			Medium: acc.Thresholds.MedThreshold,
			High:   acc.Thresholds.HighThreshold,
		},
		Data: acc.Data,
	}
	for _, b := range acc.Balances {
		data.Balances = append(data.Balances, Balance{
			AssetType:   b.Type,
			AssetCode:   b.Code,
			AssetIssuer: b.Issuer,
			Balance:     b.Balance,
			Limit:       b.Limit,
		})
	}
	for _, s := range acc.Signers {
		data.Signers = append(data.Signers, Signer{Key: s.Key, Type: s.Type, Weight: s.Weight})
	}
	return data, nil
}

// SignerWeight returns the weight of key on the account, 0 if key is no signer.
func (a *AccountData) SignerWeight(key string) int32 {
	for _, s := range a.Signers {
		if s.Key == key {
			return s.Weight
		}
	}
	return 0
}
