// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package multisig evaluates the signing thresholds of multi-signature
// accounts and talks to the multisig coordination service that collects
// co-signatures.
package multisig // import "solarwallet.io/go-solar/stellar/multisig"

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/stellar"
	"solarwallet.io/go-solar/stellar/horizon"
)

var logger = log.Named("net-worker:multisig")

// Category is the threshold category of an operation.
type Category int

// Threshold categories, ordered by strength.
const (
	Low Category = iota + 1
	Medium
	High
)

func (c Category) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText encodes the category as its name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*c = Low
	case "medium":
		*c = Medium
	case "high":
		*c = High
	default:
		return errors.Errorf("unknown threshold category %q", text)
	}
	return nil
}

// ThresholdCategory returns the category of op.
func ThresholdCategory(op txnbuild.Operation) Category {
	switch op.(type) {
	case *txnbuild.AllowTrust, *txnbuild.SetTrustLineFlags, *txnbuild.BumpSequence:
		return Low
	case *txnbuild.AccountMerge, *txnbuild.SetOptions:
		return High
	default:
		return Medium
	}
}

// TransactionCategory returns the strongest category among the operations of
// tx that act on behalf of accountID.
func TransactionCategory(tx *txnbuild.Transaction, accountID string) Category {
	txSource := tx.SourceAccount().AccountID
	category := Low
	for _, op := range tx.Operations() {
		source := op.GetSourceAccount()
		if source == "" {
			source = txSource
		}
		if source != accountID {
			continue
		}
		if c := ThresholdCategory(op); c > category {
			category = c
		}
	}
	return category
}

// Threshold returns the account's threshold for category c.
func Threshold(th horizon.Thresholds, c Category) int32 {
	switch c {
	case Low:
		return int32(th.Low)
	case High:
		return int32(th.High)
	default:
		return int32(th.Medium)
	}
}

// ThresholdResult tells whether a set of signers satisfies a threshold.
type ThresholdResult struct {
	Category   Category `json:"category"`
	Required   int32    `json:"required"`
	Collected  int32    `json:"collected"`
	Sufficient bool     `json:"sufficient"`
	Signers    []string `json:"signers"`
}

// CheckThreshold sums the weights of signerKeys on account and compares
// them against the account's threshold for category. Keys that are no
// signers of the account and duplicates are ignored.
func CheckThreshold(account *horizon.AccountData, signerKeys []string, category Category) ThresholdResult {
	res := ThresholdResult{
		Category: category,
		Required: Threshold(account.Thresholds, category),
		Signers:  []string{},
	}
	seen := make(map[string]bool, len(signerKeys))
	for _, key := range signerKeys {
		if seen[key] {
			continue
		}
		seen[key] = true
		if w := account.SignerWeight(key); w > 0 {
			res.Collected += w
			res.Signers = append(res.Signers, key)
		}
	}
	sort.Strings(res.Signers)

	required := res.Required
	if required < 1 {
		required = 1
	}
	res.Sufficient = res.Collected >= required
	return res
}

// TransactionSigners returns the ed25519 signers of account whose signature
// on tx is valid for passphrase.
func TransactionSigners(tx *txnbuild.Transaction, account *horizon.AccountData, passphrase string) ([]string, error) {
	hash, err := tx.Hash(passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "hashing transaction")
	}

	var signers []string
	for _, s := range account.Signers {
		kp, err := keypair.ParseAddress(s.Key)
		if err != nil {
			// Pre-auth and hash-x signers have no keypair.
			continue
		}
		for _, sig := range tx.Signatures() {
			if sig.Hint != kp.Hint() {
				continue
			}
			if kp.Verify(hash[:], sig.Signature) == nil {
				signers = append(signers, s.Key)
				break
			}
		}
	}
	return signers, nil
}

// AccountSigners are the signers and thresholds of an account.
type AccountSigners struct {
	Signers    []horizon.Signer   `json:"signers"`
	Thresholds horizon.Thresholds `json:"thresholds"`
}

// Checker evaluates thresholds of accounts loaded from Horizon.
type Checker struct {
	Horizon *horizon.Pool
}

// FetchAccountSigners returns the signers of accountID. It returns nil and no
// error if the account does not exist.
func (c *Checker) FetchAccountSigners(ctx context.Context, horizonURL, accountID string) (*AccountSigners, error) {
	account, err := c.Horizon.FetchAccountData(ctx, horizonURL, accountID)
	if err != nil || account == nil {
		return nil, err
	}
	return &AccountSigners{Signers: account.Signers, Thresholds: account.Thresholds}, nil
}

// CheckTransaction checks whether the signatures on the base64 encoded
// transaction txXDR satisfy accountID's threshold for the transaction.
func (c *Checker) CheckTransaction(ctx context.Context, horizonURL, accountID, txXDR, network string) (*ThresholdResult, error) {
	gentx, err := txnbuild.TransactionFromXDR(txXDR)
	if err != nil {
		return nil, errors.Wrap(err, "decoding transaction")
	}
	tx, ok := gentx.Transaction()
	if !ok {
		return nil, errors.New("fee bump transactions are not supported")
	}

	account, err := c.Horizon.FetchAccountData(ctx, horizonURL, accountID)
	if err != nil {
		return nil, err
	} else if account == nil {
		return nil, errors.Errorf("account %s does not exist", accountID)
	}

	signers, err := TransactionSigners(tx, account, stellar.Passphrase(network))
	if err != nil {
		return nil, err
	}
	res := CheckThreshold(account, signers, TransactionCategory(tx, accountID))
	logger.Debugf("Transaction of %s: %d of %d (%s)", accountID, res.Collected, res.Required, res.Category)
	return &res, nil
}
