// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package wallet

import (
	"github.com/pkg/errors"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// SignTransaction adds acc's signature to the base64 encoded transaction
// envelope for the network passphrase and returns the signed envelope.
func SignTransaction(acc Account, envelope, passphrase string) (string, error) {
	gentx, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return "", errors.Wrap(err, "decoding transaction")
	}
	tx, ok := gentx.Transaction()
	if !ok {
		return "", errors.New("fee bump transactions are not supported")
	}

	hash, err := tx.Hash(passphrase)
	if err != nil {
		return "", errors.Wrap(err, "hashing transaction")
	}
	sig, err := acc.SignData(hash[:])
	if err != nil {
		return "", err
	}
	signed, err := tx.AddSignatureDecorated(xdr.DecoratedSignature{
		Hint:      xdr.SignatureHint(Hint(acc.Address())),
		Signature: xdr.Signature(sig),
	})
	if err != nil {
		return "", errors.Wrap(err, "adding signature")
	}
	return signed.Base64()
}
