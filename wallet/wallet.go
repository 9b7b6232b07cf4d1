// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package wallet defines accounts and wallets holding Stellar keys.
package wallet // import "solarwallet.io/go-solar/wallet"

// PublicKeyData is what a wallet reveals about a stored key without
// unlocking it.
type PublicKeyData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
	// Password is set if the key is protected by a non-empty password.
	Password bool `json:"password"`
}

// Wallet stores keys and unlocks them into accounts.
type Wallet interface {
	// KeyIDs returns the IDs of all stored keys.
	KeyIDs() ([]string, error)

	// PublicKeyData returns the public data of key id.
	PublicKeyData(id string) (*PublicKeyData, error)

	// Unlock decrypts key id with password.
	Unlock(id, password string) (Account, error)

	// Contains checks whether this wallet holds a key for addr.
	Contains(addr Address) bool
}
