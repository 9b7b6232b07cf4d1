// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package test contains generic tests for wallet implementations.
package test // import "solarwallet.io/go-solar/wallet/test"

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/wallet"
)

// Setup describes a wallet prepared for the generic tests. The wallet must
// hold exactly one key, KeyID, protected by Password.
type Setup struct {
	Wallet   wallet.Wallet
	KeyID    string
	Password string
	// SampleAddr is a valid address not held by the wallet.
	SampleAddr string
	DataToSign []byte
}

// GenericWalletTest runs a test suite designed to test the general
// functionality of an implementation of wallet. This function should be
// called by every implementation of the wallet interface.
func GenericWalletTest(t *testing.T, s *Setup) {
	ids, err := s.Wallet.KeyIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{s.KeyID}, ids, "Expected one key")

	data, err := s.Wallet.PublicKeyData(s.KeyID)
	require.NoError(t, err)
	assert.Equal(t, s.KeyID, data.ID)
	assert.Equal(t, s.Password != "", data.Password)

	_, err = s.Wallet.PublicKeyData("missing")
	assert.Error(t, err, "Expected unknown key to fail")

	sample, err := wallet.ParseAddress(s.SampleAddr)
	require.NoError(t, err)
	assert.False(t, s.Wallet.Contains(sample), "Wallet should not contain sample address")

	_, err = s.Wallet.Unlock(s.KeyID, s.Password+"wrong")
	assert.Error(t, err, "Unlock with wrong password should fail")

	acc, err := s.Wallet.Unlock(s.KeyID, s.Password)
	require.NoError(t, err, "Expected unlock to work")
	assert.Equal(t, data.PublicKey, acc.Address().String())
	assert.True(t, s.Wallet.Contains(acc.Address()), "Expected wallet to contain account")

	GenericSignatureTest(t, acc, sample, s.DataToSign)
}

// GenericSignatureTest checks the signatures of an unlocked account. other
// must be an address different from acc's.
func GenericSignatureTest(t *testing.T, acc wallet.Account, other wallet.Address, data []byte) {
	require.True(t, acc.IsUnlocked(), "Account should be unlocked")

	sig, err := acc.SignData(data)
	require.NoError(t, err, "Sign with unlocked account should succeed")
	valid, err := wallet.VerifySignature(data, sig, acc.Address())
	assert.NoError(t, err)
	assert.True(t, valid, "Verification should succeed")

	valid, err = wallet.VerifySignature(data, sig, other)
	assert.NoError(t, err, "Verification of valid signature should not produce error")
	assert.False(t, valid, "Verification with wrong address should fail")

	sig[0] = ^sig[0] // invalidate signature
	valid, err = wallet.VerifySignature(data, sig, acc.Address())
	assert.NoError(t, err)
	assert.False(t, valid, "Verification should fail")

	_, err = wallet.VerifySignature(data, sig[:10], acc.Address())
	assert.Error(t, err, "Verification of malformed signature should produce error")

	acc.Lock()
	assert.False(t, acc.IsUnlocked(), "Account should be locked")
	_, err = acc.SignData(data)
	assert.ErrorIs(t, err, wallet.ErrLocked, "Sign with locked account should fail")
}

// GenericAddressTest checks the (de)serialization and equality of addresses.
func GenericAddressTest(t *testing.T, sampleAddr string) {
	init, err := wallet.ParseAddress(sampleAddr)
	require.NoError(t, err, "String deserialization of Address should work")

	zero, err := wallet.AddressFromBytes(make([]byte, len(init.Bytes())))
	require.NoError(t, err, "Byte deserialization of Address should work")

	addr, err := wallet.AddressFromBytes(init.Bytes())
	require.NoError(t, err, "Byte deserialization of Address should work")
	assert.True(t, init.Equals(addr), "Expected equality to serialized byte array")

	addr, err = wallet.ParseAddress(init.String())
	require.NoError(t, err)
	assert.True(t, init.Equals(addr), "Expected equality to serialized string")

	assert.True(t, init.Equals(init), "Expected equality to itself")
	assert.False(t, init.Equals(zero), "Expected non-equality to other")
	assert.True(t, zero.Equals(zero), "Expected equality to itself")

	_, err = wallet.ParseAddress("SBAD")
	assert.Error(t, err)
}
