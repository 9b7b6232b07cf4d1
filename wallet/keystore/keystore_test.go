// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package keystore

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/db/leveldb"
	"solarwallet.io/go-solar/db/memorydb"
	wallettest "solarwallet.io/go-solar/wallet/test"
)

const sampleAddr = "GCUZ6YLL5RQBTYLTTQLPCM73C5XAIUGK2TIMWQH7HPSGWVS2KJ2F3CHS"

func TestKeystore_Generic(t *testing.T) {
	t.Parallel()
	ks := New(memorydb.NewDatabase(), WithScryptN(LightScryptN))
	_, err := ks.SaveKey("1", "Main", keypair.MustRandom().Seed(), "secret")
	require.NoError(t, err)

	wallettest.GenericWalletTest(t, &wallettest.Setup{
		Wallet:     ks,
		KeyID:      "1",
		Password:   "secret",
		SampleAddr: sampleAddr,
		DataToSign: []byte("solar wallet"),
	})
}

func TestKeystore_LevelDB(t *testing.T) {
	t.Parallel()
	database, err := leveldb.NewMemDatabase()
	require.NoError(t, err)
	defer database.Close()

	ks := New(database, WithScryptN(LightScryptN))
	_, err = ks.SaveKey("main", "", keypair.MustRandom().Seed(), "")
	require.NoError(t, err)

	wallettest.GenericWalletTest(t, &wallettest.Setup{
		Wallet:     ks,
		KeyID:      "main",
		SampleAddr: sampleAddr,
		DataToSign: []byte{0, 1, 2, 3},
	})
}

func TestKeystore_Lifecycle(t *testing.T) {
	t.Parallel()
	database := memorydb.NewDatabase()
	ks := New(database, WithScryptN(LightScryptN))
	kp := keypair.MustRandom()

	data, err := ks.SaveKey("a", "Savings", kp.Seed(), "pw")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), data.PublicKey)
	assert.True(t, data.Password)
	_, err = ks.SaveKey("b", "Spending", keypair.MustRandom().Seed(), "pw")
	require.NoError(t, err)

	ids, err := ks.KeyIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	raw, err := database.GetBytes(tablePrefix + "a")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), kp.Seed(), "seed must not be stored in plain text")

	_, err = ks.Unlock("a", "nope")
	assert.ErrorIs(t, err, ErrWrongPassword)
	_, err = ks.Unlock("missing", "pw")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	acc, err := ks.Unlock("a", "pw")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), acc.Address().String())

	require.NoError(t, ks.Remove("a"))
	assert.ErrorIs(t, ks.Remove("a"), ErrKeyNotFound)
	assert.False(t, ks.Contains(acc.Address()))
	ids, err = ks.KeyIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestKeystore_SaveKey_Invalid(t *testing.T) {
	t.Parallel()
	ks := New(memorydb.NewDatabase(), WithScryptN(LightScryptN))
	_, err := ks.SaveKey("a", "", "not a seed", "")
	assert.Error(t, err)
	_, err = ks.SaveKey("", "", keypair.MustRandom().Seed(), "")
	assert.Error(t, err)
	_, err = ks.SaveKey("a", "", keypair.MustRandom().Address(), "")
	assert.Error(t, err, "public keys are no seeds")
}
