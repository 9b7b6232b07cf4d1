// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package keystore stores Stellar secret keys encrypted in a database.
// Keys are sealed with NaCl secretbox under a key derived from the user's
// password with scrypt.
package keystore // import "solarwallet.io/go-solar/wallet/keystore"

import (
	"crypto/rand"
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"solarwallet.io/go-solar/db"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/wallet"
)

// Scrypt cost parameters. LightScryptN trades security for speed and is
// meant for tests.
const (
	StandardScryptN = 1 << 15
	LightScryptN    = 1 << 10
	scryptR         = 8
	scryptP         = 1
)

const tablePrefix = "keys."

var (
	// ErrKeyNotFound is returned for unknown key IDs.
	ErrKeyNotFound = errors.New("key not found")
	// ErrWrongPassword is returned if a key can not be decrypted.
	ErrWrongPassword = errors.New("wrong password")
)

var logger = log.Named("keystore")

// sealedKey is the stored form of a key.
type sealedKey struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PublicKey  string `json:"publicKey"`
	Password   bool   `json:"password"`
	ScryptN    int    `json:"scryptN"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Keystore is a wallet.Wallet backed by a database.
type Keystore struct {
	mutex   sync.Mutex
	table   db.Database
	scryptN int
}

var _ wallet.Wallet = (*Keystore)(nil)

// Option configures a Keystore.
type Option func(*Keystore)

// WithScryptN sets the scrypt CPU/memory cost of newly saved keys.
func WithScryptN(n int) Option {
	return func(k *Keystore) { k.scryptN = n }
}

// New creates a keystore storing its keys in database.
func New(database db.Database, opts ...Option) *Keystore {
	k := &Keystore{table: db.NewTable(database, tablePrefix), scryptN: StandardScryptN}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// SaveKey stores the secret seed under id, replacing an existing key with
// the same id. An empty password is allowed.
func (k *Keystore) SaveKey(id, name, seed, password string) (*wallet.PublicKeyData, error) {
	if id == "" {
		return nil, errors.New("empty key ID")
	}
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(err, "parsing secret seed")
	}

	sealed := sealedKey{
		ID:        id,
		Name:      name,
		PublicKey: kp.Address(),
		Password:  password != "",
		ScryptN:   k.scryptN,
		Salt:      make([]byte, 32),
	}
	var nonce [24]byte
	if _, err := rand.Read(sealed.Salt); err != nil {
		return nil, errors.Wrap(err, "reading salt")
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "reading nonce")
	}
	key, err := deriveKey(password, sealed.Salt, sealed.ScryptN)
	if err != nil {
		return nil, err
	}
	sealed.Nonce = nonce[:]
	sealed.Ciphertext = secretbox.Seal(nil, []byte(kp.Seed()), &nonce, key)

	data, err := json.Marshal(sealed)
	if err != nil {
		return nil, errors.Wrap(err, "encoding key")
	}

	k.mutex.Lock()
	defer k.mutex.Unlock()
	if err := k.table.PutBytes(id, data); err != nil {
		return nil, errors.WithMessage(err, "storing key")
	}
	logger.WithField("id", id).Debug("Key saved")
	return sealed.publicData(), nil
}

// KeyIDs returns the IDs of all stored keys in ascending order.
func (k *Keystore) KeyIDs() ([]string, error) {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	ids, err := k.table.Keys("")
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// PublicKeyData returns the public data of key id.
func (k *Keystore) PublicKeyData(id string) (*wallet.PublicKeyData, error) {
	sealed, err := k.load(id)
	if err != nil {
		return nil, err
	}
	return sealed.publicData(), nil
}

// Unlock decrypts key id with password.
func (k *Keystore) Unlock(id, password string) (wallet.Account, error) {
	sealed, err := k.load(id)
	if err != nil {
		return nil, err
	}
	key, err := deriveKey(password, sealed.Salt, sealed.ScryptN)
	if err != nil {
		return nil, err
	}
	var nonce [24]byte
	if len(sealed.Nonce) != len(nonce) {
		return nil, errors.Errorf("corrupt key %s", id)
	}
	copy(nonce[:], sealed.Nonce)

	seed, ok := secretbox.Open(nil, sealed.Ciphertext, &nonce, key)
	if !ok {
		return nil, ErrWrongPassword
	}
	kp, err := keypair.ParseFull(string(seed))
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt key %s", id)
	}
	return wallet.NewAccount(kp), nil
}

// Contains checks whether a key of addr is stored.
func (k *Keystore) Contains(addr wallet.Address) bool {
	ids, err := k.KeyIDs()
	if err != nil {
		return false
	}
	for _, id := range ids {
		if sealed, err := k.load(id); err == nil && sealed.PublicKey == addr.String() {
			return true
		}
	}
	return false
}

// Remove deletes key id.
func (k *Keystore) Remove(id string) error {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	if ok, err := k.table.Has(id); err != nil {
		return err
	} else if !ok {
		return ErrKeyNotFound
	}
	logger.WithField("id", id).Debug("Key removed")
	return k.table.Delete(id)
}

func (k *Keystore) load(id string) (*sealedKey, error) {
	k.mutex.Lock()
	data, err := k.table.GetBytes(id)
	k.mutex.Unlock()
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrKeyNotFound
	} else if err != nil {
		return nil, err
	}

	var sealed sealedKey
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, errors.Wrapf(err, "decoding key %s", id)
	}
	return &sealed, nil
}

func (s *sealedKey) publicData() *wallet.PublicKeyData {
	return &wallet.PublicKeyData{ID: s.ID, Name: s.Name, PublicKey: s.PublicKey, Password: s.Password}
}

func deriveKey(password string, salt []byte, n int) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(password), salt, n, scryptR, scryptP, 32)
	if err != nil {
		return nil, errors.Wrap(err, "deriving key")
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
