// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package wallet

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
)

// ErrLocked is returned when a locked account is asked to sign.
var ErrLocked = errors.New("account locked")

// Account is an unlocked key able to sign.
type Account interface {
	// Address used by this account.
	Address() Address

	// SignData signs data with the account's key.
	SignData(data []byte) ([]byte, error)

	// Lock forgets the secret key. Later signing attempts fail with ErrLocked.
	Lock()

	// IsUnlocked returns whether the account can still sign.
	IsUnlocked() bool
}

type keypairAccount struct {
	addr  Address
	mutex sync.RWMutex
	kp    *keypair.Full
}

// NewAccount wraps an unlocked key pair.
func NewAccount(kp *keypair.Full) Account {
	addr, err := ParseAddress(kp.Address())
	if err != nil {
		panic("keypair with invalid address: " + err.Error())
	}
	return &keypairAccount{addr: addr, kp: kp}
}

func (a *keypairAccount) Address() Address { return a.addr }

func (a *keypairAccount) SignData(data []byte) ([]byte, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	if a.kp == nil {
		return nil, ErrLocked
	}
	sig, err := a.kp.Sign(data)
	return sig, errors.Wrap(err, "signing")
}

func (a *keypairAccount) Lock() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.kp = nil
}

func (a *keypairAccount) IsUnlocked() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.kp != nil
}
