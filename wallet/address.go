// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

// Address is the public key of an account.
type Address interface {
	// String converts this address to its G... strkey form.
	fmt.Stringer
	// Bytes returns the raw ed25519 public key.
	Bytes() []byte
	// Equals checks the equality of two addresses.
	Equals(Address) bool
}

type address struct {
	kp  *keypair.FromAddress
	raw []byte
}

// ParseAddress parses a G... account ID.
func ParseAddress(s string) (Address, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, s)
	if err != nil {
		return nil, errors.Wrap(err, "decoding account ID")
	}
	kp, err := keypair.ParseAddress(s)
	if err != nil {
		return nil, errors.Wrap(err, "parsing account ID")
	}
	return &address{kp: kp, raw: raw}, nil
}

// AddressFromBytes creates an address from a raw ed25519 public key.
func AddressFromBytes(raw []byte) (Address, error) {
	s, err := strkey.Encode(strkey.VersionByteAccountID, raw)
	if err != nil {
		return nil, errors.Wrap(err, "encoding account ID")
	}
	return ParseAddress(s)
}

func (a *address) String() string { return a.kp.Address() }

func (a *address) Bytes() []byte { return append([]byte(nil), a.raw...) }

func (a *address) Equals(b Address) bool {
	return b != nil && bytes.Equal(a.raw, b.Bytes())
}

// Hint returns the signature hint of addr: the last four bytes of its key.
func Hint(addr Address) [4]byte {
	var hint [4]byte
	raw := addr.Bytes()
	copy(hint[:], raw[len(raw)-4:])
	return hint
}

// VerifySignature checks whether sig is a valid signature of data by addr.
// It only returns an error if sig is malformed.
func VerifySignature(data, sig []byte, addr Address) (bool, error) {
	if len(sig) != 64 {
		return false, errors.Errorf("invalid signature length %d", len(sig))
	}
	kp, err := keypair.ParseAddress(addr.String())
	if err != nil {
		return false, errors.Wrap(err, "parsing address")
	}
	return kp.Verify(data, sig) == nil, nil
}
