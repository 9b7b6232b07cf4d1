// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"solarwallet.io/go-solar/db"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/stellar"
	"solarwallet.io/go-solar/wallet"
	"solarwallet.io/go-solar/wallet/keystore"
	"solarwallet.io/go-solar/worker"
)

var logger = log.Named("ipc")

const (
	settingsPrefix   = "settings."
	ignoredHashesKey = "ignoredSignatureRequests"
)

// subscriptionBuffer is the number of events queued per subscriber before
// Publish blocks.
const subscriptionBuffer = 16

// Local handles messages in-process: settings and ignored signature request
// hashes are stored in a database, keys in a keystore and everything else
// is delegated to a Host.
type Local struct {
	store    db.Database
	keystore *keystore.Keystore
	host     Host
	handlers worker.Operations

	mutex sync.Mutex
	feeds map[MessageType]*event.Feed
}

var _ IPC = (*Local)(nil)

// NewLocal creates a handler storing its data in database.
func NewLocal(database db.Database, ks *keystore.Keystore, host Host) *Local {
	l := &Local{
		store:    db.NewTable(database, settingsPrefix),
		keystore: ks,
		host:     host,
		feeds:    make(map[MessageType]*event.Feed),
	}
	l.handlers = worker.Operations{
		string(ReadSettings):                       worker.Op0(l.readSettings),
		string(StoreSettings):                      worker.Op1(l.storeSettings),
		string(ReadIgnoredSignatureRequestHashes):  worker.Op0(l.readIgnoredHashes),
		string(StoreIgnoredSignatureRequestHashes): worker.Op1(l.storeIgnoredHashes),
		string(GetKeyIDs):                          worker.Op0(l.getKeyIDs),
		string(GetPublicKeyData):                   worker.Op1(l.getPublicKeyData),
		string(SaveKey):                            worker.Op4(l.saveKey),
		string(RemoveKey):                          worker.Op1(l.removeKey),
		string(SignTransaction):                    worker.Op4(l.signTransaction),
		string(IsDefaultProtocolClient):            worker.Op0(host.IsDefaultProtocolClient),
		string(IsDifferentHandlerInstalled):        worker.Op0(host.IsDifferentHandlerInstalled),
		string(SetAsDefaultProtocolClient):         worker.Op0(host.SetAsDefaultProtocolClient),
		string(CopyToClipboard):                    worker.Exec1(host.CopyToClipboard),
		string(OpenLink):                           worker.Exec1(host.OpenLink),
		string(ShowNotification):                   worker.Exec1(host.ShowNotification),
		string(ScanQRCode):                         worker.Op0(host.ScanQRCode),
	}
	return l
}

// Call handles a call message.
func (l *Local) Call(ctx context.Context, t MessageType, args ...interface{}) (json.RawMessage, error) {
	if err := Validate(t, len(args)); err != nil {
		return nil, err
	}
	rawArgs := make([]json.RawMessage, len(args))
	for i, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding argument %d of %s", i, t)
		}
		rawArgs[i] = raw
	}

	logger.Debugf("%s", t)
	res, err := l.handlers[string(t)](ctx, rawArgs)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(res)
	return raw, errors.Wrapf(err, "encoding %s reply", t)
}

func (l *Local) feed(t MessageType) *event.Feed {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	f, ok := l.feeds[t]
	if !ok {
		f = new(event.Feed)
		l.feeds[t] = f
	}
	return f
}

// Subscribe calls fn for every message of type t published until the
// returned Unsubscribe is called. fn runs on its own goroutine per
// subscription.
func (l *Local) Subscribe(t MessageType, fn func(json.RawMessage)) (Unsubscribe, error) {
	if err := ValidateSubscription(t); err != nil {
		return nil, err
	}
	ch := make(chan json.RawMessage, subscriptionBuffer)
	sub := l.feed(t).Subscribe(ch)
	go func() {
		for {
			select {
			case payload := <-ch:
				fn(payload)
			case <-sub.Err():
				return
			}
		}
	}()
	return sub.Unsubscribe, nil
}

// Publish sends a subscription message to all subscribers of t and returns
// how many received it.
func (l *Local) Publish(t MessageType, payload interface{}) (int, error) {
	if err := ValidateSubscription(t); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Wrapf(err, "encoding %s payload", t)
	}
	return l.feed(t).Send(json.RawMessage(raw)), nil
}

func (l *Local) readSettings(context.Context) (Settings, error) {
	keys, err := l.store.Keys("")
	if err != nil {
		return nil, err
	}
	settings := make(Settings, len(keys))
	for _, key := range keys {
		if key == ignoredHashesKey {
			continue
		}
		value, err := l.store.GetBytes(key)
		if err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, nil
}

// storeSettings merges update into the stored settings.
func (l *Local) storeSettings(_ context.Context, update Settings) (bool, error) {
	batch := l.store.NewBatch()
	for key, value := range update {
		if key == ignoredHashesKey {
			return false, errors.Errorf("reserved setting %q", key)
		}
		if err := batch.PutBytes(key, value); err != nil {
			return false, err
		}
	}
	return true, batch.Apply()
}

func (l *Local) readIgnoredHashes(context.Context) ([]string, error) {
	raw, err := l.store.GetBytes(ignoredHashesKey)
	if errors.Is(err, db.ErrNotFound) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}
	var hashes []string
	return hashes, errors.Wrap(json.Unmarshal(raw, &hashes), "decoding ignored hashes")
}

func (l *Local) storeIgnoredHashes(_ context.Context, hashes []string) (bool, error) {
	if hashes == nil {
		hashes = []string{}
	}
	raw, err := json.Marshal(hashes)
	if err != nil {
		return false, err
	}
	return true, l.store.PutBytes(ignoredHashesKey, raw)
}

func (l *Local) getKeyIDs(context.Context) ([]string, error) {
	return l.keystore.KeyIDs()
}

func (l *Local) getPublicKeyData(_ context.Context, id string) (*wallet.PublicKeyData, error) {
	return l.keystore.PublicKeyData(id)
}

func (l *Local) saveKey(_ context.Context, id, name, seed, password string) (*wallet.PublicKeyData, error) {
	return l.keystore.SaveKey(id, name, seed, password)
}

func (l *Local) removeKey(_ context.Context, id string) (bool, error) {
	return true, l.keystore.Remove(id)
}

// signTransaction signs envelope with key id for network and returns the
// signed envelope. The key is locked again afterwards.
func (l *Local) signTransaction(_ context.Context, id, envelope, network, password string) (string, error) {
	acc, err := l.keystore.Unlock(id, password)
	if err != nil {
		return "", err
	}
	defer acc.Lock()
	return wallet.SignTransaction(acc, envelope, stellar.Passphrase(network))
}
