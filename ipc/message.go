// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ipc

import (
	"fmt"
	"sort"
)

// MessageType names a message the main context can send to its host.
type MessageType string

// Call messages.
const (
	ReadSettings                       MessageType = "ReadSettings"
	StoreSettings                      MessageType = "StoreSettings"
	ReadIgnoredSignatureRequestHashes  MessageType = "ReadIgnoredSignatureRequestHashes"
	StoreIgnoredSignatureRequestHashes MessageType = "StoreIgnoredSignatureRequestHashes"
	GetKeyIDs                          MessageType = "GetKeyIDs"
	GetPublicKeyData                   MessageType = "GetPublicKeyData"
	SaveKey                            MessageType = "SaveKey"
	RemoveKey                          MessageType = "RemoveKey"
	SignTransaction                    MessageType = "SignTransaction"
	IsDefaultProtocolClient            MessageType = "IsDefaultProtocolClient"
	IsDifferentHandlerInstalled        MessageType = "IsDifferentHandlerInstalled"
	SetAsDefaultProtocolClient         MessageType = "SetAsDefaultProtocolClient"
	CopyToClipboard                    MessageType = "CopyToClipboard"
	OpenLink                           MessageType = "OpenLink"
	ShowNotification                   MessageType = "ShowNotification"
	ScanQRCode                         MessageType = "ScanQRCode"
)

// Subscription messages.
const (
	DeepLinkURL         MessageType = "DeepLinkURL"
	NotificationClicked MessageType = "NotificationClicked"
)

// Kind tells whether a message is a call or a subscription.
type Kind int

// Message kinds.
const (
	KindCall Kind = iota
	KindSubscription
)

// MessageSpec describes a message type.
type MessageSpec struct {
	Kind Kind
	Args int
}

var catalog = map[MessageType]MessageSpec{
	ReadSettings:                       {KindCall, 0},
	StoreSettings:                      {KindCall, 1}, // settings update
	ReadIgnoredSignatureRequestHashes:  {KindCall, 0},
	StoreIgnoredSignatureRequestHashes: {KindCall, 1}, // hashes
	GetKeyIDs:                          {KindCall, 0},
	GetPublicKeyData:                   {KindCall, 1}, // key ID
	SaveKey:                            {KindCall, 4}, // key ID, name, secret seed, password
	RemoveKey:                          {KindCall, 1}, // key ID
	SignTransaction:                    {KindCall, 4}, // key ID, envelope, network, password
	IsDefaultProtocolClient:            {KindCall, 0},
	IsDifferentHandlerInstalled:        {KindCall, 0},
	SetAsDefaultProtocolClient:         {KindCall, 0},
	CopyToClipboard:                    {KindCall, 1}, // text
	OpenLink:                           {KindCall, 1}, // URL
	ShowNotification:                   {KindCall, 1}, // Notification
	ScanQRCode:                         {KindCall, 0},
	DeepLinkURL:                        {KindSubscription, 0},
	NotificationClicked:                {KindSubscription, 0},
}

// Lookup returns the catalog entry of t.
func Lookup(t MessageType) (MessageSpec, bool) {
	entry, ok := catalog[t]
	return entry, ok
}

// MessageTypes returns all known message types in ascending order.
func MessageTypes() []MessageType {
	types := make([]MessageType, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ValidationError reports a message that must not be dispatched.
type ValidationError struct {
	Type   MessageType
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + string(e.Type) + " message: " + e.Reason
}

// Kind returns "InvalidMessage".
func (e *ValidationError) Kind() string { return "InvalidMessage" }

// Validate checks that t is a known call message taking nargs arguments.
func Validate(t MessageType, nargs int) error {
	entry, ok := catalog[t]
	if !ok {
		return &ValidationError{Type: t, Reason: "unknown message type"}
	}
	if entry.Kind != KindCall {
		return &ValidationError{Type: t, Reason: "is a subscription"}
	}
	if nargs != entry.Args {
		return &ValidationError{Type: t, Reason: fmt.Sprintf("got %d arguments, want %d", nargs, entry.Args)}
	}
	return nil
}

// ValidateSubscription checks that t is a known subscription message.
func ValidateSubscription(t MessageType) error {
	entry, ok := catalog[t]
	if !ok {
		return &ValidationError{Type: t, Reason: "unknown message type"}
	}
	if entry.Kind != KindSubscription {
		return &ValidationError{Type: t, Reason: "is no subscription"}
	}
	return nil
}
