// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned by hosts lacking a capability.
var ErrUnsupported = errors.New("not supported by this host")

// Host provides the capabilities of the environment a Local handler runs
// in that are not backed by storage.
type Host interface {
	CopyToClipboard(ctx context.Context, text string) error
	OpenLink(ctx context.Context, url string) error
	ShowNotification(ctx context.Context, n Notification) error
	ScanQRCode(ctx context.Context) (string, error)
	IsDefaultProtocolClient(ctx context.Context) (bool, error)
	IsDifferentHandlerInstalled(ctx context.Context) (bool, error)
	SetAsDefaultProtocolClient(ctx context.Context) (bool, error)
}

// HeadlessHost is a Host without a user interface. It keeps the clipboard
// in memory and logs links and notifications. It can not scan QR codes and
// never is the default protocol client.
type HeadlessHost struct {
	mutex         sync.Mutex
	clipboard     string
	notifications []Notification
}

var _ Host = (*HeadlessHost)(nil)

// Clipboard returns the text last copied to the clipboard.
func (h *HeadlessHost) Clipboard() string {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.clipboard
}

// CopyToClipboard stores text.
func (h *HeadlessHost) CopyToClipboard(_ context.Context, text string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clipboard = text
	return nil
}

// OpenLink logs url.
func (h *HeadlessHost) OpenLink(_ context.Context, url string) error {
	logger.WithField("url", url).Info("Open link")
	return nil
}

// ShowNotification logs and records n.
func (h *HeadlessHost) ShowNotification(_ context.Context, n Notification) error {
	logger.WithField("title", n.Title).Info(n.Text)
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.notifications = append(h.notifications, n)
	return nil
}

// Notifications returns all notifications shown so far.
func (h *HeadlessHost) Notifications() []Notification {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return append([]Notification(nil), h.notifications...)
}

// ScanQRCode returns ErrUnsupported.
func (h *HeadlessHost) ScanQRCode(context.Context) (string, error) {
	return "", ErrUnsupported
}

// IsDefaultProtocolClient returns false.
func (h *HeadlessHost) IsDefaultProtocolClient(context.Context) (bool, error) { return false, nil }

// IsDifferentHandlerInstalled returns false.
func (h *HeadlessHost) IsDifferentHandlerInstalled(context.Context) (bool, error) { return false, nil }

// SetAsDefaultProtocolClient returns false.
func (h *HeadlessHost) SetAsDefaultProtocolClient(context.Context) (bool, error) { return false, nil }
