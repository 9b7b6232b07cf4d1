// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package web

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"solarwallet.io/go-solar/platform"
)

// ErrNoCamera is reported by readers without a source.
var ErrNoCamera = errors.New("no QR code source available")

// QRReader reports decoded QR codes read from a line source, one code per
// non-empty line. The desktop platform uses it too.
type QRReader struct {
	src io.Reader
}

var _ platform.QRReader = (*QRReader)(nil)

// NewQRReader creates a reader on src, which may be nil.
func NewQRReader(src io.Reader) *QRReader {
	return &QRReader{src: src}
}

// Scan blocks until the source is exhausted or ctx is done.
func (r *QRReader) Scan(ctx context.Context, onScan func(string), onError func(error)) {
	if r.src == nil {
		onError(ErrNoCamera)
		return
	}

	lines := make(chan string)
	failed := make(chan error, 1)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(r.src)
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := s.Err(); err != nil {
			failed <- errors.Wrap(err, "reading QR source")
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-failed:
					onError(err)
				default:
				}
				return
			}
			onScan(line)
		case <-ctx.Done():
			return
		}
	}
}
