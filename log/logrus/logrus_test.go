// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package logrus

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/log"
)

func TestSet(t *testing.T) {
	old := log.Log
	defer func() { log.Log = old }()

	var buf bytes.Buffer
	logger := Set(&buf, logrus.InfoLevel, &logrus.JSONFormatter{})
	assert.Equal(t, log.Logger(logger), log.Log)

	log.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug must be filtered on info level")

	log.WithField("account", "GABC").Info("visible")
	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), `"account":"GABC"`)
	assert.Contains(t, buf.String(), `"msg":"visible"`)
}

func TestNamedLogger(t *testing.T) {
	old := log.Log
	defer func() { log.Log = old }()
	defer log.EnableNamespaces("")

	var buf bytes.Buffer
	Set(&buf, logrus.TraceLevel, &logrus.TextFormatter{DisableColors: true})

	l := log.Named("net-worker:sep10")
	l.Debug("before")
	assert.Zero(t, buf.Len(), "disabled namespaces must not emit debug output")

	l.Info("info")
	assert.Contains(t, buf.String(), "ns=\"net-worker:sep10\"")
	buf.Reset()

	log.EnableNamespaces("net-worker:*")
	l.WithField("step", 1).Debug("after")
	assert.Contains(t, buf.String(), "after")
	assert.Contains(t, buf.String(), "step=1")
}
