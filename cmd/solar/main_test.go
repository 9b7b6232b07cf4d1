// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/stellar/uri"
)

func TestKeyValues(t *testing.T) {
	out := keyValues([2]string{"a", "1"}, [2]string{"long", "2"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[1]), "values are aligned")
}

func TestListenURL(t *testing.T) {
	l, err := listenURL("tcp://127.0.0.1:0")
	require.NoError(t, err)
	l.Close()

	_, err = listenURL("ws://127.0.0.1:0")
	assert.Error(t, err)
}

// configPath is the configuration shared by all command tests. The platform
// is initialized once per process, so every command runs against the same
// data directory.
var configPath string

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	dir, err := os.MkdirTemp("", "solar-cmd")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	cfg := config.Defaults()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Network = "testnet"
	configPath = filepath.Join(dir, "config.yaml")
	if err := cfg.SaveFile(configPath); err != nil {
		panic(err)
	}

	defer closePlatform()
	return m.Run()
}

func run(args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVerifyURICmd(t *testing.T) {
	q := url.Values{}
	q.Set("destination", "GCUZ6YLL5RQBTYLTTQLPCM73C5XAIUGK2TIMWQH7HPSGWVS2KJ2F3CHS")
	q.Set("amount", "12.5")
	q.Set("network_passphrase", network.TestNetworkPassphrase)
	request := uri.Scheme + ":pay?" + q.Encode()

	out, err := run("verify-uri", "--allow-unsafe-testnet", request)
	require.NoError(t, err)
	assert.Contains(t, out, "valid pay request")
	assert.Contains(t, out, "12.5")

	_, err = run("verify-uri", request)
	assert.True(t, uri.IsVerificationError(err), "unsigned request without bypass, got %v", err)
}

func TestKeysCmd(t *testing.T) {
	kp := keypair.MustRandom()

	out, err := run("keys", "add", "--id", "main", "--name", "Main account", "--password", "pw", kp.Seed())
	require.NoError(t, err)
	assert.Contains(t, out, "stored "+kp.Address()+" as main")

	out, err = run("keys", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "main")
	assert.Contains(t, out, kp.Address())
	assert.Contains(t, out, "Main account")

	_, err = run("keys", "add", "--id", "bad", "not-a-seed")
	assert.Error(t, err)

	out, err = run("keys", "remove", "main")
	require.NoError(t, err)
	assert.Contains(t, out, "removed main")

	out, err = run("keys", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, kp.Address())
	assert.Contains(t, out, "none")

	_, err = run("keys", "remove", "main")
	assert.Error(t, err, "removing a missing key")
}
