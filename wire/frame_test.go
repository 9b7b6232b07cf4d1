// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrame(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(0xdeadbeef))
	uint8buf, uint16buf := make([]byte, math.MaxUint8), make([]byte, math.MaxUint16)
	rng.Read(uint8buf)
	rng.Read(uint16buf)

	t.Run("valid frames", func(t *testing.T) {
		payloads := [][]byte{{}, []byte("a"), []byte("solar"), uint8buf, uint16buf}

		for _, p := range payloads {
			waitGroup := new(sync.WaitGroup)
			r, w := io.Pipe()
			waitGroup.Add(2)

			go func() {
				defer waitGroup.Done()
				defer w.Close()
				assert.NoError(WriteFrame(w, p))
			}()

			go func() {
				defer waitGroup.Done()
				got, err := ReadFrame(r)
				assert.NoError(err)
				assert.Equal(p, got)
			}()

			waitGroup.Wait()
		}
	})

	t.Run("clean EOF", func(t *testing.T) {
		_, err := ReadFrame(bytes.NewReader(nil))
		assert.Equal(io.EOF, err)
	})

	t.Run("short payload", func(t *testing.T) {
		var buf bytes.Buffer
		binary.Write(&buf, binary.BigEndian, uint32(10))
		buf.Write([]byte("short"))
		_, err := ReadFrame(&buf)
		assert.Error(err)
	})

	t.Run("oversized header", func(t *testing.T) {
		var buf bytes.Buffer
		binary.Write(&buf, binary.BigEndian, uint32(MaxFrameSize+1))
		_, err := ReadFrame(&buf)
		assert.True(IsFrameSizeError(err))
	})

	t.Run("oversized payload", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteFrame(&buf, make([]byte, MaxFrameSize+1))
		assert.True(IsFrameSizeError(err))
		assert.Zero(buf.Len(), "nothing may be written for an oversized frame")
	})
}

func TestEncodeDecode(t *testing.T) {
	type msg struct {
		Op   string   `json:"op"`
		Args []string `json:"args"`
	}

	var buf bytes.Buffer
	in := msg{Op: "fetchStellarToml", Args: []string{"stellar.org"}}
	require.NoError(t, Encode(&buf, in))
	require.NoError(t, Encode(&buf, msg{Op: "second"}))

	var out msg
	require.NoError(t, Decode(&buf, &out))
	assert.Equal(t, in, out)
	require.NoError(t, Decode(&buf, &out))
	assert.Equal(t, "second", out.Op)
}
