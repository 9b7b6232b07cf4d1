// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package worker

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"solarwallet.io/go-solar/pkg/test"
	"solarwallet.io/go-solar/wire"
)

type networkError struct {
	url string
}

func (e *networkError) Error() string { return "request to " + e.url + " failed" }
func (e *networkError) Kind() string  { return "NetworkError" }
func (e *networkError) Meta() map[string]string {
	return map[string]string{"url": e.url}
}

func testOperations() Operations {
	return Operations{
		"echo": Op1(func(_ context.Context, s string) (string, error) { return s, nil }),
		"add":  Op2(func(_ context.Context, a, b int) (int, error) { return a + b, nil }),
		"sleepEcho": Op2(func(ctx context.Context, s string, ms int) (string, error) {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
				return s, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}),
		"block": Op0(func(ctx context.Context) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		}),
		"fail": Op1(func(_ context.Context, url string) (bool, error) {
			return false, errors.WithMessage(&networkError{url: url}, "fetching challenge")
		}),
		"panic": Op0(func(context.Context) (bool, error) { panic("boom") }),
		"huge": Op0(func(context.Context) (string, error) {
			return strings.Repeat("x", wire.MaxFrameSize+1), nil
		}),
	}
}

func TestClient_Call(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()

	var s string
	require.NoError(t, c.CallResult(ctx, &s, "echo", "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"))
	assert.Equal(t, "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H", s)

	var sum int
	require.NoError(t, c.CallResult(ctx, &sum, "add", 40, 2))
	assert.Equal(t, 42, sum)
}

func TestClient_CallErrors(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()

	_, err := c.Call(ctx, "fail", "https://testanchor.stellar.org/auth")
	require.Error(t, err)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "fail", callErr.Op)
	assert.Equal(t, "NetworkError", callErr.Kind())
	assert.Equal(t, "fetching challenge: request to https://testanchor.stellar.org/auth failed", callErr.Error())
	assert.Equal(t, map[string]string{"url": "https://testanchor.stellar.org/auth"}, callErr.Meta())
	assert.True(t, IsKind(err, "NetworkError"))

	_, err = c.Call(ctx, "doesNotExist")
	assert.True(t, IsKind(err, KindUnknownOperation), "unknown operations must fail with %s", KindUnknownOperation)

	_, err = c.Call(ctx, "add", 1)
	assert.True(t, IsKind(err, KindInvalidArguments), "wrong arity must fail with %s", KindInvalidArguments)
	_, err = c.Call(ctx, "add", "one", 2)
	assert.True(t, IsKind(err, KindInvalidArguments), "wrong argument types must fail with %s", KindInvalidArguments)

	_, err = c.Call(ctx, "panic")
	assert.True(t, IsKind(err, KindPanic))
	assert.Equal(t, "boom", err.Error())

	// The worker survives all of the above.
	var s string
	require.NoError(t, c.CallResult(ctx, &s, "echo", "still alive"))
	assert.Equal(t, "still alive", s)
}

func TestClient_ReadinessBarrier(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	srv := NewServer(testOperations(), WithInit(func(context.Context) error {
		<-release
		return nil
	}))
	c := Spawn(ctx, srv)
	defer c.Close()

	done := make(chan string, 1)
	go func() {
		var s string
		assert.NoError(t, c.CallResult(ctx, &s, "echo", "queued"))
		done <- s
	}()

	select {
	case <-done:
		t.Fatal("call must not complete before the worker is ready")
	case <-c.Ready():
		t.Fatal("client must not be ready before the startup hooks ran")
	case <-time.NewTimer(100 * time.Millisecond).C:
	}

	close(release)
	select {
	case s := <-done:
		assert.Equal(t, "queued", s, "queued call must be served once ready")
	case <-time.NewTimer(time.Second).C:
		t.Fatal("queued call was not served after readiness")
	}
}

func TestClient_NotReadyDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(testOperations(), WithInit(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	c := Spawn(ctx, srv)
	defer c.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer callCancel()
	_, err := c.Call(callCtx, "echo", "x")
	assert.Equal(t, context.DeadlineExceeded, err, "calls before readiness must fail deterministically on their deadline")
}

func TestClient_InitFailure(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(testOperations(), WithInit(func(context.Context) error {
		return errors.New("opening database")
	}))
	c := Spawn(ctx, srv)

	_, err := c.Call(ctx, "echo", "x")
	assert.Equal(t, ErrClosed, err)
	select {
	case <-c.Closed():
	default:
		t.Fatal("client must be closed after the worker failed to start")
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()

	const n = 32
	rng := rand.New(rand.NewSource(0x5015a7))
	delays := make([]int, n)
	for i := range delays {
		delays[i] = rng.Intn(50)
	}

	ct := test.NewConcurrent(t)
	for i := 0; i < n; i++ {
		i := i
		go ct.StageN("calls", n, func(t require.TestingT) {
			want := fmt.Sprintf("result-%d", i)
			var got string
			require.NoError(t, c.CallResult(ctx, &got, "sleepEcho", want, delays[i]))
			require.Equal(t, want, got, "responses must not be swapped between calls")
		})
	}
	ct.Wait("calls")
}

func TestClient_OversizedMessages(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()
	<-c.Ready()

	concurrent := make(chan error, 1)
	go func() {
		var s string
		err := c.CallResult(ctx, &s, "sleepEcho", "slow", 200)
		if err == nil && s != "slow" {
			err = errors.Errorf("got %q", s)
		}
		concurrent <- err
	}()

	_, err := c.Call(ctx, "huge")
	assert.True(t, IsKind(err, KindSerialization), "oversized result must fail its own call, got %v", err)

	_, err = c.Call(ctx, "echo", strings.Repeat("y", wire.MaxFrameSize+1))
	assert.True(t, IsKind(err, KindSerialization), "oversized arguments must fail their own call, got %v", err)

	select {
	case err := <-concurrent:
		assert.NoError(t, err, "concurrent calls must be unaffected")
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("concurrent call did not complete")
	}

	var s string
	require.NoError(t, c.CallResult(ctx, &s, "echo", "after"))
	assert.Equal(t, "after", s)
}

func TestClient_AbandonedCall(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer callCancel()
	_, err := c.Call(callCtx, "sleepEcho", "late", 100)
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.Zero(t, c.pending.len(), "abandoned calls must be unregistered")

	// Wait for the late response to arrive and be discarded.
	<-time.NewTimer(150 * time.Millisecond).C
	var s string
	require.NoError(t, c.CallResult(ctx, &s, "echo", "next"))
	assert.Equal(t, "next", s)
}

func TestClient_AbandonedWhileSending(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Spawn(ctx, NewServer(testOperations()))
	defer c.Close()
	<-c.Ready()

	// Another call is in the middle of sending.
	c.sending.Lock()
	callCtx, callCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer callCancel()
	_, err := c.Call(callCtx, "echo", "queued")
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.Zero(t, c.pending.len(), "calls abandoned before sending must be unregistered")
	c.sending.Unlock()

	var s string
	require.NoError(t, c.CallResult(ctx, &s, "echo", "next"))
	assert.Equal(t, "next", s)
}

func TestClient_ConnectionLoss(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local, remote := NewPipeConnPair()
	srvCtx, stopServer := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() { served <- NewServer(testOperations()).Serve(srvCtx, remote) }()
	c := NewClient(local)

	failed := make(chan error, 1)
	go func() {
		_, err := c.Call(ctx, "block")
		failed <- err
	}()

	<-c.Ready()
	<-time.NewTimer(50 * time.Millisecond).C
	stopServer()

	select {
	case err := <-failed:
		assert.True(t, errors.Is(err, ErrClosed), "pending calls must fail with ErrClosed, got %v", err)
	case <-time.NewTimer(time.Second).C:
		t.Fatal("pending call did not fail after connection loss")
	}
	assert.Equal(t, context.Canceled, <-served)

	_, err := c.Call(ctx, "echo", "x")
	assert.Equal(t, ErrClosed, err, "calls after connection loss must fail")
}

func TestDialListen(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go NewServer(testOperations()).Listen(ctx, l)

	c, err := Dial(ctx, "tcp", l.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	var sum int
	require.NoError(t, c.CallResult(ctx, &sum, "add", 1, 2))
	assert.Equal(t, 3, sum)
}

func TestClient_Spans(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	c := Spawn(ctx, NewServer(testOperations()), WithTracer(provider.Tracer("worker-test")))
	defer c.Close()

	_, err := c.Call(ctx, "echo", "x")
	require.NoError(t, err)
	_, err = c.Call(ctx, "fail", "https://example.com")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "worker.echo", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "worker.fail", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
