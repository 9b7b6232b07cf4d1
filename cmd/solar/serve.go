// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"solarwallet.io/go-solar/db/leveldb"
	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/ipc/bridge"
	"solarwallet.io/go-solar/log"
	"solarwallet.io/go-solar/networker"
	"solarwallet.io/go-solar/platform/web"
	"solarwallet.io/go-solar/wallet/keystore"
)

func workerCmd(g *globals) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the net worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := listen
			if addr == "" {
				addr = g.cfg.Worker.Address
			}
			if addr == "" {
				return errors.New("no worker address configured, use --listen")
			}
			l, err := net.Listen(g.cfg.Worker.Network, addr)
			if err != nil {
				return errors.Wrap(err, "listening")
			}
			log.WithField("addr", l.Addr()).Info("net worker listening")

			srv := networker.NewServer(networker.NewServices(networkerConfig(g.cfg)))
			return srv.Listen(ctx, l)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on, overrides worker.address")
	return cmd
}

func bridgeCmd(g *globals) *cobra.Command {
	var stream string
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Serve the desktop IPC bridge for the wallet database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if g.cfg.Bridge.Listen == "" && stream == "" {
				return errors.New("nothing to serve, configure bridge.listen or use --stream")
			}
			database, err := leveldb.LoadDatabase(web.DatabasePath(g.cfg))
			if err != nil {
				return err
			}
			defer database.Close()
			srv := bridge.NewServer(ipc.NewLocal(database, keystore.New(database), new(ipc.HeadlessHost)))

			eg, ctx := errgroup.WithContext(ctx)
			if g.cfg.Bridge.Listen != "" {
				mux := http.NewServeMux()
				mux.Handle("/ipc", srv)
				httpSrv := &http.Server{Addr: g.cfg.Bridge.Listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
				eg.Go(func() error {
					log.WithField("addr", httpSrv.Addr).Info("websocket bridge listening")
					if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return errors.Wrap(err, "serving websocket bridge")
					}
					return nil
				})
				eg.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return httpSrv.Shutdown(shutdownCtx)
				})
			}
			if stream != "" {
				l, err := listenURL(stream)
				if err != nil {
					return err
				}
				eg.Go(func() error {
					log.WithField("addr", stream).Info("stream bridge listening")
					return srv.ListenStream(ctx, l)
				})
			}
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&stream, "stream", "", "Also serve the framed stream bridge on a tcp:// or unix:// URL")
	return cmd
}

func listenURL(rawURL string) (net.Listener, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing listen URL")
	}
	switch u.Scheme {
	case "tcp":
		return net.Listen("tcp", u.Host)
	case "unix":
		return net.Listen("unix", u.Path)
	default:
		return nil, errors.Errorf("unsupported listen URL scheme %q", u.Scheme)
	}
}
