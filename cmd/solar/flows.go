// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"solarwallet.io/go-solar/ipc"
	"solarwallet.io/go-solar/networker"
	"solarwallet.io/go-solar/platform"
	"solarwallet.io/go-solar/stellar/multisig"
	"solarwallet.io/go-solar/stellar/uri"
	"solarwallet.io/go-solar/wallet"
)

// passwordEnv is read when no password flag is given.
const passwordEnv = "SOLAR_PASSWORD"

func password(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(passwordEnv)
}

func authCmd(g *globals) *cobra.Command {
	var keyID, issuer, pw string
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate at the web auth endpoint of an asset issuer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, release, err := newClient(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer release()

			res, err := c.Authenticate(cmd.Context(), keyID, password(pw), g.cfg.Horizon(), issuer, g.cfg.Network)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successMsg("authenticated"))
			fmt.Fprintln(cmd.OutOrStdout(), res.AuthToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyID, "key", "", "ID of the key to authenticate with")
	cmd.Flags().StringVar(&issuer, "issuer", "", "Account ID of the asset issuer")
	cmd.Flags().StringVar(&pw, "password", "", "Key password, defaults to $"+passwordEnv)
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("issuer")
	return cmd
}

func keysCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored keys",
	}

	var id, name, pw string
	add := &cobra.Command{
		Use:   "add SECRET_SEED",
		Short: "Store a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			impl, err := initPlatform(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}

			data, err := ipc.Call[wallet.PublicKeyData](cmd.Context(), impl.IPC(), ipc.SaveKey, id, name, args[0], password(pw))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successMsg("stored %s as %s", data.PublicKey, data.ID))
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "Key ID")
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().StringVar(&pw, "password", "", "Password, defaults to $"+passwordEnv)
	add.MarkFlagRequired("id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			impl, err := initPlatform(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}

			keys, err := loadKeys(cmd, impl)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading("Keys"))
			if len(keys) == 0 {
				fmt.Fprintln(out, "  none")
				return nil
			}
			var rows [][2]string
			for _, k := range keys {
				rows = append(rows, [2]string{k.ID, k.PublicKey + "  " + accentStyle.Render(k.Name)})
			}
			fmt.Fprint(out, keyValues(rows...))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			impl, err := initPlatform(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}

			if _, err := impl.IPC().Call(cmd.Context(), ipc.RemoveKey, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successMsg("removed %s", args[0]))
			return nil
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

func loadKeys(cmd *cobra.Command, impl platform.Implementation) ([]wallet.PublicKeyData, error) {
	ids, err := ipc.Call[[]string](cmd.Context(), impl.IPC(), ipc.GetKeyIDs)
	if err != nil {
		return nil, err
	}
	keys := make([]wallet.PublicKeyData, 0, len(ids))
	for _, id := range ids {
		k, err := ipc.Call[wallet.PublicKeyData](cmd.Context(), impl.IPC(), ipc.GetPublicKeyData, id)
		if err != nil {
			return nil, errors.WithMessagef(err, "loading key %s", id)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func statusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the platform, network and pending signature requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			cfg := g.cfg

			variant, err := platform.Resolve(platform.EnvFromConfig(cfg))
			if err != nil {
				fmt.Fprintln(out, errorMsg("%v", err))
				return err
			}
			fmt.Fprintln(out, heading("Solar"))
			fmt.Fprint(out, keyValues(
				[2]string{"platform", accentStyle.Render(variant.String())},
				[2]string{"network", cfg.Network},
				[2]string{"horizon", cfg.Horizon()},
				[2]string{"data", cfg.Data()},
			))

			c, release, err := newClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer release()

			isDefault, err := c.ProtocolHandler.IsDefaultProtocolClient(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(out, keyValues([2]string{"link handler", boolText(isDefault)}))

			accounts, err := c.Accounts(ctx)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				return nil
			}

			requests, err := c.Worker.FetchSignatureRequests(ctx, cfg.Multisig(), accounts)
			if err != nil {
				fmt.Fprintln(out, errorMsg("signature requests: %v", err))
				return nil
			}
			ignored, err := ipc.Call[[]string](ctx, c.IPC, ipc.ReadIgnoredSignatureRequestHashes)
			if err != nil {
				return err
			}
			sort.Strings(ignored)
			fmt.Fprintln(out, heading("Signature requests"))
			for _, r := range requests {
				i := sort.SearchStrings(ignored, r.Hash)
				if i < len(ignored) && ignored[i] == r.Hash {
					continue
				}
				fmt.Fprintf(out, "  %s  %s\n", labelStyle.Render(r.Status), r.Hash)
			}
			return nil
		},
	}
}

func watchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Notify about new signature requests for the stored accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, release, err := newClient(ctx, g.cfg)
			if err != nil {
				return err
			}
			defer release()

			svc := multisig.NewService(&http.Client{Timeout: networker.DefaultRequestTimeout})
			return c.WatchSignatureRequests(ctx, svc, g.cfg.Multisig())
		},
	}
}

func verifyURICmd(g *globals) *cobra.Command {
	var allowUnsafeTestnet bool
	cmd := &cobra.Command{
		Use:   "verify-uri URI",
		Short: "Verify a web+stellar: transaction or payment request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, release, err := newClient(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			r, err := c.VerifyTransactionRequest(cmd.Context(), args[0], uri.Options{AllowUnsafeTestnetURIs: allowUnsafeTestnet})
			if uri.IsVerificationError(err) {
				fmt.Fprintln(out, errorMsg("%v", err))
				return err
			} else if err != nil {
				return err
			}

			fmt.Fprintln(out, successMsg("valid %s request", r.Operation))
			keys := make([]string, 0, len(r.Params))
			for k := range r.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var rows [][2]string
			for _, k := range keys {
				rows = append(rows, [2]string{k, strings.Join(r.Params[k], ", ")})
			}
			fmt.Fprint(out, keyValues(rows...))
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowUnsafeTestnet, "allow-unsafe-testnet", false, "Accept unsigned test network requests")
	return cmd
}
