// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Command solar runs the headless parts of the Solar wallet: the net worker,
// the desktop IPC bridge and a few wallet flows.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"solarwallet.io/go-solar/config"
	"solarwallet.io/go-solar/log"
	logrusadapter "solarwallet.io/go-solar/log/logrus"
)

// globals are the persistent flags and the configuration loaded from them.
type globals struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

func main() {
	err := rootCmd().Execute()
	if cerr := closePlatform(); cerr != nil {
		log.WithError(cerr).Warn("shutting down")
	}
	if err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := new(globals)
	cmd := &cobra.Command{
		Use:           "solar",
		Short:         "Solar wallet core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg

			level := cfg.LogLevel()
			namespaces := cfg.Log.Namespaces
			if g.debug {
				level = logrus.DebugLevel
				if namespaces == "" {
					namespaces = "*"
				}
			}
			logrusadapter.Set(os.Stderr, level, &logrus.TextFormatter{})
			log.EnableNamespaces(namespaces)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", config.Path(), "Config file")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging for all namespaces")
	cmd.AddCommand(
		workerCmd(g),
		bridgeCmd(g),
		authCmd(g),
		keysCmd(g),
		statusCmd(g),
		watchCmd(g),
		verifyURICmd(g),
	)
	return cmd
}
