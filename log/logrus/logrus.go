// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package logrus implements the go-solar logger interface on top of
// github.com/sirupsen/logrus.
package logrus // import "solarwallet.io/go-solar/log/logrus"

import (
	"io"

	"github.com/sirupsen/logrus"

	"solarwallet.io/go-solar/log"
)

// Logger wraps a logrus entry so that it satisfies log.Logger.
type Logger struct {
	*logrus.Entry
}

var _ log.Logger = (*Logger)(nil)

// FromLogrus creates a go-solar logger from a logrus logger.
func FromLogrus(l *logrus.Logger) *Logger {
	return &Logger{logrus.NewEntry(l)}
}

// Set creates a logrus logger with the given level and formatter, writing to
// out, and sets it as the framework logger log.Log.
func Set(out io.Writer, level logrus.Level, formatter logrus.Formatter) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter)
	logger := FromLogrus(l)
	log.Log = logger
	return logger
}

// WithField calls WithField on the logrus entry.
func (l *Logger) WithField(key string, value interface{}) log.Logger {
	return &Logger{l.Entry.WithField(key, value)}
}

// WithFields calls WithFields on the logrus entry.
func (l *Logger) WithFields(fs log.Fields) log.Logger {
	return &Logger{l.Entry.WithFields(logrus.Fields(fs))}
}

// WithError calls WithError on the logrus entry.
func (l *Logger) WithError(err error) log.Logger {
	return &Logger{l.Entry.WithError(err)}
}
