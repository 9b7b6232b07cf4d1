// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package log

import (
	"regexp"
	"strings"
	"sync"
)

// NamespaceField is the field under which named loggers record their namespace.
const NamespaceField = "ns"

var namespaces struct {
	mutex    sync.RWMutex
	patterns string
	include  []*regexp.Regexp
	exclude  []*regexp.Regexp
}

// EnableNamespaces sets which named loggers emit Debug and Trace output.
// The patterns are a comma or space separated list of namespace patterns where
// '*' matches any run of characters and a leading '-' excludes a pattern,
// e.g. "net-worker:*,-net-worker:multisig". An empty list disables all
// namespaces. Each call replaces the previous set.
func EnableNamespaces(patterns string) {
	var include, exclude []*regexp.Regexp
	for _, p := range strings.FieldsFunc(patterns, func(r rune) bool { return r == ',' || r == ' ' }) {
		if strings.HasPrefix(p, "-") {
			exclude = append(exclude, compileNamespace(p[1:]))
		} else {
			include = append(include, compileNamespace(p))
		}
	}

	namespaces.mutex.Lock()
	defer namespaces.mutex.Unlock()
	namespaces.patterns = patterns
	namespaces.include = include
	namespaces.exclude = exclude
}

// EnabledNamespaces returns the patterns last passed to EnableNamespaces.
func EnabledNamespaces() string {
	namespaces.mutex.RLock()
	defer namespaces.mutex.RUnlock()
	return namespaces.patterns
}

// Enabled reports whether Debug and Trace output is enabled for namespace ns.
func Enabled(ns string) bool {
	namespaces.mutex.RLock()
	defer namespaces.mutex.RUnlock()

	for _, re := range namespaces.exclude {
		if re.MatchString(ns) {
			return false
		}
	}
	for _, re := range namespaces.include {
		if re.MatchString(ns) {
			return true
		}
	}
	return false
}

func compileNamespace(pattern string) *regexp.Regexp {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*?")
	return regexp.MustCompile("^" + quoted + "$")
}

// Named returns a logger that tags its entries with the namespace ns and only
// emits Debug and Trace output while ns is enabled via EnableNamespaces.
// The returned logger always forwards to the current value of Log.
func Named(ns string) Logger {
	return &named{ns: ns}
}

type named struct {
	ns     string
	fields Fields
}

func (n *named) base() Logger {
	l := Log.WithField(NamespaceField, n.ns)
	if len(n.fields) > 0 {
		l = l.WithFields(n.fields)
	}
	return l
}

func (n *named) debugging() bool { return Enabled(n.ns) }

func (n *named) with(fs Fields) Logger {
	merged := make(Fields, len(n.fields)+len(fs))
	for k, v := range n.fields {
		merged[k] = v
	}
	for k, v := range fs {
		merged[k] = v
	}
	return &named{ns: n.ns, fields: merged}
}

func (n *named) WithField(key string, value interface{}) Logger { return n.with(Fields{key: value}) }
func (n *named) WithFields(fs Fields) Logger                    { return n.with(fs) }
func (n *named) WithError(err error) Logger                     { return n.with(Fields{"error": err}) }

func (n *named) Printf(format string, args ...interface{}) { n.base().Printf(format, args...) }
func (n *named) Print(args ...interface{})                 { n.base().Print(args...) }
func (n *named) Println(args ...interface{})               { n.base().Println(args...) }

func (n *named) Fatalf(format string, args ...interface{}) { n.base().Fatalf(format, args...) }
func (n *named) Fatal(args ...interface{})                 { n.base().Fatal(args...) }
func (n *named) Fatalln(args ...interface{})               { n.base().Fatalln(args...) }

func (n *named) Panicf(format string, args ...interface{}) { n.base().Panicf(format, args...) }
func (n *named) Panic(args ...interface{})                 { n.base().Panic(args...) }
func (n *named) Panicln(args ...interface{})               { n.base().Panicln(args...) }

func (n *named) Tracef(format string, args ...interface{}) {
	if n.debugging() {
		n.base().Tracef(format, args...)
	}
}

func (n *named) Trace(args ...interface{}) {
	if n.debugging() {
		n.base().Trace(args...)
	}
}

func (n *named) Traceln(args ...interface{}) {
	if n.debugging() {
		n.base().Traceln(args...)
	}
}

func (n *named) Debugf(format string, args ...interface{}) {
	if n.debugging() {
		n.base().Debugf(format, args...)
	}
}

func (n *named) Debug(args ...interface{}) {
	if n.debugging() {
		n.base().Debug(args...)
	}
}

func (n *named) Debugln(args ...interface{}) {
	if n.debugging() {
		n.base().Debugln(args...)
	}
}

func (n *named) Infof(format string, args ...interface{})  { n.base().Infof(format, args...) }
func (n *named) Info(args ...interface{})                  { n.base().Info(args...) }
func (n *named) Infoln(args ...interface{})                { n.base().Infoln(args...) }
func (n *named) Warnf(format string, args ...interface{})  { n.base().Warnf(format, args...) }
func (n *named) Warn(args ...interface{})                  { n.base().Warn(args...) }
func (n *named) Warnln(args ...interface{})                { n.base().Warnln(args...) }
func (n *named) Errorf(format string, args ...interface{}) { n.base().Errorf(format, args...) }
func (n *named) Error(args ...interface{})                 { n.base().Error(args...) }
func (n *named) Errorln(args ...interface{})               { n.base().Errorln(args...) }
