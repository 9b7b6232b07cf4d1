// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func successMsg(format string, a ...interface{}) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func errorMsg(format string, a ...interface{}) string {
	return errorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

func heading(s string) string { return boldStyle.Render(s) }

// keyValues renders aligned "key  value" lines.
func keyValues(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		b.WriteString("  " + labelStyle.Render(p[0]) + pad + "  " + p[1] + "\n")
	}
	return b.String()
}

func boolText(v bool) string {
	if v {
		return successStyle.Render("yes")
	}
	return errorStyle.Render("no")
}
