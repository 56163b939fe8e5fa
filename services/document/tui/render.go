// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorTealPrimary)

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorTealBright)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	addedStyle = lipgloss.NewStyle().
			Foreground(ux.ColorSuccess)

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(ux.ColorTealVibrant).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(ux.ColorWarning)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ux.ColorTealPrimary).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	acceptedBadge = lipgloss.NewStyle().
			Foreground(ux.ColorSuccess).
			Background(lipgloss.Color("22")).
			Padding(0, 1)

	rejectedBadge = lipgloss.NewStyle().
			Foreground(ux.ColorError).
			Background(lipgloss.Color("52")).
			Padding(0, 1)

	pendingBadge = lipgloss.NewStyle().
			Foreground(ux.ColorWarning).
			Background(lipgloss.Color("58")).
			Padding(0, 1)
)

func (m ReviewModel) renderHeader() string {
	if len(m.proposals) == 0 {
		return titleStyle.Render("No proposed comments to review")
	}

	var b strings.Builder

	title := fmt.Sprintf("Proposed Comments (%d files)", len(m.proposals))
	b.WriteString(titleStyle.Render(title))

	if m.viewMode != ViewSummary {
		progress := fmt.Sprintf("  [%d/%d]", m.current+1, len(m.proposals))
		b.WriteString(statsStyle.Render(progress))
	}

	return b.String()
}

func (m ReviewModel) renderFooter() string {
	var keys []string

	switch m.viewMode {
	case ViewDiff:
		keys = []string{
			"[Y] Accept", "[N] Reject", "[A] Accept all",
			"[←→] Navigate", "[Tab] Summary", "[?] Help", "[Q] Cancel",
		}
	case ViewSummary:
		keys = []string{
			"[Enter] Apply accepted", "[←→] Review files",
			"[Tab] Diff view", "[Q] Cancel",
		}
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(strings.Join(keys, "  "))
}

func (m ReviewModel) renderFileView() string {
	if m.current >= len(m.proposals) {
		return "No file selected"
	}

	p := m.proposals[m.current]

	var b strings.Builder

	b.WriteString(m.renderFileHeader(p))
	b.WriteString("\n\n")
	b.WriteString(m.renderUnified(p.Diff))

	if p.Skipped > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(
			fmt.Sprintf("⚠ %d construct(s) could not be documented", p.Skipped)))
	}

	return b.String()
}

func (m ReviewModel) renderFileHeader(p *Proposal) string {
	var b strings.Builder

	b.WriteString(filePathStyle.Render(p.Path))

	b.WriteString("  ")
	b.WriteString(m.renderStats(p))

	b.WriteString("  ")
	switch m.decisions[p.Path] {
	case DecisionAccepted:
		b.WriteString(acceptedBadge.Render("ACCEPTED"))
	case DecisionRejected:
		b.WriteString(rejectedBadge.Render("REJECTED"))
	default:
		b.WriteString(pendingBadge.Render("PENDING"))
	}

	return b.String()
}

func (m ReviewModel) renderStats(p *Proposal) string {
	comments := addedStyle.Render(fmt.Sprintf("+%d comment(s)", p.Documented))
	if p.Skipped == 0 {
		return comments
	}
	return fmt.Sprintf("%s %s", comments,
		warnStyle.Render(fmt.Sprintf("%d skipped", p.Skipped)))
}

// renderUnified styles a unified diff line by line. Insertions are the only
// change kind a documentation pass produces, so there is no removed style.
func (m ReviewModel) renderUnified(unified string) string {
	if unified == "" {
		return contextStyle.Render("(no changes)")
	}

	lines := strings.Split(strings.TrimRight(unified, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(filePathStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkHeaderStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedStyle.Render(line))
		default:
			b.WriteString(contextStyle.Render(line))
		}
	}
	return b.String()
}

func (m ReviewModel) renderSummary() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Review Summary"))
	b.WriteString("\n\n")

	var accepted, rejected, pending []*Proposal
	for _, p := range m.proposals {
		switch m.decisions[p.Path] {
		case DecisionAccepted:
			accepted = append(accepted, p)
		case DecisionRejected:
			rejected = append(rejected, p)
		default:
			pending = append(pending, p)
		}
	}

	if len(accepted) > 0 {
		b.WriteString(addedStyle.Render(fmt.Sprintf("✓ Accepted (%d files):", len(accepted))))
		b.WriteString("\n")
		for _, p := range accepted {
			b.WriteString(fmt.Sprintf("  • %s  %s\n", p.Path, m.renderStats(p)))
		}
		b.WriteString("\n")
	}

	if len(rejected) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ux.ColorError).
			Render(fmt.Sprintf("✗ Rejected (%d files):", len(rejected))))
		b.WriteString("\n")
		for _, p := range rejected {
			b.WriteString(fmt.Sprintf("  • %s  %s\n", p.Path, m.renderStats(p)))
		}
		b.WriteString("\n")
	}

	if len(pending) > 0 {
		b.WriteString(pendingBadge.Render(fmt.Sprintf("? Pending (%d files):", len(pending))))
		b.WriteString("\n")
		for _, p := range pending {
			b.WriteString(fmt.Sprintf("  • %s  %s\n", p.Path, m.renderStats(p)))
		}
		b.WriteString("\n")
	}

	totalComments := 0
	for _, p := range accepted {
		totalComments += p.Documented
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total to apply: %s across %d files\n",
		addedStyle.Render(fmt.Sprintf("+%d comment(s)", totalComments)),
		len(accepted),
	))

	if len(pending) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("⚠ Some files are still pending review"))
	}

	return b.String()
}

func (m ReviewModel) renderHelp() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct {
		key  string
		desc string
	}{
		{"Y", "Accept current file"},
		{"N", "Reject current file"},
		{"A", "Accept all remaining"},
		{"Q", "Cancel review"},
		{"", ""},
		{"←/→ or H/L", "Navigate between files"},
		{"↑/↓ or J/K", "Scroll content"},
		{"Ctrl+D/U", "Page down/up"},
		{"G / Shift+G", "Go to top/bottom"},
		{"Tab", "Toggle diff/summary view"},
		{"?", "Toggle this help"},
	}

	for _, item := range helpItems {
		if item.key == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Render(fmt.Sprintf("%-15s", item.key)),
			helpDescStyle.Render(item.desc),
		))
	}

	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("Press ? or Q to close help"))

	return b.String()
}

func (m ReviewModel) renderConfirm() string {
	var b strings.Builder

	pending := 0
	for _, p := range m.proposals {
		if m.decisions[p.Path] == DecisionPending {
			pending++
		}
	}

	b.WriteString(titleStyle.Render("Confirm Accept All"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("This will accept %d remaining file(s).\n\n", pending))
	b.WriteString("Type 'yes' to confirm: ")
	b.WriteString(lipgloss.NewStyle().
		Foreground(ux.ColorTealPrimary).
		Bold(true).
		Render(m.confirmInput))
	b.WriteString("▌")

	b.WriteString("\n\n")
	b.WriteString(helpDescStyle.Render("Press Enter to confirm, Esc to cancel"))

	return b.String()
}
