// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui provides the interactive review screen for proposed
// documentation comments.
//
// # Description
//
// This package implements the per-file review TUI using bubbletea. Each
// proposal shows the unified diff of the comments a run would insert; the
// reviewer accepts or rejects whole files and the caller applies accepted
// files only.
//
// # Thread Safety
//
// TUI components are designed for single-threaded use within the bubbletea
// event loop. Do not access TUI state from multiple goroutines.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewMode determines what the main pane shows.
type ViewMode int

const (
	// ViewDiff shows the current file's proposed insertions.
	ViewDiff ViewMode = iota

	// ViewSummary shows the review summary.
	ViewSummary
)

// Decision is the reviewer's verdict for one file.
type Decision int

const (
	// DecisionPending means the file has not been reviewed yet.
	DecisionPending Decision = iota

	// DecisionAccepted means the file's comments should be written.
	DecisionAccepted

	// DecisionRejected means the file stays untouched.
	DecisionRejected
)

// String returns the lowercase decision name.
func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Proposal is one file's proposed documentation comments.
type Proposal struct {
	// Path is the file the insertions target.
	Path string

	// Output is the documented content to write on acceptance.
	Output []byte

	// Diff is the unified diff of the insertions.
	Diff string

	// Documented is the number of constructs receiving a comment.
	Documented int

	// Skipped is the number of undocumented constructs left untouched.
	Skipped int
}

// DoneMsg signals the review is complete.
type DoneMsg struct {
	// Decisions maps file path to the reviewer's verdict.
	Decisions map[string]Decision
}

// ReviewConfig configures the review TUI.
type ReviewConfig struct {
	// ConfirmAcceptAll requires typing "yes" for Accept All (safety).
	ConfirmAcceptAll bool

	// Width overrides terminal width (0 = auto-detect).
	Width int

	// Height overrides terminal height (0 = auto-detect).
	Height int
}

// DefaultReviewConfig returns sensible defaults.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		ConfirmAcceptAll: true,
	}
}

// ReviewModel is the bubbletea model for the documentation review.
//
// # Description
//
// Manages the review session state: which file is on screen, the verdict
// per file, and the viewport scroll position.
type ReviewModel struct {
	config ReviewConfig

	// proposals being reviewed
	proposals []*Proposal

	// navigation state
	current  int
	viewMode ViewMode

	// viewport for scrolling
	viewport viewport.Model

	// terminal dimensions
	width  int
	height int

	// decisions maps file path to verdict
	decisions map[string]Decision

	// state flags
	ready        bool
	confirmInput string
	showConfirm  bool
	showHelp     bool
	quitting     bool
	cancelled    bool
}

// NewReviewModel creates a review model for the given proposals.
//
// # Inputs
//
//   - proposals: The per-file proposals to review.
//   - config: Configuration options.
//
// # Outputs
//
//   - ReviewModel: Ready-to-use model for tea.NewProgram.
func NewReviewModel(proposals []*Proposal, config ReviewConfig) ReviewModel {
	decisions := make(map[string]Decision, len(proposals))
	for _, p := range proposals {
		decisions[p.Path] = DecisionPending
	}

	return ReviewModel{
		config:    config,
		proposals: proposals,
		decisions: decisions,
		viewMode:  ViewDiff,
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 3
		viewportHeight := m.height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}

		m.updateViewportContent()

	case tea.KeyMsg:
		// Handle confirmation input mode
		if m.showConfirm {
			return m.handleConfirmInput(msg)
		}

		// Handle help overlay
		if m.showHelp {
			if msg.String() == "q" || msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "y", "Y":
			m.decideCurrent(DecisionAccepted)
			return m.advanceFile()

		case "n", "N":
			m.decideCurrent(DecisionRejected)
			return m.advanceFile()

		case "a", "A":
			if m.config.ConfirmAcceptAll {
				m.showConfirm = true
				m.confirmInput = ""
			} else {
				m.acceptAllRemaining()
				return m.finish()
			}

		case "?":
			m.showHelp = true

		case "q", "Q", "ctrl+c":
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit

		case "left", "h":
			return m.prevFile()

		case "right", "l":
			return m.nextFile()

		case "j", "down":
			m.viewport.LineDown(1)

		case "k", "up":
			m.viewport.LineUp(1)

		case "ctrl+d":
			m.viewport.HalfViewDown()

		case "ctrl+u":
			m.viewport.HalfViewUp()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()

		case "tab":
			m.toggleViewMode()
			m.updateViewportContent()

		case "enter":
			if m.viewMode == ViewSummary {
				return m.finish()
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.quitting && m.cancelled {
		return "Review cancelled.\n"
	}
	if m.quitting {
		return ""
	}

	if !m.ready || len(m.proposals) == 0 {
		return "Loading...\n"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else if m.showConfirm {
		b.WriteString(m.renderConfirm())
	} else {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// advanceFile moves to the next pending file, or to the summary when every
// file has a verdict.
func (m *ReviewModel) advanceFile() (ReviewModel, tea.Cmd) {
	for i := m.current + 1; i < len(m.proposals); i++ {
		if m.decisions[m.proposals[i].Path] == DecisionPending {
			m.current = i
			m.updateViewportContent()
			return *m, nil
		}
	}

	m.viewMode = ViewSummary
	m.updateViewportContent()
	return *m, nil
}

func (m *ReviewModel) prevFile() (ReviewModel, tea.Cmd) {
	if m.current > 0 {
		m.current--
		m.updateViewportContent()
	}
	return *m, nil
}

func (m *ReviewModel) nextFile() (ReviewModel, tea.Cmd) {
	if m.current < len(m.proposals)-1 {
		m.current++
		m.updateViewportContent()
	}
	return *m, nil
}

func (m *ReviewModel) toggleViewMode() {
	switch m.viewMode {
	case ViewDiff:
		m.viewMode = ViewSummary
	case ViewSummary:
		m.viewMode = ViewDiff
	}
}

// decideCurrent records a verdict for the file on screen.
func (m *ReviewModel) decideCurrent(d Decision) {
	if m.current >= len(m.proposals) {
		return
	}
	m.decisions[m.proposals[m.current].Path] = d
}

// acceptAllRemaining accepts every file still pending. Files already
// rejected keep their verdict.
func (m *ReviewModel) acceptAllRemaining() {
	for _, p := range m.proposals {
		if m.decisions[p.Path] == DecisionPending {
			m.decisions[p.Path] = DecisionAccepted
		}
	}
}

func (m ReviewModel) finish() (ReviewModel, tea.Cmd) {
	m.quitting = true

	decisions := m.decisions
	return m, tea.Sequence(
		func() tea.Msg { return DoneMsg{Decisions: decisions} },
		tea.Quit,
	)
}

func (m ReviewModel) handleConfirmInput(msg tea.KeyMsg) (ReviewModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if strings.ToLower(m.confirmInput) == "yes" {
			m.showConfirm = false
			m.acceptAllRemaining()
			return m.finish()
		}
		m.showConfirm = false
		m.confirmInput = ""

	case "esc":
		m.showConfirm = false
		m.confirmInput = ""

	case "backspace":
		if len(m.confirmInput) > 0 {
			m.confirmInput = m.confirmInput[:len(m.confirmInput)-1]
		}

	default:
		if len(msg.String()) == 1 {
			m.confirmInput += msg.String()
		}
	}

	return m, nil
}

func (m *ReviewModel) updateViewportContent() {
	if !m.ready {
		return
	}

	var content string
	switch m.viewMode {
	case ViewDiff:
		content = m.renderFileView()
	case ViewSummary:
		content = m.renderSummary()
	}

	m.viewport.SetContent(content)
}

// Decisions returns the verdict per file path.
//
// # Description
//
// Returns the decisions made so far. After the TUI exits normally, every
// file carries a terminal verdict; after a cancel, files may be pending.
func (m ReviewModel) Decisions() map[string]Decision {
	return m.decisions
}

// Accepted returns the proposals the reviewer accepted, in review order.
func (m ReviewModel) Accepted() []*Proposal {
	var accepted []*Proposal
	for _, p := range m.proposals {
		if m.decisions[p.Path] == DecisionAccepted {
			accepted = append(accepted, p)
		}
	}
	return accepted
}

// Cancelled reports whether the reviewer aborted the session.
func (m ReviewModel) Cancelled() bool {
	return m.cancelled
}
