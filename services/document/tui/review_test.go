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
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func createTestProposals() []*Proposal {
	return []*Proposal{
		{
			Path:       "src/User.cs",
			Output:     []byte("/// <summary>\n/// The user.\n/// </summary>\npublic class User { }\n"),
			Diff:       "--- a/src/User.cs\n+++ b/src/User.cs\n@@ -0,0 +1,3 @@\n+/// <summary>\n+/// The user.\n+/// </summary>\n",
			Documented: 1,
		},
		{
			Path:       "src/Order.cs",
			Output:     []byte("/// <summary>\n/// The order.\n/// </summary>\npublic class Order { }\n"),
			Diff:       "--- a/src/Order.cs\n+++ b/src/Order.cs\n@@ -0,0 +1,3 @@\n+/// <summary>\n+/// The order.\n+/// </summary>\n",
			Documented: 1,
			Skipped:    1,
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewReviewModel(t *testing.T) {
	proposals := createTestProposals()
	model := NewReviewModel(proposals, DefaultReviewConfig())

	if len(model.proposals) != 2 {
		t.Errorf("Expected 2 proposals, got %d", len(model.proposals))
	}
	if len(model.decisions) != 2 {
		t.Errorf("Expected 2 decisions, got %d", len(model.decisions))
	}
	if model.current != 0 {
		t.Errorf("Expected current = 0, got %d", model.current)
	}
	if model.viewMode != ViewDiff {
		t.Errorf("Expected viewMode = ViewDiff, got %v", model.viewMode)
	}
	for path, d := range model.decisions {
		if d != DecisionPending {
			t.Errorf("Decision for %s = %v, want pending", path, d)
		}
	}
}

func TestDefaultReviewConfig(t *testing.T) {
	config := DefaultReviewConfig()

	if config.ConfirmAcceptAll != true {
		t.Error("Expected ConfirmAcceptAll = true")
	}
}

func TestDecisionString(t *testing.T) {
	if DecisionAccepted.String() != "accepted" {
		t.Errorf("DecisionAccepted.String() = %q", DecisionAccepted.String())
	}
	if DecisionRejected.String() != "rejected" {
		t.Errorf("DecisionRejected.String() = %q", DecisionRejected.String())
	}
	if DecisionPending.String() != "pending" {
		t.Errorf("DecisionPending.String() = %q", DecisionPending.String())
	}
}

func TestReviewModel_DecideCurrent(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	model.decideCurrent(DecisionAccepted)
	if model.decisions["src/User.cs"] != DecisionAccepted {
		t.Errorf("Expected accepted, got %v", model.decisions["src/User.cs"])
	}

	model.decideCurrent(DecisionRejected)
	if model.decisions["src/User.cs"] != DecisionRejected {
		t.Errorf("Expected rejected, got %v", model.decisions["src/User.cs"])
	}
}

func TestReviewModel_AcceptAllRemaining(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	// Reject first file, then accept all remaining
	model.decideCurrent(DecisionRejected)
	model.acceptAllRemaining()

	if model.decisions["src/User.cs"] != DecisionRejected {
		t.Error("First file should remain rejected")
	}
	if model.decisions["src/Order.cs"] != DecisionAccepted {
		t.Error("Second file should be accepted")
	}
}

func TestReviewModel_ToggleViewMode(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	if model.viewMode != ViewDiff {
		t.Error("Initial view mode should be ViewDiff")
	}

	model.toggleViewMode()
	if model.viewMode != ViewSummary {
		t.Error("After first toggle, should be ViewSummary")
	}

	model.toggleViewMode()
	if model.viewMode != ViewDiff {
		t.Error("After second toggle, should be back to ViewDiff")
	}
}

func TestReviewModel_Navigation(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())
	model.ready = true

	if model.current != 0 {
		t.Errorf("Initial current = %d, want 0", model.current)
	}

	model, _ = model.nextFile()
	if model.current != 1 {
		t.Errorf("After nextFile, current = %d, want 1", model.current)
	}

	model, _ = model.nextFile()
	if model.current != 1 {
		t.Errorf("After extra nextFile, current = %d, want 1", model.current)
	}

	model, _ = model.prevFile()
	if model.current != 0 {
		t.Errorf("After prevFile, current = %d, want 0", model.current)
	}

	model, _ = model.prevFile()
	if model.current != 0 {
		t.Errorf("After extra prevFile, current = %d, want 0", model.current)
	}
}

func TestReviewModel_AdvanceFile(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())
	model.ready = true
	model.width = 80
	model.height = 24

	model.decideCurrent(DecisionAccepted)
	model, _ = model.advanceFile()

	if model.current != 1 {
		t.Errorf("After advanceFile, current = %d, want 1", model.current)
	}

	model.decideCurrent(DecisionAccepted)
	model, _ = model.advanceFile()

	if model.viewMode != ViewSummary {
		t.Errorf("After all files decided, viewMode = %v, want ViewSummary", model.viewMode)
	}
}

func TestReviewModel_KeyFlow(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	next, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model = next.(ReviewModel)
	if !model.ready {
		t.Fatal("model not ready after WindowSizeMsg")
	}

	// Accept the first file, reject the second.
	next, _ = model.Update(keyMsg("y"))
	model = next.(ReviewModel)
	next, _ = model.Update(keyMsg("n"))
	model = next.(ReviewModel)

	if model.decisions["src/User.cs"] != DecisionAccepted {
		t.Error("First file should be accepted")
	}
	if model.decisions["src/Order.cs"] != DecisionRejected {
		t.Error("Second file should be rejected")
	}
	if model.viewMode != ViewSummary {
		t.Errorf("viewMode = %v, want ViewSummary", model.viewMode)
	}

	// Enter applies from the summary view.
	next, _ = model.Update(keyMsg("enter"))
	model = next.(ReviewModel)
	if !model.quitting {
		t.Error("Expected quitting after Enter on summary")
	}
	if model.Cancelled() {
		t.Error("Finished review should not be cancelled")
	}

	accepted := model.Accepted()
	if len(accepted) != 1 || accepted[0].Path != "src/User.cs" {
		t.Errorf("Accepted() = %+v, want src/User.cs only", accepted)
	}
}

func TestReviewModel_CancelKey(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	next, _ := model.Update(keyMsg("q"))
	model = next.(ReviewModel)

	if !model.quitting || !model.Cancelled() {
		t.Error("Expected cancelled quit on q")
	}
	if got := model.View(); !strings.Contains(got, "cancelled") {
		t.Errorf("View() = %q, want cancel notice", got)
	}
}

func TestReviewModel_ConfirmAcceptAll(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	next, _ := model.Update(keyMsg("a"))
	model = next.(ReviewModel)
	if !model.showConfirm {
		t.Fatal("Expected confirmation prompt after a")
	}

	// Typing anything but yes cancels.
	for _, k := range []string{"n", "o", "enter"} {
		next, _ = model.Update(keyMsg(k))
		model = next.(ReviewModel)
	}
	if model.showConfirm || model.quitting {
		t.Fatal("Mistyped confirmation should return to review")
	}
	if model.decisions["src/User.cs"] != DecisionPending {
		t.Error("Mistyped confirmation should not accept files")
	}

	// Typing yes accepts everything and finishes.
	next, _ = model.Update(keyMsg("a"))
	model = next.(ReviewModel)
	for _, k := range []string{"y", "e", "s", "enter"} {
		next, _ = model.Update(keyMsg(k))
		model = next.(ReviewModel)
	}

	if !model.quitting {
		t.Error("Expected quitting after confirmed accept all")
	}
	for path, d := range model.Decisions() {
		if d != DecisionAccepted {
			t.Errorf("Decision for %s = %v, want accepted", path, d)
		}
	}
}

func TestReviewModel_Render(t *testing.T) {
	model := NewReviewModel(createTestProposals(), DefaultReviewConfig())

	next, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = next.(ReviewModel)

	view := model.View()
	if !strings.Contains(view, "Proposed Comments (2 files)") {
		t.Errorf("View lacks title: %q", view)
	}
	if !strings.Contains(view, "src/User.cs") {
		t.Error("View lacks the current file path")
	}
	if !strings.Contains(view, "[1/2]") {
		t.Error("View lacks the progress indicator")
	}

	// Summary lists per-file verdicts.
	model.decideCurrent(DecisionAccepted)
	model.viewMode = ViewSummary
	model.updateViewportContent()
	view = model.View()
	if !strings.Contains(view, "Review Summary") {
		t.Error("Summary view lacks heading")
	}
	if !strings.Contains(view, "Accepted (1 files)") {
		t.Errorf("Summary lacks accepted section: %q", view)
	}
}
