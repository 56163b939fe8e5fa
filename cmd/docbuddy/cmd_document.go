// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document"
	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/diffview"
	"github.com/AleutianAI/DocBuddy/services/document/rewrite"
	"github.com/AleutianAI/DocBuddy/services/document/tui"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	docWrite        bool     // Write documented files back to disk
	docDryRun       bool     // Preview without writing
	docDiff         bool     // Print unified diffs of proposed insertions
	docReview       bool     // Review proposals file by file in the TUI
	docIncludeKinds []string // Only document these construct kinds
	docExcludeKinds []string // Never document these construct kinds
	docTemplates    string   // Template override file
	docParallel     int      // Concurrent files during tree runs
	docNoCache      bool     // Disable the digest cache
	docCacheDir     string   // Digest cache directory
	docYes          bool     // Skip the interactive confirmation
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var documentCmd = &cobra.Command{
	Use:   "document [paths...]",
	Short: "Insert documentation comments into C# sources",
	Long: `Scans the given files or directories for undocumented C# constructs
and inserts XML documentation comments synthesized from the declarations
themselves. Constructs that already carry documentation are left alone.

Running interactively shows the plan and asks before writing; pass --yes
to skip the prompt, --dry-run to never write, or --review to approve the
changes file by file.

Examples:
  docbuddy document ./src                  # Plan, confirm, write
  docbuddy document --yes ./src            # Write without asking
  docbuddy document --dry-run --diff ./src # Preview the insertions
  docbuddy document --review ./src         # Approve file by file
  docbuddy document --include-kinds routine,property ./src`,
	Run: runDocumentCommand,
}

func init() {
	documentCmd.Flags().BoolVar(&docWrite, "write", true,
		"Write documented files back to disk")
	documentCmd.Flags().BoolVar(&docDryRun, "dry-run", false,
		"Preview without writing any file")
	documentCmd.Flags().BoolVar(&docDiff, "diff", false,
		"Print unified diffs of the proposed insertions")
	documentCmd.Flags().BoolVar(&docReview, "review", false,
		"Review and accept proposals file by file")
	documentCmd.Flags().StringSliceVar(&docIncludeKinds, "include-kinds", nil,
		"Only document these construct kinds (e.g. routine,property)")
	documentCmd.Flags().StringSliceVar(&docExcludeKinds, "exclude-kinds", nil,
		"Never document these construct kinds")
	documentCmd.Flags().StringVar(&docTemplates, "templates", "",
		"Template override file (YAML)")
	documentCmd.Flags().IntVar(&docParallel, "parallel", 0,
		"Concurrent files during tree runs (default: GOMAXPROCS)")
	documentCmd.Flags().BoolVar(&docNoCache, "no-cache", false,
		"Disable the digest cache")
	documentCmd.Flags().StringVar(&docCacheDir, "cache-dir", "",
		"Digest cache directory (default: user cache dir)")
	documentCmd.Flags().BoolVarP(&docYes, "yes", "y", false,
		"Write without asking for confirmation")

	rootCmd.AddCommand(documentCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runDocumentCommand documents the given paths.
//
// Non-interactive runs hand the whole tree to the service for a parallel,
// cache-aware pass. Interactive runs, previews, and reviews first plan
// every insertion in memory and only then write what was approved.
func runDocumentCommand(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		args = []string{"."}
	}

	cfg, err := documentServiceConfig()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dryRun := docDryRun || !docWrite
	if docReview && !canPrompt() {
		ux.Error("Review mode requires an interactive terminal")
		os.Exit(1)
	}

	needsPlan := dryRun || docDiff || docReview || (!docYes && canPrompt())
	if needsPlan {
		runDocumentPlan(ctx, cfg, args, dryRun)
		return
	}
	runDocumentTree(ctx, cfg, args)
}

// canPrompt reports whether this run can take an interactive prompt.
// Both ends matter: machine-mode output means no prompts, and piped
// stdin (CI, echo |) has nobody to answer them.
func canPrompt() bool {
	return ux.IsInteractive() &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
}

// documentServiceConfig merges the config file with the document flags.
func documentServiceConfig() (document.ServiceConfig, error) {
	cfg := serviceConfig()
	if docTemplates != "" {
		cfg.TemplatesPath = docTemplates
	}
	if docParallel > 0 {
		cfg.Parallelism = docParallel
	}
	if docNoCache {
		cfg.CacheEnabled = false
	}
	if docCacheDir != "" {
		cfg.CacheDir = docCacheDir
	}
	cfg.ExcludeKinds = append(cfg.ExcludeKinds, docExcludeKinds...)

	if len(docIncludeKinds) > 0 {
		complement, err := excludesForInclude(docIncludeKinds)
		if err != nil {
			return cfg, err
		}
		cfg.ExcludeKinds = append(cfg.ExcludeKinds, complement...)
	}
	return cfg, nil
}

// excludesForInclude turns an include list into the exclude list the
// service understands: every kind not named is excluded.
func excludesForInclude(include []string) ([]string, error) {
	want := make(map[ast.ConstructKind]struct{}, len(include))
	for _, name := range include {
		kind, err := document.KindFromString(name)
		if err != nil {
			return nil, err
		}
		want[kind] = struct{}{}
	}

	var excludes []string
	for _, kind := range ast.Kinds() {
		if _, ok := want[kind]; !ok {
			excludes = append(excludes, string(kind))
		}
	}
	return excludes, nil
}

// =============================================================================
// TREE PATH (non-interactive write)
// =============================================================================

// runDocumentTree runs one parallel pass over the roots and writes changed
// files as it goes.
func runDocumentTree(ctx context.Context, cfg document.ServiceConfig, roots []string) {
	svc, err := document.NewService(cfg, logger.Slog())
	if err != nil {
		ux.Error(fmt.Sprintf("Starting service: %v", err))
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	var tree *document.TreeResult
	err = ux.WithSpinner("Documenting sources", func() error {
		var terr error
		tree, terr = svc.DocumentTree(ctx, roots)
		return terr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			ux.Error("Interrupted")
		} else {
			ux.Error(err.Error())
		}
		os.Exit(1)
	}

	for _, fr := range tree.Files {
		icon, reason := fileBadge(fr)
		ux.FileStatus(fr.Path, icon, reason)
	}
	ux.Summary(tree.Documented, tree.Skipped, tree.FilesScanned)
	os.Exit(treeExitCode(tree))
}

// treeExitCode maps a tree outcome to the process exit code: 2 when some
// files failed, 0 otherwise.
func treeExitCode(tree *document.TreeResult) int {
	if tree.FilesFailed > 0 {
		return 2
	}
	return 0
}

// fileBadge picks the status icon and annotation for one file outcome.
func fileBadge(fr *document.FileResult) (ux.Icon, string) {
	switch {
	case fr.Err != "":
		return ux.IconError, truncateReason(fr.Err, 60)
	case fr.CacheHit:
		return ux.IconPending, "cache"
	case fr.Changed && fr.Skipped > 0:
		return ux.IconWarning, fmt.Sprintf("+%d comments, %d skipped", fr.Documented, fr.Skipped)
	case fr.Skipped > 0:
		return ux.IconWarning, fmt.Sprintf("%d skipped", fr.Skipped)
	case fr.Changed:
		return ux.IconSuccess, fmt.Sprintf("+%d comments", fr.Documented)
	default:
		return ux.IconPending, ""
	}
}

// truncateReason shortens long error text for the one-line file listing.
func truncateReason(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// =============================================================================
// PLAN PATH (preview, confirm, review)
// =============================================================================

// runDocumentPlan plans every insertion in memory first, then writes only
// what the run mode approves: nothing for dry runs, the accepted files
// for reviews, and everything after the confirmation prompt otherwise.
func runDocumentPlan(ctx context.Context, cfg document.ServiceConfig, roots []string, dryRun bool) {
	// The plan service never writes and never consults the digest cache,
	// so opening the cache would only take the lock from a parallel run.
	cfg.DryRun = true
	cfg.CacheEnabled = false

	svc, err := document.NewService(cfg, logger.Slog())
	if err != nil {
		ux.Error(fmt.Sprintf("Starting service: %v", err))
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	files, err := svc.Discover(roots)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	if len(files) == 0 {
		ux.Info("No matching files found")
		return
	}

	outcomes, proposals, err := planFiles(ctx, svc, files)
	if err != nil {
		ux.Error("Interrupted")
		os.Exit(1)
	}

	if docDiff {
		printDiffs(proposals)
	}

	if dryRun {
		printOutcomes(outcomes)
		ux.Muted("Dry run, nothing written")
		os.Exit(outcomesExitCode(outcomes))
	}

	if len(proposals) == 0 {
		printOutcomes(outcomes)
		ux.Success("Nothing to document")
		os.Exit(outcomesExitCode(outcomes))
	}

	if docReview {
		reviewAndWrite(proposals)
		os.Exit(outcomesExitCode(outcomes))
	}

	printOutcomes(outcomes)
	if !confirmWrite(proposals) {
		ux.Warning("Cancelled, nothing written")
		return
	}
	writeProposals(proposals)
	os.Exit(outcomesExitCode(outcomes))
}

// planFiles runs the in-memory pass over every file and collects one
// outcome per file plus a proposal per file that would change.
func planFiles(ctx context.Context, svc *document.Service, files []string) ([]*document.FileResult, []*tui.Proposal, error) {
	outcomes := make([]*document.FileResult, 0, len(files))
	var proposals []*tui.Proposal

	spinner := ux.NewProgressSpinner("Planning documentation", len(files))
	spinner.Start()
	defer spinner.Stop()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		spinner.Increment()

		fr, proposal := planFile(ctx, svc, path)
		outcomes = append(outcomes, fr)
		if proposal != nil {
			proposals = append(proposals, proposal)
		}
	}
	return outcomes, proposals, nil
}

// planFile plans one file. Failures land in the outcome, not an error:
// one unreadable file must not abort the rest of the plan.
func planFile(ctx context.Context, svc *document.Service, path string) (*document.FileResult, *tui.Proposal) {
	content, err := os.ReadFile(path)
	if err != nil {
		return &document.FileResult{Path: path, Err: err.Error()}, nil
	}

	res, err := svc.DocumentSource(ctx, content, path)
	if err != nil {
		return &document.FileResult{Path: path, Err: err.Error()}, nil
	}

	fr := &document.FileResult{
		Path:       path,
		Documented: res.Documented,
		Existing:   res.Existing,
		Skipped:    res.Skipped,
		Warnings:   res.Warnings,
		Changed:    res.Changed,
	}
	if !res.Changed {
		return fr, nil
	}

	proposal := &tui.Proposal{
		Path:       path,
		Output:     res.Output,
		Documented: res.Documented,
		Skipped:    res.Skipped,
	}
	if unified, err := diffview.Unified(path, content, res.Edits); err == nil {
		proposal.Diff = unified
	}
	return fr, proposal
}

// printOutcomes prints the per-file listing and the totals.
func printOutcomes(outcomes []*document.FileResult) {
	documented, skipped := 0, 0
	for _, fr := range outcomes {
		icon, reason := fileBadge(fr)
		ux.FileStatus(fr.Path, icon, reason)
		documented += fr.Documented
		skipped += fr.Skipped
	}
	ux.Summary(documented, skipped, len(outcomes))
}

// outcomesExitCode returns 2 when some files failed, 0 otherwise.
func outcomesExitCode(outcomes []*document.FileResult) int {
	for _, fr := range outcomes {
		if fr.Err != "" {
			return 2
		}
	}
	return 0
}

// printDiffs prints the colorized unified diff for every changed file.
func printDiffs(proposals []*tui.Proposal) {
	for _, p := range proposals {
		fmt.Println(diffview.Colorize(p.Diff))
	}
}

// confirmWrite asks before writing. Only reached on interactive runs.
func confirmWrite(proposals []*tui.Proposal) bool {
	comments := 0
	for _, p := range proposals {
		comments += p.Documented
	}

	confirmed := false
	prompt := huh.NewConfirm().
		Title(fmt.Sprintf("Write %d comments to %d files?", comments, len(proposals))).
		Affirmative("Write").
		Negative("Cancel").
		Value(&confirmed)
	if err := prompt.Run(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	return confirmed
}

// reviewAndWrite runs the file-by-file review TUI and writes what was
// accepted.
func reviewAndWrite(proposals []*tui.Proposal) {
	model := tui.NewReviewModel(proposals, tui.DefaultReviewConfig())
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		ux.Error(fmt.Sprintf("Review failed: %v", err))
		os.Exit(1)
	}

	review, ok := final.(tui.ReviewModel)
	if !ok || review.Cancelled() {
		ux.Warning("Review cancelled, nothing written")
		return
	}
	writeProposals(review.Accepted())
}

// writeProposals writes each proposal's output back to its file.
func writeProposals(proposals []*tui.Proposal) {
	comments := 0
	for _, p := range proposals {
		if err := rewrite.WriteFileAtomic(p.Path, p.Output); err != nil {
			ux.Error(fmt.Sprintf("Writing %s: %v", p.Path, err))
			os.Exit(1)
		}
		comments += p.Documented
	}
	ux.Success(fmt.Sprintf("Wrote %d comments to %d files", comments, len(proposals)))
}
