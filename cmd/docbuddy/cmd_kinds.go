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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	kindsJSON      bool   // Output as JSON
	kindsTemplates string // Template override file
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the construct kinds that get documented",
	Long: `Lists every construct kind the engine has a strategy for, one per
line. These are the names --include-kinds and --exclude-kinds accept.

With --templates, the override file is loaded first, so the command
doubles as a template validity check.`,
	Run: runKindsCommand,
}

func init() {
	kindsCmd.Flags().BoolVar(&kindsJSON, "json", false, "Output as JSON")
	kindsCmd.Flags().StringVar(&kindsTemplates, "templates", "",
		"Template override file (YAML)")

	rootCmd.AddCommand(kindsCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// kindsListing is the JSON shape of the kinds command output.
type kindsListing struct {
	Kinds           []string `json:"kinds"`
	Extensions      []string `json:"extensions"`
	TemplatesDigest string   `json:"templates_digest"`
}

// runKindsCommand lists the documentable construct kinds.
func runKindsCommand(cmd *cobra.Command, args []string) {
	cfg := serviceConfig()
	if kindsTemplates != "" {
		cfg.TemplatesPath = kindsTemplates
	}
	// Listing kinds touches no files, so leave the digest cache closed.
	cfg.CacheEnabled = false

	svc, err := document.NewService(cfg, logger.Slog())
	if err != nil {
		ux.Error(fmt.Sprintf("Starting service: %v", err))
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	if kindsJSON {
		listing := kindsListing{
			Kinds:           svc.Kinds(),
			Extensions:      svc.Extensions(),
			TemplatesDigest: svc.TemplatesDigest(),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(listing); err != nil {
			ux.Error(fmt.Sprintf("Encoding JSON: %v", err))
			os.Exit(1)
		}
		return
	}

	for _, kind := range svc.Kinds() {
		fmt.Println(kind)
	}
}
