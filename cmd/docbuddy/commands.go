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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/DocBuddy/pkg/logging"
	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document"
)

// appConfig mirrors the optional docbuddy.yaml file. Flags override
// anything set here.
type appConfig struct {
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	LogDir       string   `yaml:"log_dir"`
	Templates    string   `yaml:"templates"`
	Extensions   []string `yaml:"extensions"`
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	ExcludeKinds []string `yaml:"exclude_kinds"`
	Parallel     int      `yaml:"parallel"`
	CacheDir     string   `yaml:"cache_dir"`
	NoCache      bool     `yaml:"no_cache"`
}

// --- Global Command Variables ---
var (
	cfgFile          string
	logLevel         string
	logFormat        string
	logDir           string
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	appCfg appConfig
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "docbuddy",
		Short: "Synthesize XML documentation comments for C# source",
		Long: `DocBuddy scans C# source for undocumented constructs and inserts
deterministic, template-driven XML documentation comments. Existing
comments are never touched and a second run over documented source
changes nothing.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadAppConfig()
			initLogging(cmd)
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the DocBuddy version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docbuddy %s\n", document.ServiceVersion)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default: ./docbuddy.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Stderr log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Directory for JSON log files (default: no file logging)")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")

	rootCmd.AddCommand(versionCmd)
}

// loadAppConfig reads the optional config file into appCfg. A missing
// default file is fine; a missing --config file is not.
func loadAppConfig() {
	path := cfgFile
	explicit := path != ""
	if !explicit {
		path = "docbuddy.yaml"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			ux.Error(fmt.Sprintf("Reading config %s: %v", path, err))
			os.Exit(1)
		}
		return
	}
	if err := yaml.Unmarshal(raw, &appCfg); err != nil {
		ux.Error(fmt.Sprintf("Parsing config %s: %v", path, err))
		os.Exit(1)
	}
}

// initLogging builds the process logger from flags and config.
//
// CLI commands default to warn so structured logs do not drown the ux
// output; the server keeps info as its baseline.
func initLogging(cmd *cobra.Command) {
	levelName := logLevel
	if levelName == "" {
		levelName = appCfg.LogLevel
	}

	level := logging.LevelWarn
	if cmd.Name() == "serve" {
		level = logging.LevelInfo
	}
	if levelName != "" {
		parsed, err := logging.ParseLevel(levelName)
		if err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		level = parsed
	}

	format := logFormat
	if format == "" {
		format = appCfg.LogFormat
	}

	dir := logDir
	if dir == "" {
		dir = appCfg.LogDir
	}

	logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  dir,
		Service: "docbuddy",
		JSON:    format == "json",
	})
}

// serviceConfig assembles the baseline service configuration from the
// defaults and the config file. Commands layer their own flags on top.
func serviceConfig() document.ServiceConfig {
	cfg := document.DefaultServiceConfig()
	if len(appCfg.Extensions) > 0 {
		cfg.Extensions = appCfg.Extensions
	}
	if len(appCfg.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = appCfg.ExcludeDirs
	}
	cfg.ExcludeKinds = appCfg.ExcludeKinds
	cfg.TemplatesPath = appCfg.Templates
	if appCfg.Parallel > 0 {
		cfg.Parallelism = appCfg.Parallel
	}
	cfg.CacheEnabled = !appCfg.NoCache
	cfg.CacheDir = appCfg.CacheDir
	return cfg
}
