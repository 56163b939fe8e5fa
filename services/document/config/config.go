// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the documentation template configuration.
//
// Defaults ship embedded in the binary; an optional override file merges over
// them field by field. Every validation failure surfaces at load time, before
// any source file is read.
//
// Thread Safety:
//
//	A loaded TemplateConfig is treated as frozen. Callers never mutate it
//	after Load returns, so it is safe to share across goroutines.
package config

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/yaml.v3"
)

// MaxConfigFileSize is the maximum allowed override file size (1MB).
// Prevents memory issues from oversized files.
const MaxConfigFileSize = 1024 * 1024

//go:embed templates.yaml
var defaultTemplatesYAML []byte

var (
	templateLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docbuddy_template_loads_total",
		Help: "Total template configuration loads by source",
	}, []string{"source"})

	templateLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbuddy_template_load_errors_total",
		Help: "Total template configuration load failures",
	})
)

// configValidate is the validator instance for configuration types.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// placeholderPattern matches {placeholder} tokens inside template strings.
var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

// Templates holds the per-kind, per-section template strings. Placeholders
// are substituted with humanized text by the strategies.
type Templates struct {
	Type                  string `yaml:"type" validate:"required"`
	Interface             string `yaml:"interface" validate:"required"`
	Enumeration           string `yaml:"enumeration" validate:"required"`
	EnumerationMember     string `yaml:"enumeration_member" validate:"required"`
	Constructor           string `yaml:"constructor" validate:"required"`
	ConstructorWithParams string `yaml:"constructor_with_params" validate:"required"`
	Parameter             string `yaml:"parameter" validate:"required"`
	TypeParameter         string `yaml:"type_parameter" validate:"required"`
	ReturnsIdentifier     string `yaml:"returns_identifier" validate:"required"`
	PropertySummary       string `yaml:"property_summary" validate:"required"`
	PropertyValue         string `yaml:"property_value" validate:"required"`
	PropertyValueFallback string `yaml:"property_value_fallback" validate:"required"`
}

// Options are the behavior toggles that travel with the templates.
type Options struct {
	// IncludeValue enables the <value> section on properties.
	IncludeValue bool `yaml:"include_value"`

	// IncludeBodyComments appends single-line body comments to routine
	// summaries as additional sentences.
	IncludeBodyComments bool `yaml:"include_body_comments"`

	// ExcludeKinds lists construct kinds the walker skips entirely.
	ExcludeKinds []string `yaml:"exclude_kinds" validate:"omitempty,dive,oneof=type interface enumeration enumeration_member constructor routine property"`
}

// TemplateConfig is the frozen template snapshot for one run.
type TemplateConfig struct {
	Templates Templates `yaml:"templates" validate:"required"`
	Options   Options   `yaml:"options"`
}

// Default returns the embedded default configuration.
func Default() (*TemplateConfig, error) {
	return Load("")
}

// Load returns the embedded defaults merged with an optional override file.
//
// Description:
//
//	The embedded defaults are decoded first, then the override file (when
//	path is non-empty) is decoded over them so absent keys keep their
//	defaults. The merged result is validated before it is returned.
//
// Inputs:
//
//	path - Override file path. Empty means defaults only.
//
// Outputs:
//
//	*TemplateConfig - The validated configuration. Nil on error.
//	error - Non-nil when reading, decoding, or validation fails.
func Load(path string) (*TemplateConfig, error) {
	var cfg TemplateConfig
	if err := yaml.Unmarshal(defaultTemplatesYAML, &cfg); err != nil {
		templateLoadErrors.Inc()
		return nil, fmt.Errorf("decoding embedded templates: %w", err)
	}
	source := "embedded"

	if path != "" {
		data, err := readOverride(path)
		if err != nil {
			templateLoadErrors.Inc()
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			templateLoadErrors.Inc()
			return nil, fmt.Errorf("decoding template overrides %s: %w", path, err)
		}
		source = "override"
	}

	if err := cfg.Validate(); err != nil {
		templateLoadErrors.Inc()
		return nil, err
	}

	templateLoads.WithLabelValues(source).Inc()
	slog.Debug("Template configuration loaded",
		slog.String("source", source),
		slog.String("digest", cfg.Digest()))
	return &cfg, nil
}

// readOverride reads an override file with a size cap.
func readOverride(path string) ([]byte, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving template override path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading template overrides: %w", err)
	}
	if info.Size() > MaxConfigFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, info.Size(), MaxConfigFileSize)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading template overrides: %w", err)
	}
	return data, nil
}

// templateField pairs one template string with the placeholders it accepts.
type templateField struct {
	name    string
	value   string
	allowed []string
}

// fields enumerates every template with its allowed placeholder set.
func (c *TemplateConfig) fields() []templateField {
	t := c.Templates
	return []templateField{
		{"templates.type", t.Type, []string{"{name}"}},
		{"templates.interface", t.Interface, []string{"{name}"}},
		{"templates.enumeration", t.Enumeration, []string{"{name}"}},
		{"templates.enumeration_member", t.EnumerationMember, []string{"{name}"}},
		{"templates.constructor", t.Constructor, []string{"{name}"}},
		{"templates.constructor_with_params", t.ConstructorWithParams, []string{"{name}", "{params}"}},
		{"templates.parameter", t.Parameter, []string{"{name}"}},
		{"templates.type_parameter", t.TypeParameter, []string{"{name}"}},
		{"templates.returns_identifier", t.ReturnsIdentifier, []string{"{name}"}},
		{"templates.property_summary", t.PropertySummary, []string{"{accessors}", "{name}"}},
		{"templates.property_value", t.PropertyValue, []string{"{type}"}},
		{"templates.property_value_fallback", t.PropertyValueFallback, []string{"{accessors}", "{name}"}},
	}
}

// Validate checks template presence, placeholder use, and option values.
// Any failure here aborts the run before a construct is processed.
func (c *TemplateConfig) Validate() error {
	for _, f := range c.fields() {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingTemplate, f.name)
		}
		for _, ph := range placeholderPattern.FindAllString(f.value, -1) {
			if !containsString(f.allowed, ph) {
				return fmt.Errorf("%w: %s in %s", ErrUnknownPlaceholder, ph, f.name)
			}
		}
	}
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("template config validation: %w", err)
	}
	return nil
}

// Digest returns a stable hash of the full configuration. It keys cached
// results so template changes invalidate prior runs.
func (c *TemplateConfig) Digest() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
