// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "The {name}.", cfg.Templates.Type)
	assert.Equal(t, "The {name} enumeration.", cfg.Templates.Enumeration)
	assert.Equal(t, "the {name}", cfg.Templates.ReturnsIdentifier)
	assert.Equal(t, "{accessors} the {name}.", cfg.Templates.PropertySummary)
	assert.True(t, cfg.Options.IncludeValue)
	assert.False(t, cfg.Options.IncludeBodyComments)
	assert.Empty(t, cfg.Options.ExcludeKinds)
}

func TestLoadOverrideMergesOverDefaults(t *testing.T) {
	override := filepath.Join(t.TempDir(), "templates.yaml")
	content := []byte(
		"templates:\n" +
			"  enumeration: \"Values of {name}.\"\n" +
			"options:\n" +
			"  include_body_comments: true\n")
	require.NoError(t, os.WriteFile(override, content, 0o644))

	cfg, err := Load(override)
	require.NoError(t, err)

	assert.Equal(t, "Values of {name}.", cfg.Templates.Enumeration)
	assert.True(t, cfg.Options.IncludeBodyComments)
	// Untouched keys keep their defaults.
	assert.Equal(t, "The {name}.", cfg.Templates.Type)
	assert.True(t, cfg.Options.IncludeValue)
}

func TestLoadOverrideMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadOverrideTooLarge(t *testing.T) {
	override := filepath.Join(t.TempDir(), "huge.yaml")
	require.NoError(t, os.WriteFile(override, bytes.Repeat([]byte("#"), MaxConfigFileSize+1), 0o644))

	_, err := Load(override)
	require.ErrorIs(t, err, ErrConfigTooLarge)
}

func TestValidateRejectsUnknownPlaceholder(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Templates.Type = "The {typo}."
	err = cfg.Validate()
	require.ErrorIs(t, err, ErrUnknownPlaceholder)
	assert.Contains(t, err.Error(), "{typo}")
	assert.Contains(t, err.Error(), "templates.type")
}

func TestValidateRejectsForeignPlaceholder(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// {accessors} is valid for properties but not for routines' parameters.
	cfg.Templates.Parameter = "The {accessors}."
	require.ErrorIs(t, cfg.Validate(), ErrUnknownPlaceholder)
}

func TestValidateRejectsMissingTemplate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Templates.Constructor = "  "
	require.ErrorIs(t, cfg.Validate(), ErrMissingTemplate)
}

func TestValidateRejectsUnknownExcludeKind(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Options.ExcludeKinds = []string{"widget"}
	require.Error(t, cfg.Validate())
}

func TestDigestTracksContent(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	b, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, a.Digest(), b.Digest())

	b.Templates.Type = "A {name}."
	assert.NotEqual(t, a.Digest(), b.Digest())
}
