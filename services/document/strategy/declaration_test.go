// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package strategy

import (
	"testing"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/config"
)

func defaultTemplates(t *testing.T) config.Templates {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	return cfg.Templates
}

func TestDeclarationSummaries(t *testing.T) {
	tests := []struct {
		name      string
		construct ast.Construct
		want      string
	}{
		{
			"class",
			ast.Construct{Kind: ast.KindType, Identifier: "UserService"},
			"The user service.",
		},
		{
			"interface drops the I prefix",
			ast.Construct{Kind: ast.KindInterface, Identifier: "IWidgetFactory"},
			"The widget factory.",
		},
		{
			"enumeration",
			ast.Construct{Kind: ast.KindEnumeration, Identifier: "Color"},
			"The color enumeration.",
		},
		{
			"enumeration member",
			ast.Construct{Kind: ast.KindEnumerationMember, Identifier: "DarkRed"},
			"The dark red.",
		},
	}
	templates := defaultTemplates(t)
	typeStrat := &typeStrategy{templates: templates}
	enumStrat := &enumStrategy{templates: templates}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Strategy = typeStrat
			if tt.construct.Kind == ast.KindEnumeration || tt.construct.Kind == ast.KindEnumerationMember {
				s = enumStrat
			}
			sc, err := s.Apply(&tt.construct)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(sc.Summary) != 1 || sc.Summary[0] != tt.want {
				t.Errorf("Apply(%q) summary = %v, want [%q]", tt.construct.Identifier, sc.Summary, tt.want)
			}
			if sc.Returns != "" {
				t.Errorf("declaration comments never carry a returns section, got %q", sc.Returns)
			}
		})
	}
}

func TestTypeStrategyGenericTypeParams(t *testing.T) {
	s := &typeStrategy{templates: defaultTemplates(t)}
	sc, err := s.Apply(&ast.Construct{
		Kind:           ast.KindType,
		Identifier:     "Repository",
		TypeParameters: []string{"TEntity"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(sc.TypeParams) != 1 {
		t.Fatalf("type params = %+v", sc.TypeParams)
	}
	if sc.TypeParams[0].Name != "TEntity" || sc.TypeParams[0].Description != "The entity." {
		t.Errorf("TypeParams[0] = %+v", sc.TypeParams[0])
	}
}

func TestConstructorSummaries(t *testing.T) {
	s := &constructorStrategy{templates: defaultTemplates(t)}

	sc, err := s.Apply(&ast.Construct{Kind: ast.KindConstructor, Identifier: "UserService"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := "Initializes a new instance of the user service class."
	if sc.Summary[0] != want {
		t.Errorf("parameterless summary = %q, want %q", sc.Summary[0], want)
	}
	if len(sc.Params) != 0 {
		t.Errorf("parameterless constructor params = %+v", sc.Params)
	}

	sc, err = s.Apply(&ast.Construct{
		Kind:       ast.KindConstructor,
		Identifier: "UserService",
		Parameters: []ast.Parameter{
			{Name: "repository", TypeToken: "IUserRepository"},
			{Name: "maxRetries", TypeToken: "int"},
		},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want = "Initializes a new instance of the user service class with the specified repository and max retries."
	if sc.Summary[0] != want {
		t.Errorf("parameterized summary = %q, want %q", sc.Summary[0], want)
	}
	if len(sc.Params) != 2 || sc.Params[0].Name != "repository" || sc.Params[1].Name != "maxRetries" {
		t.Errorf("constructor params = %+v", sc.Params)
	}
	if sc.Params[1].Description != "The max retries." {
		t.Errorf("Params[1].Description = %q", sc.Params[1].Description)
	}
}

func TestConstructorGuardClauseExceptions(t *testing.T) {
	s := &constructorStrategy{templates: defaultTemplates(t)}
	sc, err := s.Apply(&ast.Construct{
		Kind:       ast.KindConstructor,
		Identifier: "UserService",
		Parameters: []ast.Parameter{{Name: "repository", TypeToken: "IUserRepository"}},
		ThrowSites: []ast.ThrowSite{{Type: "ArgumentNullException", Message: ""}},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(sc.Exceptions) != 1 || sc.Exceptions[0].Type != "ArgumentNullException" {
		t.Errorf("exceptions = %+v", sc.Exceptions)
	}
}
