// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCatalog = `
name = "kotor-community-build"
game = "Knights of the Old Republic"

[[tiers]]
name = "essential"
priority = 1

[[tiers]]
name = "recommended"
priority = 2

[[components]]
id = "core-patch"
name = "Core Patch"
tier = "essential"
categories = ["bugfix"]

[[components]]
id = "hi-res-textures"
name = "Hi-Res Textures"
tier = "recommended"
categories = ["graphics"]
dependencies = ["core-patch"]

  [[components.options]]
  id = "textures-2k"
  name = "2K pack"

  [[components.options]]
  id = "textures-4k"
  name = "4K pack"
  restrictions = ["textures-2k"]
`

func TestParse_ValidCatalog(t *testing.T) {
	t.Parallel()
	cat, err := Parse(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cat.Name != "kotor-community-build" {
		t.Errorf("unexpected catalog name %q", cat.Name)
	}
	if cat.ComponentCount() != 2 {
		t.Fatalf("expected 2 components, got %d", cat.ComponentCount())
	}
	if cat.NodeCount() != 4 {
		t.Errorf("expected 4 nodes, got %d", cat.NodeCount())
	}

	// The catalog comes back indexed and parent-wired.
	node, ok := cat.Resolve("textures-4k")
	if !ok {
		t.Fatal("expected option to resolve after load")
	}
	opt := node.(*Option)
	if opt.Parent() == nil || opt.Parent().ID != "hi-res-textures" {
		t.Error("expected option parent to be wired by load")
	}
	if got := opt.RestrictionIDs(); len(got) != 1 || got[0] != "textures-2k" {
		t.Errorf("unexpected restrictions %v", got)
	}
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	t.Parallel()
	input := `
[[components]]
id = "same"
name = "One"

[[components]]
id = "same"
name = "Two"
`
	_, err := Parse(strings.NewReader(input))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestParse_RejectsDuplicateAcrossKinds(t *testing.T) {
	t.Parallel()
	input := `
[[components]]
id = "clash"
name = "Component"

[[components]]
id = "other"
name = "Other"

  [[components.options]]
  id = "clash"
  name = "Option"
`
	_, err := Parse(strings.NewReader(input))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestParse_StructuralErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "empty component id",
			input: `
[[components]]
id = ""
name = "No ID"
`,
		},
		{
			name: "missing component name",
			input: `
[[components]]
id = "anon"
name = "  "
`,
		},
		{
			name: "undeclared tier",
			input: `
[[components]]
id = "c"
name = "C"
tier = "ghost"
`,
		},
		{
			name: "empty option id",
			input: `
[[components]]
id = "c"
name = "C"

  [[components.options]]
  id = ""
  name = "O"
`,
		},
		{
			name: "duplicate tier",
			input: `
[[tiers]]
name = "essential"
priority = 1

[[tiers]]
name = "essential"
priority = 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParse_DanglingReferencesAreNotErrors(t *testing.T) {
	t.Parallel()
	input := `
[[components]]
id = "lenient"
name = "Lenient"
dependencies = ["ghost-dep"]
restrictions = ["ghost-restr"]
`
	cat, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findings := cat.Lint(); len(findings) != 2 {
		t.Errorf("expected 2 lint findings, got %d", len(findings))
	}
}

func TestResolveEligibility(t *testing.T) {
	t.Parallel()
	cat := &Catalog{
		Components: []*Component{
			{ID: "everywhere", Name: "Everywhere"},
			{ID: "windows-only", Name: "Windows Only", Platforms: []string{PlatformWindows}},
			{
				ID:        "gated",
				Name:      "Gated",
				Platforms: []string{PlatformWindows},
				Options: []*Option{
					{ID: "gated-opt", Name: "Inherits"},
				},
			},
			{
				ID:   "mixed",
				Name: "Mixed",
				Options: []*Option{
					{ID: "mixed-linux", Name: "Linux variant", Platforms: []string{PlatformLinux}},
					{ID: "mixed-mac", Name: "Mac variant", Platforms: []string{PlatformMac}},
				},
			},
		},
	}

	resolveEligibility(cat, PlatformLinux)

	if cat.Components[0].Disabled {
		t.Error("expected unrestricted component to stay enabled")
	}
	if !cat.Components[1].Disabled {
		t.Error("expected windows-only component to be disabled on linux")
	}
	if !cat.Components[2].Options[0].Disabled {
		t.Error("expected option to inherit parent exclusion")
	}
	if cat.Components[3].Options[0].Disabled {
		t.Error("expected linux variant to stay enabled on linux")
	}
	if !cat.Components[3].Options[1].Disabled {
		t.Error("expected mac variant to be disabled on linux")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "modsmith.toml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.ComponentCount() != 2 {
		t.Errorf("expected 2 components, got %d", cat.ComponentCount())
	}
}
