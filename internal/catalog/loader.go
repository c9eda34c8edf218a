// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Platform names accepted in the platforms lists.
const (
	PlatformLinux   = "linux"
	PlatformMac     = "macos"
	PlatformWindows = "windows"
)

var (
	// ErrInvalidCatalog is the sentinel error wrapped by all structural
	// validation failures reported at load time.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrDuplicateID is returned when two nodes share an identifier.
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Load reads and validates a TOML catalog file, returning a ready-to-use
// catalog: indexed, parent pointers wired, and platform eligibility resolved
// against the running OS.
//
// Dangling dependency/restriction references are deliberately NOT load
// errors; they are treated as already satisfied at propagation time and
// surfaced as findings by Lint instead.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a TOML catalog from r and validates it. See Load.
func Parse(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validateStructure(&cat); err != nil {
		return nil, err
	}

	resolveEligibility(&cat, currentPlatform())
	cat.Reindex()
	return &cat, nil
}

// validateStructure checks the rules a catalog must satisfy before the
// engine may run: non-empty ids and names, unique ids across the combined
// namespace, and tier references that resolve to a declared tier.
func validateStructure(cat *Catalog) error {
	seen := make(map[string]string, len(cat.Components)*2)
	tiers := make(map[string]bool, len(cat.Tiers))

	for _, tier := range cat.Tiers {
		if strings.TrimSpace(tier.Name) == "" {
			return fmt.Errorf("%w: tier with empty name", ErrInvalidCatalog)
		}
		if tiers[tier.Name] {
			return fmt.Errorf("%w: tier %q declared twice", ErrInvalidCatalog, tier.Name)
		}
		tiers[tier.Name] = true
	}

	claim := func(id, kind string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s with empty id", ErrInvalidCatalog, kind)
		}
		if prev, taken := seen[id]; taken {
			return fmt.Errorf("%w: id %q used by both %s and %s", ErrDuplicateID, id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for i, comp := range cat.Components {
		if comp == nil {
			return fmt.Errorf("%w: component entry %d is empty", ErrInvalidCatalog, i)
		}
		if err := claim(comp.ID, "component"); err != nil {
			return err
		}
		if strings.TrimSpace(comp.Name) == "" {
			return fmt.Errorf("%w: component %q has no name", ErrInvalidCatalog, comp.ID)
		}
		if comp.Tier != "" && !tiers[comp.Tier] {
			return fmt.Errorf("%w: component %q references undeclared tier %q", ErrInvalidCatalog, comp.ID, comp.Tier)
		}
		for j, opt := range comp.Options {
			if opt == nil {
				return fmt.Errorf("%w: option entry %d of component %q is empty", ErrInvalidCatalog, j, comp.ID)
			}
			if err := claim(opt.ID, "option"); err != nil {
				return err
			}
			if strings.TrimSpace(opt.Name) == "" {
				return fmt.Errorf("%w: option %q has no name", ErrInvalidCatalog, opt.ID)
			}
		}
	}

	return nil
}

// resolveEligibility turns platform lists into disabled flags. A node with a
// non-empty platform list that does not include the running platform is
// force-excluded from selection; the graph never reverses that.
func resolveEligibility(cat *Catalog, platform string) {
	for _, comp := range cat.Components {
		comp.Disabled = excludedOnPlatform(comp.Platforms, platform)
		for _, opt := range comp.Options {
			// Options inherit the parent's exclusion on top of their own.
			opt.Disabled = comp.Disabled || excludedOnPlatform(opt.Platforms, platform)
		}
	}
}

func excludedOnPlatform(platforms []string, platform string) bool {
	if len(platforms) == 0 {
		return false
	}
	for _, p := range platforms {
		if strings.EqualFold(p, platform) {
			return false
		}
	}
	return true
}

// currentPlatform maps runtime.GOOS onto the catalog platform names.
func currentPlatform() string {
	switch goruntime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMac
	default:
		return PlatformLinux
	}
}
