// Package config loads the daemon's YAML configuration file once at
// startup (spec.md §1 explicitly places hot-reload out of scope).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tilewm/core/internal/layout"
	"github.com/tilewm/core/internal/types"
)

const (
	DefaultConfigDir  = ".config/tilewm"
	DefaultConfigFile = "config.yaml"
)

// DefaultSettings returns the values a View gets when no config file
// overrides them.
func DefaultSettings() Settings {
	return Settings{
		SplitRatio:   0.5,
		WindowGap:    8,
		Padding:      8,
		BridgeSocket: "/tmp/tilewmd-bridge.sock",
		SASocket:     "/tmp/tilewmd-sa.sock",
	}
}

// Path returns the default config file location, honoring path if
// non-empty.
func Path(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads and validates the config file at path (or the default
// location if path is empty). A missing file is not an error: it returns
// a Config seeded with DefaultSettings and no rules.
func Load(path string) (*Config, error) {
	resolved, err := Path(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if os.IsNotExist(err) {
		return &Config{Settings: DefaultSettings()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", resolved, err)
	}

	cfg := Config{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", resolved, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", resolved, err)
	}
	return &cfg, nil
}

// Rules converts every RuleConfig into a types.Rule, in file order (file
// order becomes registry order, so later entries override earlier ones
// on overlapping fields per spec.md §4.4).
func (c *Config) Rules() ([]types.Rule, error) {
	rules := make([]types.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		r, err := rc.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (rc RuleConfig) toRule() (types.Rule, error) {
	r := types.Rule{
		Label:   rc.Label,
		OneShot: rc.OneShot,
		Criteria: types.MatchCriteria{
			App:     rc.App.toPattern(),
			Title:   rc.Title.toPattern(),
			Role:    rc.Role.toPattern(),
			Subrole: rc.Subrole.toPattern(),
		},
		Opacity:           rc.Opacity,
		Manage:            rc.Manage,
		Sticky:            rc.Sticky,
		MouseFollowsFocus: rc.MouseFollowsFocus,
		Layer:             rc.Layer,
		Fullscreen:        rc.Fullscreen,
		Scratchpad:        rc.Scratchpad,
	}

	if rc.DisplaySpace != nil {
		r.DisplaySpace = &types.DisplaySpaceEffect{
			SpaceID:     types.SpaceId(rc.DisplaySpace.SpaceID),
			FollowSpace: rc.DisplaySpace.FollowSpace,
		}
	}

	if rc.Grid != "" {
		spec, err := layout.ParseGridSpec(rc.Grid)
		if err != nil {
			return types.Rule{}, fmt.Errorf("grid: %w", err)
		}
		r.Grid = &spec
	}

	return r, nil
}

func (pc *PatternConfig) toPattern() *types.Pattern {
	if pc == nil {
		return nil
	}
	return &types.Pattern{Value: pc.Value, Exclude: pc.Exclude}
}
