package config

// Config is the root configuration structure loaded once at daemon
// startup (spec.md §1 places config hot-reload out of scope, so there is
// no watcher here, only a one-shot loader).
type Config struct {
	Settings Settings               `yaml:"settings"`
	Spaces   map[string]SpaceConfig `yaml:"spaces"`
	Rules    []RuleConfig           `yaml:"rules"`
}

// Settings holds the defaults every space's View is seeded with, and a
// couple of daemon-wide switches.
type Settings struct {
	SplitRatio        float64 `yaml:"splitRatio"`
	WindowGap         float64 `yaml:"windowGap"`
	Padding           float64 `yaml:"padding"`
	FocusFollowsMouse bool    `yaml:"focusFollowsMouse"`
	AutoBalance       bool    `yaml:"autoBalance"`
	BridgeSocket      string  `yaml:"bridgeSocket"`
	SASocket          string  `yaml:"saSocket"`
}

// SpaceConfig overrides Settings' defaults for one space, keyed by the
// space's label in the config file (not its runtime SpaceId, which is
// assigned by the compositor and not known ahead of time).
type SpaceConfig struct {
	Layout     string   `yaml:"layout"` // "bsp", "stack", or "float"
	SplitAxis  string   `yaml:"splitAxis,omitempty"`
	SplitRatio *float64 `yaml:"splitRatio,omitempty"`
	WindowGap  *float64 `yaml:"windowGap,omitempty"`
	Padding    *float64 `yaml:"padding,omitempty"`
}

// RuleConfig is the YAML form of types.Rule (spec.md §4.4): match
// criteria plus the effects it contributes when matched.
type RuleConfig struct {
	Label   string `yaml:"label,omitempty"`
	OneShot bool   `yaml:"oneShot,omitempty"`

	App     *PatternConfig `yaml:"app,omitempty"`
	Title   *PatternConfig `yaml:"title,omitempty"`
	Role    *PatternConfig `yaml:"role,omitempty"`
	Subrole *PatternConfig `yaml:"subrole,omitempty"`

	DisplaySpace *DisplaySpaceConfig `yaml:"displaySpace,omitempty"`
	Opacity      *float64            `yaml:"opacity,omitempty"`
	Manage       *bool               `yaml:"manage,omitempty"`
	Sticky       *bool               `yaml:"sticky,omitempty"`
	MouseFollowsFocus *bool          `yaml:"mouseFollowsFocus,omitempty"`
	Layer        *int                `yaml:"layer,omitempty"`
	Fullscreen   *bool               `yaml:"fullscreen,omitempty"`
	Grid         string              `yaml:"grid,omitempty"` // "rows:cols:x:y:w:h"
	Scratchpad   *string             `yaml:"scratchpad,omitempty"`
}

// PatternConfig is the YAML form of types.Pattern.
type PatternConfig struct {
	Value   string `yaml:"value"`
	Exclude bool   `yaml:"exclude,omitempty"`
}

// DisplaySpaceConfig is the YAML form of types.DisplaySpaceEffect.
type DisplaySpaceConfig struct {
	SpaceID     uint64 `yaml:"spaceId"`
	FollowSpace bool   `yaml:"followSpace,omitempty"`
}
