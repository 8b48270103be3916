package config

import (
	"fmt"

	"github.com/tilewm/core/internal/types"
)

// Validate checks the configuration for internally-inconsistent values
// before the daemon seeds any views or rules from it.
func (c *Config) Validate() error {
	if err := validateRatio("settings.splitRatio", c.Settings.SplitRatio); err != nil {
		return err
	}

	for label, sc := range c.Spaces {
		if sc.Layout != "" && sc.Layout != "bsp" && sc.Layout != "stack" && sc.Layout != "float" {
			return fmt.Errorf("space %s: unknown layout %q", label, sc.Layout)
		}
		if sc.SplitAxis != "" && sc.SplitAxis != "vertical" && sc.SplitAxis != "horizontal" {
			return fmt.Errorf("space %s: unknown splitAxis %q", label, sc.SplitAxis)
		}
		if sc.SplitRatio != nil {
			if err := validateRatio(fmt.Sprintf("space %s.splitRatio", label), *sc.SplitRatio); err != nil {
				return err
			}
		}
	}

	for i, rc := range c.Rules {
		if rc.App == nil && rc.Title == nil && rc.Role == nil && rc.Subrole == nil {
			return fmt.Errorf("rule %d: matches everything (no criteria given)", i)
		}
		if _, err := rc.toRule(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

func validateRatio(field string, r float64) error {
	if r < 0.1 || r > 0.9 {
		return fmt.Errorf("%s must be within [0.1, 0.9], got %v", field, r)
	}
	return nil
}

// Axis resolves the configured splitAxis string, defaulting to vertical
// (side-by-side) when unset.
func (sc SpaceConfig) Axis() types.Axis {
	if sc.SplitAxis == "horizontal" {
		return types.AxisHorizontal
	}
	return types.AxisVertical
}
