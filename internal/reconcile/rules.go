package reconcile

import (
	"github.com/tilewm/core/internal/logging"
	"github.com/tilewm/core/internal/types"
	"github.com/tilewm/core/internal/window"
)

// applyEffects folds a matched EffectSet onto a newly created window's
// flags and issues the platform commands needed to realize the effects
// that aren't just table state (spec.md §4.4). It is called with the
// loop's lock already held.
func (l *Loop) applyEffects(e *window.Entry, effects types.EffectSet) {
	if effects.Manage != nil {
		e.Flags.Floating = !*effects.Manage
	}
	if effects.Sticky != nil {
		e.Flags.Sticky = *effects.Sticky
	}
	if effects.Fullscreen != nil {
		e.Flags.Fullscreen = *effects.Fullscreen
	}

	if effects.Opacity != nil {
		l.plat.SetWindowOpacity(e.ID, *effects.Opacity)
	}
	if effects.Layer != nil {
		l.plat.SetWindowLevel(e.ID, *effects.Layer)
	}
	if effects.DisplaySpace != nil {
		if l.plat.MoveWindowToSpace(e.ID, effects.DisplaySpace.SpaceID) {
			e.SpaceID = effects.DisplaySpace.SpaceID
		} else {
			logging.Debug().Uint32("windowId", uint32(e.ID)).Msg("reconcile: rule-driven space move failed, SA unavailable")
		}
	}
}
