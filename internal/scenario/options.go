// internal/scenario/options.go
package scenario

import (
	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/config"
	"github.com/xkilldash9x/userevent/pkg/userevent"
)

// OptionsFromConfig builds session options from the engine configuration,
// loading custom device maps when configured.
func OptionsFromConfig(ec config.EngineConfig) (userevent.Options, error) {
	km, err := config.LoadKeyboardMap(ec.KeyboardMapFile)
	if err != nil {
		return userevent.Options{}, err
	}
	pm, err := config.LoadPointerMap(ec.PointerMapFile)
	if err != nil {
		return userevent.Options{}, err
	}
	return userevent.Options{
		Delay:                  ec.Delay,
		SkipClick:              ec.SkipClick,
		SkipHover:              ec.SkipHover,
		SkipAutoClose:          ec.SkipAutoClose,
		SkipPointerEventsCheck: ec.SkipPointerEventsCheck,
		ApplyAccept:            ec.ApplyAccept,
		KeyboardMap:            km,
		PointerMap:             pm,
	}, nil
}

// applyOverrides returns base with the fields set in o replaced.
func applyOverrides(base userevent.Options, o schemas.ScenarioOptions) userevent.Options {
	if o.Delay != nil {
		base.Delay = *o.Delay
	}
	for _, f := range []struct {
		dst *bool
		src *bool
	}{
		{&base.SkipClick, o.SkipClick},
		{&base.SkipHover, o.SkipHover},
		{&base.SkipAutoClose, o.SkipAutoClose},
		{&base.SkipPointerEventsCheck, o.SkipPointerEventsCheck},
		{&base.ApplyAccept, o.ApplyAccept},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return base
}
