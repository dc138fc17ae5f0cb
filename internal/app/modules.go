package app

import (
	"fmt"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/catalog"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/booking"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/fallback"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/packages"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/profile"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/studio"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/modules/voice"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/speech"
)

// Module is a group of related actions.
type Module interface {
	Name() string
	Actions() []action.Action
}

// ModuleDeps holds what the modules are built from.
type ModuleDeps struct {
	Content  *content.Content
	Logger   *logger.Logger
	Metrics  *metrics.Metrics // optional
	Resolver *config.Resolver // nil reads the process environment
	Audio    voice.Publisher  // optional; clips are inlined when nil
}

// Modules builds every action module.
func Modules(deps ModuleDeps) []Module {
	guard := action.NewGuard(deps.Logger, deps.Metrics)

	var voiceOpts []voice.Option
	if deps.Audio != nil {
		voiceOpts = append(voiceOpts, voice.WithPublisher(deps.Audio))
	}

	return []Module{
		fallback.NewHandler(deps.Content, deps.Logger),
		studio.NewHandler(deps.Content),
		booking.NewHandler(deps.Content, deps.Logger),
		profile.NewHandler(deps.Content, deps.Logger),
		packages.NewHandler(catalog.NewClient(deps.Resolver), deps.Content, guard),
		voice.NewHandler(speech.NewClient(deps.Resolver), guard, deps.Logger, voiceOpts...),
	}
}

// BuildRegistry registers the actions of every module. Duplicate names across
// modules are an error.
func BuildRegistry(deps ModuleDeps) (*action.Registry, error) {
	registry := action.NewRegistry()
	for _, m := range Modules(deps) {
		if err := registry.Register(m.Actions()...); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name(), err)
		}
	}
	return registry, nil
}
