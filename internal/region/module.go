// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package region drives region modules through their lifecycle against a set
// of scenes and owns the console's commander table.
package region

import (
	"context"

	"github.com/holomush/examplemodule/internal/scene"
)

// ConfigSource is the read side of the host configuration.
// *koanf.Koanf satisfies it.
type ConfigSource interface {
	Exists(path string) bool
	Bool(path string) bool
	String(path string) string
}

// Module is a region module. The host calls, in order: Initialise,
// PostInitialise, then AddRegion and RegionLoaded per scene, RemoveRegion when
// a scene goes away, and Close at shutdown.
type Module interface {
	Name() string
	Initialise(ctx context.Context, cfg ConfigSource) error
	PostInitialise(ctx context.Context)
	AddRegion(ctx context.Context, s *scene.Scene) error
	RegionLoaded(ctx context.Context, s *scene.Scene)
	RemoveRegion(ctx context.Context, s *scene.Scene)
	Close(ctx context.Context) error
}
