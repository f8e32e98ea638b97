// Package tasks implements scheduled background tasks for the Koloau builder:
// database maintenance and anything else the scheduler config enables.
package tasks

import (
	"log/slog"

	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/database"
	"github.com/koloau/builder/internal/registry"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Registry *registry.Registry
	Config   *config.Config
}
