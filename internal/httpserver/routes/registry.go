package routes

import (
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Registrar mounts one group of routes on the root router.
type Registrar func(r chi.Router, d deps.Deps)

var registry = map[string]Registrar{}

// Register adds a named route group. Each file in this package registers itself from init.
// Registering the same name twice is a programming error.
func Register(name string, reg Registrar) {
	if _, dup := registry[name]; dup {
		panic("routes: duplicate registration " + name)
	}
	registry[name] = reg
}

// RegisterAll mounts every group in name order. Called once from server.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		registry[name](r, d)
	}
	if d.Logger != nil {
		d.Logger.Debug("routes registered", logger.Int("groups", len(names)))
	}
}
