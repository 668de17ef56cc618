// Package ipxserver wires the ipx core onto an HTTP surface: request
// parsing, conditional-request handling, access logging, and the
// config-driven cache/source registry, following the teacher's
// gin-based server layer.
package ipxserver

import (
	"sync"

	"github.com/r9s-ai/ipx/internal/codec"
	"github.com/r9s-ai/ipx/internal/ipx"
	"github.com/r9s-ai/ipx/pkg/cache"
	"github.com/r9s-ai/ipx/pkg/config"
)

// state holds the mutable, hot-reloadable pieces of server configuration
// behind a single lock, mirroring the teacher's state type.
type state struct {
	mu       sync.RWMutex
	cfg      *config.Config
	registry *ipx.Registry
	aliases  []ipx.Alias
	decoder  codec.Decoder
	backend  cache.Cache

	counters adminCounters
}

func newState(cfg *config.Config, registry *ipx.Registry, decoder codec.Decoder, backend cache.Cache) *state {
	return &state{
		cfg:      cfg,
		registry: registry,
		aliases:  cfg.Aliases(),
		decoder:  decoder,
		backend:  backend,
	}
}

func (s *state) snapshot() (*config.Config, *ipx.Registry, []ipx.Alias, codec.Decoder, cache.Cache) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.registry, s.aliases, s.decoder, s.backend
}

// swap replaces the live config and registry, used by the fsnotify-driven
// hot reload. The decoder and backend are carried over unchanged since
// neither depends on the alias/domain configuration being reloaded.
func (s *state) swap(cfg *config.Config, registry *ipx.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.registry = registry
	s.aliases = cfg.Aliases()
}

