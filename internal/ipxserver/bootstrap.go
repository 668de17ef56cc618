package ipxserver

import (
	"fmt"

	"github.com/r9s-ai/ipx/internal/codec"
	"github.com/r9s-ai/ipx/internal/codec/bimgcodec"
	"github.com/r9s-ai/ipx/internal/ipx"
	"github.com/r9s-ai/ipx/pkg/cache"
	"github.com/r9s-ai/ipx/pkg/cache/diskcache"
	"github.com/r9s-ai/ipx/pkg/cache/memcache"
	"github.com/r9s-ai/ipx/pkg/cache/memory"
	"github.com/r9s-ai/ipx/pkg/cache/rediscache"
	"github.com/r9s-ai/ipx/pkg/config"
)

// buildRegistry assembles the filesystem and HTTP suppliers from cfg
// (§4.2, §6's config table). A falsy dir disables the filesystem
// supplier entirely: ids routed to it then hit the registry's own
// "Unknown source" branch.
//
// domains does NOT gate registration of the HTTP supplier the same way:
// an empty allow-list must still answer a remote id with
// Forbidden("Forbidden host") (§8 scenario 8), which requires the
// supplier to be registered and to reject every host, not for the
// registry to fall back to a different "unknown source" error.
func buildRegistry(cfg *config.Config) *ipx.Registry {
	reg := ipx.NewRegistry()
	if cfg.Dir != "" {
		reg.Register("filesystem", ipx.NewFSSupplier(cfg.Dir, cfg.MaxAge))
	}
	reg.Register("http", ipx.NewHTTPSupplier(cfg.Domains, cfg.MaxAge))
	return reg
}

// buildDecoder returns the image codec implementation. bimg is currently
// the only one wired; cfg.Sharp is reserved for future codec-specific
// tuning knobs.
func buildDecoder(_ *config.Config) codec.Decoder {
	return bimgcodec.New()
}

// BuildCache constructs the configured external cache backend, or nil
// when caching is disabled (§6.1).
func BuildCache(cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Type {
	case "", "memory":
		return memory.New(0), nil
	case "redis":
		if cfg.Cache.RedisHost == "" {
			return nil, fmt.Errorf("cache.redis_host is required for cache.type=redis")
		}
		return rediscache.New(cfg.Cache.RedisHost, cfg.Cache.RedisDB), nil
	case "memcached":
		if len(cfg.Cache.MemcacheHosts) == 0 {
			return nil, fmt.Errorf("cache.memcache_hosts is required for cache.type=memcached")
		}
		return memcache.New(cfg.Cache.MemcacheHosts...), nil
	case "disk":
		if cfg.Cache.DiskDir == "" {
			return nil, fmt.Errorf("cache.disk_dir is required for cache.type=disk")
		}
		return diskcache.Open(cfg.Cache.DiskDir)
	case "tiered":
		return buildTieredCache(cfg)
	default:
		return nil, fmt.Errorf("unknown cache.type %q", cfg.Cache.Type)
	}
}

func buildTieredCache(cfg *config.Config) (cache.Cache, error) {
	if len(cfg.Cache.Tiers) == 0 {
		return nil, fmt.Errorf("cache.tiers is required for cache.type=tiered")
	}
	tiers := make([]cache.Cache, 0, len(cfg.Cache.Tiers))
	for _, t := range cfg.Cache.Tiers {
		sub := *cfg
		sub.Cache.Type = t
		c, err := BuildCache(&sub)
		if err != nil {
			return nil, fmt.Errorf("tiered cache tier %q: %w", t, err)
		}
		if c != nil {
			tiers = append(tiers, c)
		}
	}
	return cache.NewTiered(tiers...), nil
}
