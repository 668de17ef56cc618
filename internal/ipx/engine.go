package ipx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/r9s-ai/ipx/internal/codec"
	"github.com/r9s-ai/ipx/pkg/cache"
)

// ImageDescriptor is the per-request pair of deferred, memoized producers
// the HTTP facade drives (§3, §4.5): Src resolves the source descriptor,
// Data runs the pipeline or serves a cache hit.
type ImageDescriptor struct {
	srcOnce  Once[*SourceDescriptor]
	dataOnce Once[PipelineResult]

	ctx      context.Context
	registry *Registry
	decoder  codec.Decoder
	backend  cache.Cache
	id       string
	mods     Modifiers
	reqOpts  RequestOptions

	cacheHit bool
}

// NewImageDescriptor builds the per-request engine state for one logical
// image request. backend may be nil to disable the external cache.
func NewImageDescriptor(ctx context.Context, registry *Registry, decoder codec.Decoder, backend cache.Cache, id string, mods Modifiers, reqOpts RequestOptions) (*ImageDescriptor, error) {
	if id == "" {
		return nil, BadRequest("Resource id is missing")
	}
	return &ImageDescriptor{
		ctx:      ctx,
		registry: registry,
		decoder:  decoder,
		backend:  backend,
		id:       id,
		mods:     mods,
		reqOpts:  reqOpts,
	}, nil
}

// Src resolves the source descriptor, at most once per ImageDescriptor.
func (d *ImageDescriptor) Src() (*SourceDescriptor, error) {
	return d.srcOnce.Do(func() (*SourceDescriptor, error) {
		return d.registry.Resolve(d.ctx, d.id, d.reqOpts)
	})
}

// Data produces the encoded output, at most once: a cache hit short-
// circuits the pipeline entirely; a miss awaits Src, decodes, runs the
// pipeline, and (if a cache is configured) writes the result back.
func (d *ImageDescriptor) Data() (PipelineResult, error) {
	return d.dataOnce.Do(func() (PipelineResult, error) {
		key := cacheKey(d.id, d.mods)

		if d.backend != nil {
			if entry, ok, err := d.backend.Get(d.ctx, key); err == nil && ok {
				d.cacheHit = true
				return PipelineResult{Bytes: entry.Bytes, Format: entry.Format, Meta: entry.Meta}, nil
			}
		}

		src, err := d.Src()
		if err != nil {
			return PipelineResult{}, err
		}
		raw, err := src.GetData()
		if err != nil {
			return PipelineResult{}, err
		}

		result, err := RunPipeline(d.ctx, d.decoder, raw, d.mods)
		if err != nil {
			return PipelineResult{}, err
		}

		if d.backend != nil {
			ttl := time.Duration(src.MaxAge) * time.Second
			if !src.HasMaxAge {
				ttl = 0
			}
			_ = d.backend.Set(d.ctx, key, cache.Entry{
				Bytes:     result.Bytes,
				Format:    result.Format,
				Meta:      result.Meta,
				Timestamp: time.Now(),
				Expiry:    time.Now().Add(ttl),
			}, ttl)
		}

		return result, nil
	})
}

// CacheHit reports whether Data was served from the external cache,
// meaningful only after Data has returned.
func (d *ImageDescriptor) CacheHit() bool {
	return d.cacheHit
}

func cacheKey(id string, mods Modifiers) string {
	b, _ := json.Marshal(struct {
		ID   string    `json:"id"`
		Mods Modifiers `json:"modifiers"`
	}{ID: id, Mods: mods})
	return string(b)
}
