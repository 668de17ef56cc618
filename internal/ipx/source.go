package ipx

import (
	"context"
	"time"
)

// SourceDescriptor is the opaque value a supplier returns for an id.
// GetData is deferred and memoized: repeated invocations within one
// request return the same buffer.
type SourceDescriptor struct {
	// MTime is the wall-clock timestamp of the underlying artifact, if known.
	MTime time.Time
	// HasMTime distinguishes "unset" from the zero time.
	HasMTime bool
	// MaxAge is a non-negative cache-control hint in seconds.
	MaxAge int
	// HasMaxAge distinguishes "unset" from zero seconds.
	HasMaxAge bool

	once  Once[[]byte]
	fetch func(ctx context.Context) ([]byte, error)
	ctx   context.Context
}

// NewSourceDescriptor builds a descriptor whose GetData defers to fetch,
// memoized across calls.
func NewSourceDescriptor(ctx context.Context, fetch func(ctx context.Context) ([]byte, error)) *SourceDescriptor {
	return &SourceDescriptor{ctx: ctx, fetch: fetch}
}

// GetData returns the source bytes, fetching them at most once.
func (d *SourceDescriptor) GetData() ([]byte, error) {
	return d.once.Do(func() ([]byte, error) {
		return d.fetch(d.ctx)
	})
}

// Supplier resolves an id to a SourceDescriptor. Filesystem and HTTP are
// the two built-in variants; the registry holds them by name.
type Supplier interface {
	Fetch(ctx context.Context, id string, opts RequestOptions) (*SourceDescriptor, error)
}

// RequestOptions carries per-request supplier hints, e.g. bypassDomain for
// the HTTP supplier's allow-list check.
type RequestOptions struct {
	BypassDomain bool
}

// Registry owns named suppliers and selects one based on id shape.
type Registry struct {
	suppliers map[string]Supplier
}

// NewRegistry builds an empty registry; register suppliers with Register.
func NewRegistry() *Registry {
	return &Registry{suppliers: map[string]Supplier{}}
}

// Register associates a supplier with a name ("filesystem" or "http").
func (r *Registry) Register(name string, s Supplier) {
	r.suppliers[name] = s
}

// Resolve selects filesystem or http based on whether id carries a URL
// scheme, then delegates the fetch.
func (r *Registry) Resolve(ctx context.Context, id string, opts RequestOptions) (*SourceDescriptor, error) {
	name := "filesystem"
	if hasScheme(id) {
		name = "http"
	}
	s, ok := r.suppliers[name]
	if !ok {
		return nil, BadRequest("Unknown source")
	}
	return s.Fetch(ctx, id, opts)
}
