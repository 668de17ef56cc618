package ipxserver

import (
	"context"

	"github.com/r9s-ai/ipx/internal/codec"
)

// fakePipeline is a no-op codec.Pipeline used to drive the HTTP facade in
// tests without depending on libvips.
type fakePipeline struct {
	format string
}

func (p *fakePipeline) Resize(int, int, codec.ResizeOptions) (codec.Pipeline, error)   { return p, nil }
func (p *fakePipeline) Extend(codec.RegionOptions) (codec.Pipeline, error)             { return p, nil }
func (p *fakePipeline) Extract(codec.RegionOptions) (codec.Pipeline, error)            { return p, nil }
func (p *fakePipeline) Trim(float64) (codec.Pipeline, error)                           { return p, nil }
func (p *fakePipeline) Rotate(int, codec.RotateOptions) (codec.Pipeline, error)         { return p, nil }
func (p *fakePipeline) Flip() (codec.Pipeline, error)                                  { return p, nil }
func (p *fakePipeline) Flop() (codec.Pipeline, error)                                  { return p, nil }
func (p *fakePipeline) Sharpen(float64, float64, float64) (codec.Pipeline, error)      { return p, nil }
func (p *fakePipeline) Median(int) (codec.Pipeline, error)                             { return p, nil }
func (p *fakePipeline) Blur() (codec.Pipeline, error)                                  { return p, nil }
func (p *fakePipeline) Flatten(string) (codec.Pipeline, error)                         { return p, nil }
func (p *fakePipeline) Gamma(float64, float64) (codec.Pipeline, error)                 { return p, nil }
func (p *fakePipeline) Negate() (codec.Pipeline, error)                                { return p, nil }
func (p *fakePipeline) Normalize() (codec.Pipeline, error)                             { return p, nil }
func (p *fakePipeline) Threshold(float64) (codec.Pipeline, error)                      { return p, nil }
func (p *fakePipeline) Modulate(codec.ModulateOptions) (codec.Pipeline, error)         { return p, nil }
func (p *fakePipeline) Tint(string) (codec.Pipeline, error)                           { return p, nil }
func (p *fakePipeline) Grayscale() (codec.Pipeline, error)                            { return p, nil }

func (p *fakePipeline) ToFormat(format string, _ codec.ToFormatOptions) (codec.Pipeline, error) {
	p.format = format
	return p, nil
}

func (p *fakePipeline) ToBuffer(context.Context) ([]byte, error) {
	return []byte("encoded:" + p.format), nil
}

type fakeDecoder struct {
	meta codec.Meta
}

func (d *fakeDecoder) Decode(context.Context, []byte, codec.NewOptions) (codec.Pipeline, codec.Meta, error) {
	return &fakePipeline{}, d.meta, nil
}
