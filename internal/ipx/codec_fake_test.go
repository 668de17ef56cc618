package ipx

import (
	"context"

	"github.com/r9s-ai/ipx/internal/codec"
)

// fakePipeline records every call made against it so tests can assert on
// the exact sequence ResolveHandlers/RunPipeline drive it through, without
// depending on libvips.
type fakePipeline struct {
	calls  []string
	format string
	fail   error
}

func (p *fakePipeline) push(name string) (codec.Pipeline, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	p.calls = append(p.calls, name)
	return p, nil
}

func (p *fakePipeline) Resize(w, h int, opts codec.ResizeOptions) (codec.Pipeline, error) {
	return p.push("resize")
}
func (p *fakePipeline) Extend(opts codec.RegionOptions) (codec.Pipeline, error)  { return p.push("extend") }
func (p *fakePipeline) Extract(opts codec.RegionOptions) (codec.Pipeline, error) { return p.push("extract") }
func (p *fakePipeline) Trim(threshold float64) (codec.Pipeline, error)           { return p.push("trim") }
func (p *fakePipeline) Rotate(angle int, opts codec.RotateOptions) (codec.Pipeline, error) {
	return p.push("rotate")
}
func (p *fakePipeline) Flip() (codec.Pipeline, error) { return p.push("flip") }
func (p *fakePipeline) Flop() (codec.Pipeline, error) { return p.push("flop") }
func (p *fakePipeline) Sharpen(sigma, flat, jagged float64) (codec.Pipeline, error) {
	return p.push("sharpen")
}
func (p *fakePipeline) Median(size int) (codec.Pipeline, error)          { return p.push("median") }
func (p *fakePipeline) Blur() (codec.Pipeline, error)                    { return p.push("blur") }
func (p *fakePipeline) Flatten(background string) (codec.Pipeline, error) { return p.push("flatten") }
func (p *fakePipeline) Gamma(in, out float64) (codec.Pipeline, error)    { return p.push("gamma") }
func (p *fakePipeline) Negate() (codec.Pipeline, error)                 { return p.push("negate") }
func (p *fakePipeline) Normalize() (codec.Pipeline, error)              { return p.push("normalize") }
func (p *fakePipeline) Threshold(level float64) (codec.Pipeline, error) { return p.push("threshold") }
func (p *fakePipeline) Modulate(opts codec.ModulateOptions) (codec.Pipeline, error) {
	return p.push("modulate")
}
func (p *fakePipeline) Tint(rgb string) (codec.Pipeline, error) { return p.push("tint") }
func (p *fakePipeline) Grayscale() (codec.Pipeline, error)      { return p.push("grayscale") }

func (p *fakePipeline) ToFormat(format string, opts codec.ToFormatOptions) (codec.Pipeline, error) {
	p.format = format
	return p.push("toformat:" + format)
}

func (p *fakePipeline) ToBuffer(ctx context.Context) ([]byte, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	return []byte("encoded:" + p.format), nil
}

// fakeDecoder returns a fixed Meta.Type regardless of input bytes, so
// pipeline tests can drive format-negotiation branches deterministically.
type fakeDecoder struct {
	meta codec.Meta
	fail error
}

func (d *fakeDecoder) Decode(ctx context.Context, data []byte, opts codec.NewOptions) (codec.Pipeline, codec.Meta, error) {
	if d.fail != nil {
		return nil, codec.Meta{}, d.fail
	}
	return &fakePipeline{}, d.meta, nil
}
