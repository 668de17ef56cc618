// Package bimgcodec implements codec.Decoder/codec.Pipeline on top of
// libvips via github.com/h2non/bimg, the closest real-world analog to the
// sharp bindings the original service assumed.
package bimgcodec

import (
	"context"
	"fmt"
	"strings"

	"github.com/h2non/bimg"

	"github.com/r9s-ai/ipx/internal/codec"
)

// Decoder is the codec.Decoder implementation backed by bimg.
type Decoder struct{}

// New returns a ready-to-use bimg-backed decoder.
func New() *Decoder { return &Decoder{} }

func (Decoder) Decode(_ context.Context, data []byte, opts codec.NewOptions) (codec.Pipeline, codec.Meta, error) {
	img := bimg.NewImage(data)
	size, err := img.Size()
	if err != nil {
		return nil, codec.Meta{}, fmt.Errorf("decode image: %w", err)
	}
	meta := codec.Meta{
		Width:    size.Width,
		Height:   size.Height,
		Type:     bimg.ImageTypeName(img.Type()),
		MIMEType: "image/" + bimg.ImageTypeName(img.Type()),
	}
	p := &pipeline{
		data:     data,
		meta:     meta,
		animated: opts.Animated,
		options:  bimg.Options{},
	}
	return p, meta, nil
}

type pipeline struct {
	data     []byte
	meta     codec.Meta
	animated bool
	options  bimg.Options
	format   string
}

func (p *pipeline) clone() *pipeline {
	cp := *p
	return &cp
}

func (p *pipeline) apply(mutate func(*bimg.Options)) (codec.Pipeline, error) {
	next := p.clone()
	mutate(&next.options)
	return next, nil
}

func (p *pipeline) Resize(w, h int, opts codec.ResizeOptions) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Width = w
		o.Height = h
		o.Enlarge = !opts.WithoutEnlargement
		o.Background = parseColor(opts.Background)
		switch opts.Fit {
		case codec.FitContain, codec.FitInside:
			o.Embed = true
		case codec.FitFill:
			o.Force = true
		case codec.FitOutside:
			o.Crop = false
		default:
			o.Crop = true
		}
		if opts.Position != "" {
			o.Gravity = gravityFromPosition(opts.Position)
		}
	})
}

func (p *pipeline) Extend(opts codec.RegionOptions) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Extend = bimg.ExtendBackground
		o.Background = parseColor(opts.Background)
		o.Top = opts.Top
		o.Left = opts.Left
		o.Width = p.meta.Width + opts.Left + opts.Right
		o.Height = p.meta.Height + opts.Top + opts.Bottom
	})
}

func (p *pipeline) Extract(opts codec.RegionOptions) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Top = opts.Top
		o.Left = opts.Left
		o.AreaWidth = opts.Right
		o.AreaHeight = opts.Bottom
	})
}

func (p *pipeline) Trim(threshold float64) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Trim = threshold > 0
	})
}

func (p *pipeline) Rotate(angle int, opts codec.RotateOptions) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Rotate = bimg.Angle(angle % 360)
		o.Background = parseColor(opts.Background)
	})
}

func (p *pipeline) Flip() (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) { o.Flip = true })
}

func (p *pipeline) Flop() (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) { o.Flop = true })
}

func (p *pipeline) Sharpen(sigma, flat, jagged float64) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Sharpen = bimg.Sharpen{Sigma: sigma, X1: flat, Y2: jagged}
	})
}

func (p *pipeline) Median(size int) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) { o.Median = size })
}

func (p *pipeline) Blur() (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.GaussianBlur = bimg.GaussianBlur{Sigma: 2}
	})
}

func (p *pipeline) Flatten(background string) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Flatten = true
		o.Background = parseColor(background)
	})
}

// Gamma sets the output gamma. bimg exposes a single gamma value rather
// than sharp's separate decode/encode pair, so out is unused.
func (p *pipeline) Gamma(in, out float64) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) { o.Gamma = in })
}

func (p *pipeline) Negate() (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) { o.Negative = true })
}

// Normalize is a no-op: bimg has no auto-levels/contrast-stretch option.
func (p *pipeline) Normalize() (codec.Pipeline, error) {
	return p, nil
}

func (p *pipeline) Threshold(level float64) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Threshold = level
	})
}

// Modulate only applies brightness: bimg has no saturation/hue controls.
func (p *pipeline) Modulate(opts codec.ModulateOptions) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Brightness = int(opts.Brightness)
	})
}

func (p *pipeline) Tint(rgb string) (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		c := parseColor(rgb)
		o.Background = c
	})
}

func (p *pipeline) Grayscale() (codec.Pipeline, error) {
	return p.apply(func(o *bimg.Options) {
		o.Interpretation = bimg.InterpretationBW
	})
}

func (p *pipeline) ToFormat(format string, opts codec.ToFormatOptions) (codec.Pipeline, error) {
	next := p.clone()
	next.format = format
	t, ok := bimg.ImageTypes[format]
	if !ok {
		return next, nil
	}
	next.options.Type = t
	next.options.Quality = opts.Quality
	next.options.Interlace = opts.Progressive
	return next, nil
}

func (p *pipeline) ToBuffer(_ context.Context) ([]byte, error) {
	opts := p.options
	if p.animated {
		opts.Type = bimg.GIF
	}
	out, err := bimg.NewImage(p.data).Process(opts)
	if err != nil {
		return nil, fmt.Errorf("process image: %w", err)
	}
	return out, nil
}

func parseColor(hex string) bimg.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return bimg.Color{R: 255, G: 255, B: 255}
	}
	var r, g, b int
	_, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return bimg.Color{R: 255, G: 255, B: 255}
	}
	return bimg.Color{R: uint8(r), G: uint8(g), B: uint8(b)}
}

func gravityFromPosition(pos string) bimg.Gravity {
	switch strings.ToLower(pos) {
	case "north", "top":
		return bimg.GravityNorth
	case "south", "bottom":
		return bimg.GravitySouth
	case "east", "right":
		return bimg.GravityEast
	case "west", "left":
		return bimg.GravityWest
	default:
		return bimg.GravityCentre
	}
}
