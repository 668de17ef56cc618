// Package codec defines the external image-processing contract the ipx
// core drives handlers through (§4.3). The core treats any implementation
// providing these operations as interchangeable; a handler whose
// corresponding method is unavailable on a given implementation is simply
// never invoked (unknown operations are filtered before dispatch, not at
// the codec boundary).
package codec

import "context"

// Fit values accepted by Resize.
type Fit string

const (
	FitCover      Fit = "cover"
	FitContain    Fit = "contain"
	FitFill       Fit = "fill"
	FitInside     Fit = "inside"
	FitOutside    Fit = "outside"
	FitDefault    Fit = ""
)

// ResizeOptions configures Resize.
type ResizeOptions struct {
	Fit                Fit
	Position           string
	Background         string
	WithoutEnlargement bool
}

// RegionOptions configures Extend/Extract.
type RegionOptions struct {
	Top, Right, Bottom, Left int
	Background               string
}

// RotateOptions configures Rotate.
type RotateOptions struct {
	Background string
}

// ModulateOptions configures Modulate.
type ModulateOptions struct {
	Brightness, Saturation, Hue float64
}

// ToFormatOptions configures ToFormat.
type ToFormatOptions struct {
	Quality      int
	Progressive  bool
}

// NewOptions configures pipeline construction.
type NewOptions struct {
	Animated bool
}

// Meta describes a decoded source image.
type Meta struct {
	Width    int
	Height   int
	Type     string // inferred source type, e.g. "png", "jpeg", "svg", "gif"
	MIMEType string
}

// Pipeline is one in-progress image transformation chain. Every mutating
// method returns the Pipeline to continue with, which may be a new value
// rather than the receiver (or an error), so handlers can chain calls;
// Pipeline values are not safe for concurrent use.
type Pipeline interface {
	Resize(w, h int, opts ResizeOptions) (Pipeline, error)
	Extend(opts RegionOptions) (Pipeline, error)
	Extract(opts RegionOptions) (Pipeline, error)
	Trim(threshold float64) (Pipeline, error)
	Rotate(angle int, opts RotateOptions) (Pipeline, error)
	Flip() (Pipeline, error)
	Flop() (Pipeline, error)
	Sharpen(sigma, flat, jagged float64) (Pipeline, error)
	Median(size int) (Pipeline, error)
	Blur() (Pipeline, error)
	Flatten(background string) (Pipeline, error)
	Gamma(in, out float64) (Pipeline, error)
	Negate() (Pipeline, error)
	Normalize() (Pipeline, error)
	Threshold(level float64) (Pipeline, error)
	Modulate(opts ModulateOptions) (Pipeline, error)
	Tint(rgb string) (Pipeline, error)
	Grayscale() (Pipeline, error)

	ToFormat(format string, opts ToFormatOptions) (Pipeline, error)
	ToBuffer(ctx context.Context) ([]byte, error)
}

// Decoder turns raw source bytes into a Pipeline plus their decoded Meta.
type Decoder interface {
	Decode(ctx context.Context, data []byte, opts NewOptions) (Pipeline, Meta, error)
}
