package ipx

import (
	"strings"

	"github.com/r9s-ai/ipx/internal/codec"
	"github.com/r9s-ai/ipx/pkg/literal"
)

// HandlerContext is the per-request mutable record setters write into and
// operations read from. Its lifetime equals one data() invocation.
type HandlerContext struct {
	Meta       codec.Meta
	Quality    int
	HasQuality bool
	Fit        codec.Fit
	Position   string
	Background string
	Enlarge    bool
}

// setterOrder sorts before every operation; operations keep their
// declaration order in handlerTable (the REDESIGN FLAG resolution —
// no locale-compare of stringified order keys).
const setterOrder = -1

// HandlerApply mutates hc and/or returns a transformed pipeline. Setters
// ignore p and return it unchanged; operations read hc and return a new
// pipeline.
type HandlerApply func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error)

// Handler is one static entry in the handler table.
type Handler struct {
	Name  string
	Order int
	Apply HandlerApply
}

var handlerTable []Handler
var handlerByName map[string]*Handler

func register(names []string, order int, apply HandlerApply) {
	h := &Handler{Name: names[0], Order: order, Apply: apply}
	handlerTable = append(handlerTable, *h)
	idx := len(handlerTable) - 1
	for _, n := range names {
		handlerByName[n] = &handlerTable[idx]
	}
}

func init() {
	handlerByName = map[string]*Handler{}

	// --- context setters (order = -1) ---
	register([]string{"q", "quality"}, setterOrder, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		hc.Quality = literal.Int(arg(args, 0), 80)
		hc.HasQuality = true
		return p, nil
	})
	register([]string{"fit"}, setterOrder, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		hc.Fit = codec.Fit(literal.String(arg(args, 0)))
		return p, nil
	})
	register([]string{"pos", "position"}, setterOrder, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		hc.Position = literal.String(arg(args, 0))
		return p, nil
	})
	register([]string{"background", "b"}, setterOrder, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		hc.Background = normalizeColor(literal.String(arg(args, 0)))
		return p, nil
	})
	register([]string{"enlarge"}, setterOrder, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		hc.Enlarge = true
		return p, nil
	})

	// --- pipeline operations (declaration order is the tie-break rank) ---
	register([]string{"w", "width"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		w := literal.Int(arg(args, 0), 0)
		return p.Resize(w, 0, codec.ResizeOptions{WithoutEnlargement: !hc.Enlarge})
	})
	register([]string{"h", "height"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		h := literal.Int(arg(args, 0), 0)
		return p.Resize(0, h, codec.ResizeOptions{WithoutEnlargement: !hc.Enlarge})
	})
	register([]string{"s", "resize"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		w, h := parseSize(literal.String(arg(args, 0)))
		if !hc.Enlarge {
			w, h = clampToSource(w, h, hc.Meta.Width, hc.Meta.Height)
		}
		return p.Resize(w, h, codec.ResizeOptions{Fit: hc.Fit, Position: hc.Position, Background: hc.Background})
	})
	register([]string{"trim"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Trim(literal.Float(arg(args, 0), 10))
	})
	register([]string{"extend"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Extend(regionArgs(hc, args))
	})
	register([]string{"extract", "crop"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Extract(regionArgs(hc, args))
	})
	register([]string{"rotate"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Rotate(literal.Int(arg(args, 0), 0), codec.RotateOptions{Background: hc.Background})
	})
	register([]string{"flip"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Flip()
	})
	register([]string{"flop"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Flop()
	})
	register([]string{"sharpen"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Sharpen(literal.Float(arg(args, 0), 1), literal.Float(arg(args, 1), 1), literal.Float(arg(args, 2), 2))
	})
	register([]string{"median"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Median(literal.Int(arg(args, 0), 3))
	})
	register([]string{"blur"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Blur()
	})
	register([]string{"flatten"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Flatten(hc.Background)
	})
	register([]string{"gamma"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Gamma(literal.Float(arg(args, 0), 2.2), literal.Float(arg(args, 1), 2.2))
	})
	register([]string{"negate"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Negate()
	})
	register([]string{"normalize"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Normalize()
	})
	register([]string{"threshold"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Threshold(literal.Float(arg(args, 0), 128))
	})
	register([]string{"modulate"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Modulate(codec.ModulateOptions{
			Brightness: literal.Float(arg(args, 0), 1),
			Saturation: literal.Float(arg(args, 1), 1),
			Hue:        literal.Float(arg(args, 2), 0),
		})
	})
	register([]string{"tint"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Tint(normalizeColor(literal.String(arg(args, 0))))
	})
	register([]string{"grayscale"}, 0, func(hc *HandlerContext, p codec.Pipeline, args []any) (codec.Pipeline, error) {
		return p.Grayscale()
	})
}

func arg(args []any, i int) any {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i]
}

func regionArgs(hc *HandlerContext, args []any) codec.RegionOptions {
	return codec.RegionOptions{
		Top:        literal.Int(arg(args, 0), 0),
		Right:      literal.Int(arg(args, 1), 0),
		Bottom:     literal.Int(arg(args, 2), 0),
		Left:       literal.Int(arg(args, 3), 0),
		Background: hc.Background,
	}
}

// parseArgs splits a modifier's raw value string on "_" and runs each
// fragment through the permissive literal parser.
func parseArgs(raw string) []any {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "_")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = literal.Parse(p)
	}
	return out
}

func parseSize(raw string) (int, int) {
	parts := strings.SplitN(raw, "x", 2)
	w := literal.Int(literal.Parse(parts[0]), 0)
	h := w
	if len(parts) > 1 && parts[1] != "" {
		h = literal.Int(literal.Parse(parts[1]), w)
	}
	return w, h
}

// clampToSource shrinks (w, h) to fit within (srcW, srcH) while preserving
// the requested aspect ratio, per §4.4's `s`/`resize` clamp rule.
func clampToSource(w, h, srcW, srcH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || w <= 0 || h <= 0 {
		return w, h
	}
	aspect := float64(w) / float64(h)
	if w > srcW {
		w = srcW
		h = roundInt(float64(srcW) / aspect)
	}
	if h > srcH {
		h = srcH
		w = roundInt(float64(srcH) * aspect)
	}
	return w, h
}

func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

var hexColorLen = map[int]bool{3: true, 6: true}

func normalizeColor(v string) string {
	s := strings.TrimPrefix(v, "#")
	if hexColorLen[len(s)] && isHex(s) {
		return "#" + s
	}
	return v
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return s != ""
}

// ResolveHandlers filters mods to known handler names and returns them
// sorted: setters (order=-1) first in table order, then operations in
// table declaration order.
func ResolveHandlers(mods Modifiers) []resolvedHandler {
	var setters, ops []resolvedHandler
	for _, h := range handlerTable {
		if raw, ok := lookupModifier(mods, h.Name); ok {
			rh := resolvedHandler{handler: h, args: parseArgs(raw)}
			if h.Order == setterOrder {
				setters = append(setters, rh)
			} else {
				ops = append(ops, rh)
			}
		}
	}
	return append(setters, ops...)
}

type resolvedHandler struct {
	handler Handler
	args    []any
}

// lookupModifier finds the raw value for a handler's canonical or alias
// name; handlerByName maps every canonical name and alias to its Handler,
// so we scan mods for any key whose Handler carries this canonical name.
func lookupModifier(mods Modifiers, canonicalName string) (string, bool) {
	for k, v := range mods {
		if h, ok := handlerByName[k]; ok && h.Name == canonicalName {
			return v, true
		}
	}
	return "", false
}
