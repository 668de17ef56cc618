package ipx

import (
	"context"

	"github.com/r9s-ai/ipx/internal/codec"
	"github.com/r9s-ai/ipx/pkg/literal"
)

// formatWhitelist lists the only output formats toFormat is allowed to
// target (§4.4); anything else falls through to the decoder's native
// output.
var formatWhitelist = map[string]bool{
	"jpeg": true, "png": true, "webp": true, "avif": true, "tiff": true, "gif": true,
}

// PipelineResult is the encoded output of one pipeline run.
type PipelineResult struct {
	Bytes  []byte
	Format string
	Meta   codec.Meta
}

// RunPipeline decodes srcData, applies every handler ResolveHandlers
// surfaces from mods (setters, then operations, in table order), and
// re-encodes per the negotiated output format. An SVG source with no
// explicit format is still decoded (for its metadata) but skips the
// handlers and the re-encode and returns the original bytes.
func RunPipeline(ctx context.Context, decoder codec.Decoder, srcData []byte, mods Modifiers) (PipelineResult, error) {
	explicitFormat, hasFormat := requestedFormat(mods)
	animated := wantsAnimated(mods)

	p, meta, err := decoder.Decode(ctx, srcData, codec.NewOptions{Animated: animated})
	if err != nil {
		return PipelineResult{}, InternalError(err)
	}
	if !animated && meta.Type == "gif" {
		if p, meta, err = decoder.Decode(ctx, srcData, codec.NewOptions{Animated: true}); err != nil {
			return PipelineResult{}, InternalError(err)
		}
	}

	if meta.Type == "svg" && !hasFormat {
		return PipelineResult{Bytes: srcData, Format: "svg+xml", Meta: meta}, nil
	}

	hc := &HandlerContext{Meta: meta}
	for _, rh := range ResolveHandlers(mods) {
		if p, err = rh.handler.Apply(hc, p, rh.args); err != nil {
			return PipelineResult{}, InternalError(err)
		}
	}

	outFormat := meta.Type
	if hasFormat && formatWhitelist[explicitFormat] {
		outFormat = explicitFormat
	}

	if formatWhitelist[outFormat] {
		quality := 80
		if hc.HasQuality {
			quality = hc.Quality
		}
		if p, err = p.ToFormat(outFormat, codec.ToFormatOptions{
			Quality:     quality,
			Progressive: outFormat == "jpeg",
		}); err != nil {
			return PipelineResult{}, InternalError(err)
		}
	}

	out, err := p.ToBuffer(ctx)
	if err != nil {
		return PipelineResult{}, InternalError(err)
	}
	return PipelineResult{Bytes: out, Format: outFormat, Meta: meta}, nil
}

func requestedFormat(mods Modifiers) (string, bool) {
	raw, ok := mods["f"]
	if !ok {
		raw, ok = mods["format"]
	}
	if !ok {
		return "", false
	}
	if raw == "jpg" {
		raw = "jpeg"
	}
	return raw, true
}

func wantsAnimated(mods Modifiers) bool {
	if raw, ok := mods["a"]; ok {
		return literal.Bool(literal.Parse(raw))
	}
	if raw, ok := mods["animated"]; ok {
		return literal.Bool(literal.Parse(raw))
	}
	return false
}
