package reformat

import (
	"github.com/vearutop/reformat/internal/yuv"
)

// layoutClass groups RGB formats written by the same primitive family, channel order
// aside.
type layoutClass int

const (
	layoutNone layoutClass = iota
	// layoutRGB24 is served by *ToRGB24 primitives.
	layoutRGB24
	// layoutARGB is served by *ToARGB primitives.
	layoutARGB
	// layoutRGBA is served by *ToRGBA primitives.
	layoutRGBA
	layoutRGB565
)

func classOf(f RGBFormat) layoutClass {
	switch f {
	case RGBFormatRgb, RGBFormatBgr:
		return layoutRGB24
	case RGBFormatRgba, RGBFormatBgra:
		return layoutARGB
	case RGBFormatArgb, RGBFormatAbgr:
		return layoutRGBA
	case RGBFormatRgb565:
		return layoutRGB565
	default:
		return layoutNone
	}
}

// isYvu tells if the format stores red before blue, which libyuv primitives get by
// swapping U and V and using the swapped constants.
func isYvu(f RGBFormat) bool {
	return f == RGBFormatRgb || f == RGBFormatRgba || f == RGBFormatArgb
}

// selectKey is the normalized conversion request a decision table is keyed by.
type selectKey struct {
	depth  int
	format PixelFormat
	layout layoutClass
	alpha  bool
}

// selectTier is one decision table, tiers are consulted in order.
type selectTier struct {
	name  string
	table map[selectKey]yuv.Func

	// anyAlpha makes the tier match regardless of alpha preference.
	anyAlpha bool
	// final makes a miss unsupported for the formats listed.
	final map[PixelFormat]bool
	// finalIf restricts final to a condition on the request.
	finalIf func(q selectQuery) bool
}

// selectQuery is a conversion request.
type selectQuery struct {
	depth      int
	format     PixelFormat
	rgb        RGBFormat
	alpha      bool
	upsampling ChromaUpsampling
}

func (q selectQuery) key(anyAlpha bool) selectKey {
	return selectKey{
		depth:  q.depth,
		format: q.format,
		layout: classOf(q.rgb),
		alpha:  q.alpha && !anyAlpha,
	}
}

var (
	nonYuv444 = map[PixelFormat]bool{
		PixelFormatYuv422: true, PixelFormatYuv420: true,
		PixelFormatAndroidP010: true, PixelFormatAndroidNv12: true, PixelFormatAndroidNv21: true,
	}
	monochrome = map[PixelFormat]bool{PixelFormatYuv400: true}
)

var tiers8 = []selectTier{
	{
		name:     "monochrome",
		anyAlpha: true,
		final:    monochrome,
		table: map[selectKey]yuv.Func{
			{8, PixelFormatYuv400, layoutARGB, false}: yuv.I400ToARGBMatrix,
		},
	},
	{
		name: "filtered alpha",
		table: map[selectKey]yuv.Func{
			{8, PixelFormatYuv422, layoutARGB, true}: yuv.I422AlphaToARGBMatrixFilter,
			{8, PixelFormatYuv420, layoutARGB, true}: yuv.I420AlphaToARGBMatrixFilter,
		},
	},
	{
		// Without a filtered primitive the bilinear request cannot be honored.
		name:     "filtered",
		anyAlpha: true,
		final:    nonYuv444,
		finalIf: func(q selectQuery) bool {
			return q.upsampling == ChromaUpsamplingBilinear || q.upsampling == ChromaUpsamplingBestQuality
		},
		table: map[selectKey]yuv.Func{
			{8, PixelFormatYuv422, layoutRGB24, false}: yuv.I422ToRGB24MatrixFilter,
			{8, PixelFormatYuv420, layoutRGB24, false}: yuv.I420ToRGB24MatrixFilter,
			{8, PixelFormatYuv422, layoutARGB, false}:  yuv.I422ToARGBMatrixFilter,
			{8, PixelFormatYuv420, layoutARGB, false}:  yuv.I420ToARGBMatrixFilter,
		},
	},
	{
		name: "alpha",
		table: map[selectKey]yuv.Func{
			{8, PixelFormatYuv444, layoutARGB, true}: yuv.I444AlphaToARGBMatrix,
			{8, PixelFormatYuv422, layoutARGB, true}: yuv.I422AlphaToARGBMatrix,
			{8, PixelFormatYuv420, layoutARGB, true}: yuv.I420AlphaToARGBMatrix,
		},
	},
	{
		name:     "plain",
		anyAlpha: true,
		table: map[selectKey]yuv.Func{
			{8, PixelFormatYuv444, layoutRGB24, false}:  yuv.I444ToRGB24Matrix,
			{8, PixelFormatYuv420, layoutRGB24, false}:  yuv.I420ToRGB24Matrix,
			{8, PixelFormatYuv444, layoutARGB, false}:   yuv.I444ToARGBMatrix,
			{8, PixelFormatYuv422, layoutARGB, false}:   yuv.I422ToARGBMatrix,
			{8, PixelFormatYuv420, layoutARGB, false}:   yuv.I420ToARGBMatrix,
			{8, PixelFormatYuv422, layoutRGBA, false}:   yuv.I422ToRGBAMatrix,
			{8, PixelFormatYuv420, layoutRGBA, false}:   yuv.I420ToRGBAMatrix,
			{8, PixelFormatYuv420, layoutRGB565, false}: yuv.I420ToRGB565Matrix,
		},
	},
}

var tiersHighBitDepth = []selectTier{
	{
		name: "filtered alpha",
		table: map[selectKey]yuv.Func{
			{10, PixelFormatYuv422, layoutARGB, true}: yuv.I210AlphaToARGBMatrixFilter,
			{10, PixelFormatYuv420, layoutARGB, true}: yuv.I010AlphaToARGBMatrixFilter,
		},
	},
	{
		name:     "filtered",
		anyAlpha: true,
		table: map[selectKey]yuv.Func{
			{10, PixelFormatYuv422, layoutARGB, false}: yuv.I210ToARGBMatrixFilter,
			{10, PixelFormatYuv420, layoutARGB, false}: yuv.I010ToARGBMatrixFilter,
		},
	},
	{
		name: "alpha",
		table: map[selectKey]yuv.Func{
			{10, PixelFormatYuv444, layoutARGB, true}: yuv.I410AlphaToARGBMatrix,
			{10, PixelFormatYuv422, layoutARGB, true}: yuv.I210AlphaToARGBMatrix,
			{10, PixelFormatYuv420, layoutARGB, true}: yuv.I010AlphaToARGBMatrix,
		},
	},
	{
		// Requests with alpha fall back to 8-bit alpha primitives instead.
		name: "plain",
		table: map[selectKey]yuv.Func{
			{10, PixelFormatYuv444, layoutARGB, false}: yuv.I410ToARGBMatrix,
			{10, PixelFormatYuv422, layoutARGB, false}: yuv.I210ToARGBMatrix,
			{10, PixelFormatYuv420, layoutARGB, false}: yuv.I010ToARGBMatrix,
			{12, PixelFormatYuv444, layoutARGB, false}: yuv.I412ToARGBMatrix,
			{12, PixelFormatYuv422, layoutARGB, false}: yuv.I212ToARGBMatrix,
			{12, PixelFormatYuv420, layoutARGB, false}: yuv.I012ToARGBMatrix,
		},
	},
}

// lookup returns the primitive and the name of the tier that decided, FuncNone when
// no tier has an entry.
func lookup(tiers []selectTier, q selectQuery) (yuv.Func, string) {
	for _, t := range tiers {
		if fn, ok := t.table[q.key(t.anyAlpha)]; ok {
			return fn, t.name
		}

		if t.final[q.format] && (t.finalIf == nil || t.finalIf(q)) {
			return yuv.FuncNone, t.name
		}
	}

	return yuv.FuncNone, ""
}

// selectFunc returns the 8-bit primitive for the request, FuncNone when unsupported.
// Depth of the request is ignored.
func selectFunc(q selectQuery) (yuv.Func, string) {
	q.depth = 8

	return lookup(tiers8, q)
}

// selectHighBitDepthFunc returns the primitive reading 16-bit samples for the request,
// FuncNone when there is none. Filtered variants are chosen regardless of upsampling,
// without a filtered variant the unfiltered one is used. Alpha is never dropped.
func selectHighBitDepthFunc(q selectQuery) (yuv.Func, string) {
	if q.depth <= 8 {
		return yuv.FuncNone, ""
	}

	return lookup(tiersHighBitDepth, q)
}
