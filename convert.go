package reformat

import (
	"fmt"

	"github.com/vearutop/reformat/internal/yuv"
)

// ConvertToRGB converts img into the pixels of rgb, which must be allocated with the
// dimensions of img and depth 8. With reformatAlpha the alpha plane of img, if any, is
// written to formats that carry alpha.
//
// ErrNotImplemented is returned for depth, format, layout, upsampling or matrix
// combinations without a conversion path.
func ConvertToRGB(img *Image, rgb *RGBImage, reformatAlpha bool, opts ...func(o *Options)) error {
	o := newOptions(opts)

	if rgb.Depth != 8 || !validDepth(img.Depth) {
		return fmt.Errorf("%w: %d-bit image to %d-bit rgb", ErrNotImplemented, img.Depth, rgb.Depth)
	}

	yuvConst, yvuConst, err := resolveMatrix(img.Nclx, img.Format.IsMonochrome())
	if err != nil {
		return err
	}

	q := selectQuery{
		depth:      img.Depth,
		format:     img.Format,
		rgb:        rgb.Format,
		alpha:      reformatAlpha && img.HasAlpha(),
		upsampling: rgb.ChromaUpsampling,
	}

	constants := yuvConst
	if isYvu(rgb.Format) {
		constants = yvuConst
	}

	if fn, tier := selectHighBitDepthFunc(q); fn != yuv.FuncNone {
		o.Logger.Tracef("%s to %s: %s (%s) with %s on %s", img.Format, rgb.Format, fn, tier, constants.Symbol, o.Backend.Name())

		return invoke(o.Backend, fn, img, rgb, constants)
	}

	fn, tier := selectFunc(q)
	if fn == yuv.FuncNone {
		return fmt.Errorf("%w: %d-bit %s to %s, %s upsampling, alpha %t",
			ErrNotImplemented, img.Depth, img.Format, rgb.Format, rgb.ChromaUpsampling, q.alpha)
	}

	src := img

	if img.Depth > 8 {
		o.Logger.Debugf("no %d-bit primitive for %s to %s, downshifting for %s",
			img.Depth, img.Format, rgb.Format, fn)

		if src, err = downshift(o.Backend, img, fn.HasAlpha()); err != nil {
			return err
		}
	}

	o.Logger.Tracef("%s to %s: %s (%s) with %s on %s", img.Format, rgb.Format, fn, tier, constants.Symbol, o.Backend.Name())

	return invoke(o.Backend, fn, src, rgb, constants)
}

// invoke runs a primitive with plane views of img.
func invoke(b Backend, fn yuv.Func, img *Image, rgb *RGBImage, constants *yuv.Constants) error {
	filter := yuv.FilterBilinear
	if rgb.ChromaUpsampling.nearestOnly() {
		filter = yuv.FilterNone
	}

	u, v := PlaneU, PlaneV
	if isYvu(rgb.Format) {
		u, v = v, u
	}

	a := &yuv.Args{
		Y:         img.view(PlaneY),
		U:         img.view(u),
		V:         img.view(v),
		Dst:       rgb.Pixels,
		DstStride: rgb.RowBytes,
		Constants: constants,
		Width:     img.Width,
		Height:    img.Height,
		Filter:    filter,
	}

	if fn.HasAlpha() {
		a.A = img.view(PlaneA)
		a.Attenuate = rgb.PremultiplyAlpha
	}

	if !a.Fits(fn) {
		return fmt.Errorf("%w: planes or pixels of %dx%d image do not fit %s",
			ErrInvalidArgument, img.Width, img.Height, fn)
	}

	if res := b.Convert(fn, a); res != 0 {
		return fmt.Errorf("%w: %s returned %d", ErrReformatFailed, fn, res)
	}

	return nil
}
