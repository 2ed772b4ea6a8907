package reformat

import (
	"fmt"

	"github.com/vearutop/reformat/internal/yuv"
)

// maxScaleSource is the largest source width or height accepted by Scale.
const maxScaleSource = 16384

// Scale resamples planes of the category to width x height with a box filter. Planes are
// replaced with newly allocated ones, the previous planes are left intact, so borrowed
// samples are never written.
//
// Scaling color planes of P010 images produces a 10-bit 4:2:0 image. Scaling only the
// alpha category leaves color planes at their previous size. Scale is a no-op once the
// image has the target size, so color and alpha of one image are scaled on copies.
func (img *Image) Scale(width, height int, category Category, opts ...func(o *Options)) error {
	if img.Width == width && img.Height == height {
		return nil
	}

	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: scale to %dx%d", ErrInvalidArgument, width, height)
	}

	if (img.HasPlane(PlaneY) || img.HasPlane(PlaneA)) && (img.Width > maxScaleSource || img.Height > maxScaleSource) {
		return fmt.Errorf("%w: scale from %dx%d", ErrNotImplemented, img.Width, img.Height)
	}

	o := newOptions(opts)

	var (
		src *Image
		err error
	)

	if category != CategoryAlpha && img.Format == PixelFormatAndroidP010 {
		o.Logger.Debugf("converting %dx%d p010 to 10-bit yuv420 before scaling", img.Width, img.Height)

		if src, err = p010ToI010(o.Backend, img); err != nil {
			return err
		}
	} else {
		snapshot := *img
		src = &snapshot
	}

	img.Width = width
	img.Height = height
	img.Depth = src.Depth
	img.Format = src.Format

	if src.HasPlane(PlaneY) && category != CategoryAlpha {
		if err := img.AllocatePlanes(CategoryColor); err != nil {
			return err
		}
	}

	if src.HasPlane(PlaneA) && category == CategoryAlpha {
		if err := img.AllocatePlanes(CategoryAlpha); err != nil {
			return err
		}
	}

	if category != CategoryAlpha && (img.Format == PixelFormatAndroidNv12 || img.Format == PixelFormatAndroidNv21) {
		o.Logger.Debugf("scaling %s %dx%d to %dx%d", img.Format, src.Width, src.Height, width, height)

		return scaleNV12(o.Backend, src, img)
	}

	for _, p := range category.Planes() {
		if !src.HasPlane(p) || !img.HasPlane(p) {
			continue
		}

		s, d := src.view(p), img.view(p)
		sw, sh := src.PlaneWidth(p), src.PlaneHeight(p)
		dw, dh := img.PlaneWidth(p), img.PlaneHeight(p)

		var res int
		if src.Depth > 8 {
			res = o.Backend.ScalePlane12(s.Pix16, s.Stride, sw, sh, d.Pix16, d.Stride, dw, dh, yuv.FilterBox)
		} else {
			res = o.Backend.ScalePlane(s.Pix8, s.Stride, sw, sh, d.Pix8, d.Stride, dw, dh, yuv.FilterBox)
		}

		if res != 0 {
			return fmt.Errorf("%w: scale %s plane %dx%d to %dx%d", ErrReformatFailed, p, sw, sh, dw, dh)
		}
	}

	return nil
}

func scaleNV12(b Backend, src, dst *Image) error {
	sy, suv := src.view(PlaneY), src.view(PlaneU)
	dy, duv := dst.view(PlaneY), dst.view(PlaneU)

	res := b.NV12Scale(sy.Pix8, sy.Stride, suv.Pix8, suv.Stride, src.Width, src.Height,
		dy.Pix8, dy.Stride, duv.Pix8, duv.Stride, dst.Width, dst.Height, yuv.FilterBox)
	if res != 0 {
		return fmt.Errorf("%w: scale %s %dx%d to %dx%d", ErrReformatFailed, src.Format,
			src.Width, src.Height, dst.Width, dst.Height)
	}

	return nil
}

// p010ToI010 returns a planar 10-bit 4:2:0 copy of the color planes of a P010 image.
func p010ToI010(b Backend, img *Image) (*Image, error) {
	i010 := &Image{
		Width:  img.Width,
		Height: img.Height,
		Depth:  10,
		Format: PixelFormatYuv420,
		Nclx:   img.Nclx,
	}

	if err := i010.AllocatePlanes(CategoryColor); err != nil {
		return nil, err
	}

	sy, suv := img.view(PlaneY), img.view(PlaneU)
	dy, du, dv := i010.view(PlaneY), i010.view(PlaneU), i010.view(PlaneV)

	res := b.P010ToI010(sy.Pix16, sy.Stride, suv.Pix16, suv.Stride,
		dy.Pix16, dy.Stride, du.Pix16, du.Stride, dv.Pix16, dv.Stride, img.Width, img.Height)
	if res != 0 {
		return nil, fmt.Errorf("%w: p010 to i010 %dx%d", ErrReformatFailed, img.Width, img.Height)
	}

	return i010, nil
}
