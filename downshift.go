package reformat

import (
	"fmt"

	"github.com/vearutop/reformat/internal/yuv"
)

// downshift returns an 8-bit copy of a deeper image. Alpha is converted when withAlpha
// is set and img has an alpha plane. The source is not modified.
func downshift(b Backend, img *Image, withAlpha bool) (*Image, error) {
	dst := &Image{
		Width:                img.Width,
		Height:               img.Height,
		Depth:                8,
		Format:               img.Format,
		Nclx:                 img.Nclx,
		ChromaSamplePosition: img.ChromaSamplePosition,
	}

	if err := dst.AllocatePlanes(CategoryColor); err != nil {
		return nil, fmt.Errorf("downshift color: %w", err)
	}

	planes := yuvPlanes

	if withAlpha && img.HasAlpha() {
		if err := dst.AllocatePlanes(CategoryAlpha); err != nil {
			return nil, fmt.Errorf("downshift alpha: %w", err)
		}

		planes = []Plane{PlaneY, PlaneU, PlaneV, PlaneA}
	}

	scale := 1 << (24 - img.Depth)

	for _, p := range planes {
		w, h := img.PlaneWidth(p), img.PlaneHeight(p)
		if w == 0 || h == 0 || !img.HasPlane(p) || !dst.HasPlane(p) {
			continue
		}

		src := img.view(p)
		if !yuv.PlaneFits(len(src.Pix16), src.Stride, w, h) {
			return nil, fmt.Errorf("%w: %s plane of %d-bit image", ErrInvalidArgument, p, img.Depth)
		}

		out := dst.view(p)
		b.Convert16To8Plane(src.Pix16, src.Stride, out.Pix8, out.Stride, scale, w, h)
	}

	return dst, nil
}
