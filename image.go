package reformat

import (
	"fmt"

	"github.com/vearutop/reformat/internal/yuv"
)

const maxPlaneSamples = 1 << 30

// Pixels stores the samples of one plane. Samples are either owned by the image or
// borrowed from caller memory which must stay valid, and must not be written by anyone
// else, while any call touches the image.
type Pixels struct {
	pix8     []uint8
	pix16    []uint16
	borrowed bool
}

// NewPixels8 allocates n owned 8-bit samples.
func NewPixels8(n int) *Pixels {
	return &Pixels{pix8: make([]uint8, n)}
}

// NewPixels16 allocates n owned 16-bit samples.
func NewPixels16(n int) *Pixels {
	return &Pixels{pix16: make([]uint16, n)}
}

// BorrowPixels8 wraps caller-managed 8-bit samples.
func BorrowPixels8(buf []uint8) *Pixels {
	return &Pixels{pix8: buf, borrowed: true}
}

// BorrowPixels16 wraps caller-managed 16-bit samples.
func BorrowPixels16(buf []uint16) *Pixels {
	return &Pixels{pix16: buf, borrowed: true}
}

// IsBorrowed tells if samples are owned by the caller.
func (p *Pixels) IsBorrowed() bool { return p.borrowed }

// Is16Bit tells if samples are 16-bit.
func (p *Pixels) Is16Bit() bool { return p.pix16 != nil }

// Uint8 returns 8-bit samples, nil for 16-bit storage.
func (p *Pixels) Uint8() []uint8 { return p.pix8 }

// Uint16 returns 16-bit samples, nil for 8-bit storage.
func (p *Pixels) Uint16() []uint16 { return p.pix16 }

// Len returns the number of samples.
func (p *Pixels) Len() int {
	if p.pix16 != nil {
		return len(p.pix16)
	}

	return len(p.pix8)
}

// Clone returns an owned deep copy.
func (p *Pixels) Clone() *Pixels {
	c := &Pixels{}

	if p.pix8 != nil {
		c.pix8 = append(make([]uint8, 0, len(p.pix8)), p.pix8...)
	}

	if p.pix16 != nil {
		c.pix16 = append(make([]uint16, 0, len(p.pix16)), p.pix16...)
	}

	return c
}

// Image is a planar or platform-interleaved YUV image with optional alpha.
type Image struct {
	Width  int
	Height int
	// Depth is 8, 10 or 12. Samples of deeper images are stored in 16 bits.
	Depth  int
	Format PixelFormat

	Nclx
	ChromaSamplePosition ChromaSamplePosition

	// Planes are indexed by Plane, absent planes are nil.
	Planes [4]*Pixels
	// RowBytes are plane strides in bytes.
	RowBytes [4]int
}

// PlaneData describes one plane of an image.
type PlaneData struct {
	Pixels    *Pixels
	Width     int
	Height    int
	RowBytes  int
	PixelSize int
}

// Stride returns the plane stride in samples.
func (d PlaneData) Stride() int {
	return d.RowBytes / d.PixelSize
}

func validDepth(depth int) bool {
	return depth == 8 || depth == 10 || depth == 12
}

// PixelSize returns bytes per sample.
func (img *Image) PixelSize() int {
	if img.Depth > 8 {
		return 2
	}

	return 1
}

// HasPlane tells if the plane is present, zero-sized planes included.
func (img *Image) HasPlane(p Plane) bool {
	return p >= PlaneY && p <= PlaneA && img.Planes[p] != nil
}

// HasAlpha tells if the image carries a non-empty alpha plane.
func (img *Image) HasAlpha() bool {
	return img.Planes[PlaneA] != nil && img.RowBytes[PlaneA] > 0 && img.Planes[PlaneA].Len() > 0
}

func (img *Image) hasChromaPlane(p Plane) bool {
	if img.Format.PlaneCount() == 3 {
		return true
	}

	// Interleaved chroma is kept in the U plane.
	return img.Format.IsOpaque() && p == PlaneU
}

// PlaneWidth returns plane width in samples, interleaved chroma counts both components.
func (img *Image) PlaneWidth(p Plane) int {
	switch p {
	case PlaneY, PlaneA:
		return img.Width
	case PlaneU, PlaneV:
		if !img.hasChromaPlane(p) {
			return 0
		}

		shift, _ := img.Format.ChromaShiftX()

		return img.Format.ApplyChromaShiftX(img.Width + shift)
	default:
		return 0
	}
}

// PlaneHeight returns plane height in rows.
func (img *Image) PlaneHeight(p Plane) int {
	switch p {
	case PlaneY, PlaneA:
		return img.Height
	case PlaneU, PlaneV:
		if !img.hasChromaPlane(p) {
			return 0
		}

		return img.Format.ApplyChromaShiftY(img.Height + img.Format.ChromaShiftY())
	default:
		return 0
	}
}

// PlaneData returns plane description, ok is false for an absent plane.
func (img *Image) PlaneData(p Plane) (PlaneData, bool) {
	if !img.HasPlane(p) {
		return PlaneData{}, false
	}

	return PlaneData{
		Pixels:    img.Planes[p],
		Width:     img.PlaneWidth(p),
		Height:    img.PlaneHeight(p),
		RowBytes:  img.RowBytes[p],
		PixelSize: img.PixelSize(),
	}, true
}

// SetPlane attaches samples with a stride in bytes.
func (img *Image) SetPlane(p Plane, px *Pixels, rowBytes int) {
	img.Planes[p] = px
	img.RowBytes[p] = rowBytes
}

// AllocatePlanes allocates owned planes of the category at current dimensions, depth and
// format. Planes with zero width or height are skipped. Alpha is filled opaque.
func (img *Image) AllocatePlanes(category Category) error {
	if !validDepth(img.Depth) {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, img.Depth)
	}

	pixelSize := img.PixelSize()

	for _, p := range category.Planes() {
		w, h := img.PlaneWidth(p), img.PlaneHeight(p)
		if w <= 0 || h <= 0 {
			continue
		}

		if int64(w)*int64(h) > maxPlaneSamples {
			return fmt.Errorf("%w: %s plane of %dx%d samples", ErrOutOfMemory, p, w, h)
		}

		var px *Pixels

		if pixelSize == 2 {
			px = NewPixels16(w * h)
			if p == PlaneA {
				fill(px.pix16, uint16(1)<<img.Depth-1)
			}
		} else {
			px = NewPixels8(w * h)
			if p == PlaneA {
				fill(px.pix8, 255)
			}
		}

		img.SetPlane(p, px, w*pixelSize)
	}

	return nil
}

// FreePlanes detaches planes of the category.
func (img *Image) FreePlanes(category Category) {
	for _, p := range category.Planes() {
		img.SetPlane(p, nil, 0)
	}
}

// Clone returns a deep copy with every plane owned by the copy.
func (img *Image) Clone() *Image {
	c := *img

	for p, px := range img.Planes {
		if px != nil {
			c.Planes[p] = px.Clone()
		}
	}

	return &c
}

// view returns a backend plane view with the stride in samples.
func (img *Image) view(p Plane) yuv.Plane {
	px := img.Planes[p]
	if px == nil {
		return yuv.Plane{}
	}

	stride := img.RowBytes[p]
	if px.Is16Bit() {
		stride /= 2
	}

	return yuv.Plane{Pix8: px.pix8, Pix16: px.pix16, Stride: stride}
}

func fill[T uint8 | uint16](s []T, v T) {
	for i := range s {
		s[i] = v
	}
}
