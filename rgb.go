package reformat

import (
	"fmt"
	"image"
	"image/color"
)

// RGBFormat is the channel order of an interleaved RGB image, named by memory order.
type RGBFormat int

const (
	RGBFormatRgb RGBFormat = iota
	RGBFormatRgba
	RGBFormatArgb
	RGBFormatBgr
	RGBFormatBgra
	RGBFormatAbgr
	// RGBFormatRgb565 packs pixels into little-endian uint16 with blue in the low bits.
	RGBFormatRgb565
)

func (f RGBFormat) String() string {
	switch f {
	case RGBFormatRgb:
		return "rgb"
	case RGBFormatRgba:
		return "rgba"
	case RGBFormatArgb:
		return "argb"
	case RGBFormatBgr:
		return "bgr"
	case RGBFormatBgra:
		return "bgra"
	case RGBFormatAbgr:
		return "abgr"
	case RGBFormatRgb565:
		return "rgb565"
	default:
		return "unknown"
	}
}

// HasAlpha tells if the format has an alpha channel.
func (f RGBFormat) HasAlpha() bool {
	switch f {
	case RGBFormatRgba, RGBFormatArgb, RGBFormatBgra, RGBFormatAbgr:
		return true
	default:
		return false
	}
}

// ChannelCount returns number of channels.
func (f RGBFormat) ChannelCount() int {
	if f.HasAlpha() {
		return 4
	}

	return 3
}

// offsets returns byte offsets of red, green, blue and alpha, alpha is -1 if absent.
func (f RGBFormat) offsets() (r, g, b, a int) {
	switch f {
	case RGBFormatRgb:
		return 0, 1, 2, -1
	case RGBFormatRgba:
		return 0, 1, 2, 3
	case RGBFormatArgb:
		return 1, 2, 3, 0
	case RGBFormatBgr:
		return 2, 1, 0, -1
	case RGBFormatBgra:
		return 2, 1, 0, 3
	case RGBFormatAbgr:
		return 3, 2, 1, 0
	default:
		return -1, -1, -1, -1
	}
}

// ChromaUpsampling selects how subsampled chroma is expanded during conversion.
type ChromaUpsampling int

const (
	ChromaUpsamplingAutomatic ChromaUpsampling = iota
	ChromaUpsamplingFastest
	ChromaUpsamplingBestQuality
	ChromaUpsamplingNearest
	ChromaUpsamplingBilinear
)

func (u ChromaUpsampling) String() string {
	switch u {
	case ChromaUpsamplingAutomatic:
		return "automatic"
	case ChromaUpsamplingFastest:
		return "fastest"
	case ChromaUpsamplingBestQuality:
		return "best"
	case ChromaUpsamplingNearest:
		return "nearest"
	case ChromaUpsamplingBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// nearestOnly tells if the setting requests unfiltered chroma.
func (u ChromaUpsampling) nearestOnly() bool {
	return u == ChromaUpsamplingFastest || u == ChromaUpsamplingNearest
}

// RGBImage is the destination of a YUV to RGB conversion.
type RGBImage struct {
	Width  int
	Height int
	// Depth must be 8 for conversion.
	Depth  int
	Format RGBFormat

	ChromaUpsampling ChromaUpsampling
	// PremultiplyAlpha multiplies color channels by alpha.
	PremultiplyAlpha bool

	Pixels   []byte
	RowBytes int
}

// NewRGBImage returns an 8-bit RGBA destination with dimensions of img.
func NewRGBImage(img *Image) *RGBImage {
	return &RGBImage{
		Width:  img.Width,
		Height: img.Height,
		Depth:  8,
		Format: RGBFormatRgba,
	}
}

// PixelSize returns bytes per pixel.
func (r *RGBImage) PixelSize() int {
	if r.Format == RGBFormatRgb565 {
		return 2
	}

	size := r.Format.ChannelCount()
	if r.Depth > 8 {
		size *= 2
	}

	return size
}

// HasAlpha tells if the destination stores alpha.
func (r *RGBImage) HasAlpha() bool {
	return r.Format.HasAlpha()
}

// AllocatePixels allocates a tightly packed pixel buffer.
func (r *RGBImage) AllocatePixels() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d rgb image", ErrInvalidArgument, r.Width, r.Height)
	}

	rowBytes := int64(r.Width) * int64(r.PixelSize())
	if rowBytes*int64(r.Height) > maxPlaneSamples*4 {
		return fmt.Errorf("%w: %dx%d rgb image", ErrOutOfMemory, r.Width, r.Height)
	}

	r.RowBytes = int(rowBytes)
	r.Pixels = make([]byte, r.RowBytes*r.Height)

	return nil
}

// ToImage copies pixels into a standard library image: *image.RGBA when alpha is
// premultiplied, *image.NRGBA otherwise.
func (r *RGBImage) ToImage() (image.Image, error) {
	if r.Depth != 8 {
		return nil, fmt.Errorf("%w: %d-bit rgb image", ErrNotImplemented, r.Depth)
	}

	if len(r.Pixels) < (r.Height-1)*r.RowBytes+r.Width*r.PixelSize() {
		return nil, fmt.Errorf("%w: short pixel buffer", ErrInvalidArgument)
	}

	rect := image.Rect(0, 0, r.Width, r.Height)

	if r.PremultiplyAlpha && r.HasAlpha() {
		dst := image.NewRGBA(rect)
		r.each(func(x, y int, c color.NRGBA) {
			dst.SetRGBA(x, y, color.RGBA(c))
		})

		return dst, nil
	}

	dst := image.NewNRGBA(rect)
	r.each(func(x, y int, c color.NRGBA) {
		dst.SetNRGBA(x, y, c)
	})

	return dst, nil
}

// each visits pixels with channels as stored.
func (r *RGBImage) each(fn func(x, y int, c color.NRGBA)) {
	size := r.PixelSize()
	rOff, gOff, bOff, aOff := r.Format.offsets()

	for y := 0; y < r.Height; y++ {
		row := r.Pixels[y*r.RowBytes:]

		for x := 0; x < r.Width; x++ {
			p := row[x*size : x*size+size]
			c := color.NRGBA{A: 255}

			if r.Format == RGBFormatRgb565 {
				v := uint16(p[0]) | uint16(p[1])<<8
				c.R = expand565(uint8(v>>11), 5)
				c.G = expand565(uint8(v>>5)&0x3f, 6)
				c.B = expand565(uint8(v)&0x1f, 5)
			} else {
				c.R, c.G, c.B = p[rOff], p[gOff], p[bOff]
				if aOff >= 0 {
					c.A = p[aOff]
				}
			}

			fn(x, y, c)
		}
	}
}

func expand565(v uint8, bits int) uint8 {
	return v<<(8-bits) | v>>(2*bits-8)
}
