package reformat

// PixelFormat identifies the chroma layout of a YUV image.
type PixelFormat int

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatYuv444
	PixelFormatYuv422
	PixelFormatYuv420
	PixelFormatYuv400
	// PixelFormatAndroidP010 is 4:2:0 with interleaved UV, 16-bit samples with data in the
	// most significant bits.
	PixelFormatAndroidP010
	// PixelFormatAndroidNv12 is 4:2:0 with interleaved UV, 8-bit samples.
	PixelFormatAndroidNv12
	// PixelFormatAndroidNv21 is 4:2:0 with interleaved VU, 8-bit samples.
	PixelFormatAndroidNv21
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatYuv444:
		return "yuv444"
	case PixelFormatYuv422:
		return "yuv422"
	case PixelFormatYuv420:
		return "yuv420"
	case PixelFormatYuv400:
		return "yuv400"
	case PixelFormatAndroidP010:
		return "p010"
	case PixelFormatAndroidNv12:
		return "nv12"
	case PixelFormatAndroidNv21:
		return "nv21"
	default:
		return "none"
	}
}

// IsMonochrome tells if the format has no chroma planes.
func (f PixelFormat) IsMonochrome() bool {
	return f == PixelFormatYuv400
}

// IsOpaque tells if the format is a platform decoder layout with interleaved chroma.
func (f PixelFormat) IsOpaque() bool {
	switch f {
	case PixelFormatAndroidP010, PixelFormatAndroidNv12, PixelFormatAndroidNv21:
		return true
	default:
		return false
	}
}

// PlaneCount returns the number of planar color planes, zero for none and opaque formats.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case PixelFormatYuv400:
		return 1
	case PixelFormatYuv444, PixelFormatYuv422, PixelFormatYuv420:
		return 3
	default:
		return 0
	}
}

// ChromaShiftX returns the horizontal subsampling shift and the left shift applied
// after it for interleaved chroma.
func (f PixelFormat) ChromaShiftX() (shift, leftShift int) {
	switch f {
	case PixelFormatYuv422, PixelFormatYuv420:
		return 1, 0
	case PixelFormatAndroidP010, PixelFormatAndroidNv12, PixelFormatAndroidNv21:
		return 1, 1
	default:
		return 0, 0
	}
}

// ChromaShiftY returns the vertical subsampling shift.
func (f PixelFormat) ChromaShiftY() int {
	switch f {
	case PixelFormatYuv420, PixelFormatAndroidP010, PixelFormatAndroidNv12, PixelFormatAndroidNv21:
		return 1
	default:
		return 0
	}
}

// ApplyChromaShiftX subsamples a horizontal luma coordinate, rounding down.
func (f PixelFormat) ApplyChromaShiftX(v int) int {
	shift, leftShift := f.ChromaShiftX()

	return (v >> shift) << leftShift
}

// ApplyChromaShiftY subsamples a vertical luma coordinate, rounding down.
func (f PixelFormat) ApplyChromaShiftY(v int) int {
	return v >> f.ChromaShiftY()
}

// Plane identifies one of the image planes.
type Plane int

const (
	PlaneY Plane = iota
	PlaneU
	PlaneV
	PlaneA
)

func (p Plane) String() string {
	switch p {
	case PlaneY:
		return "Y"
	case PlaneU:
		return "U"
	case PlaneV:
		return "V"
	case PlaneA:
		return "A"
	default:
		return "?"
	}
}

// Category selects the planes an operation applies to.
type Category int

const (
	CategoryColor Category = iota
	CategoryAlpha
	CategoryGainmap
)

var (
	yuvPlanes   = []Plane{PlaneY, PlaneU, PlaneV}
	alphaPlanes = []Plane{PlaneA}
)

// Planes returns the planes of the category.
func (c Category) Planes() []Plane {
	if c == CategoryAlpha {
		return alphaPlanes
	}

	return yuvPlanes
}

func (c Category) String() string {
	switch c {
	case CategoryColor:
		return "color"
	case CategoryAlpha:
		return "alpha"
	case CategoryGainmap:
		return "gainmap"
	default:
		return "unknown"
	}
}
