// Package yuv implements the pixel primitives of the reformat engine and defines the
// contract that alternative primitive backends implement.
//
// Primitives operate on borrowed plane views. Callers are expected to check that every
// view covers the rectangle it describes before invoking a backend: backends that call
// into native code trust the views.
package yuv

// FilterMode selects the resampling filter of a primitive.
type FilterMode int

// Filter modes, numbered as in libyuv.
const (
	FilterNone FilterMode = iota
	FilterLinear
	FilterBilinear
	FilterBox
)

// Plane is a borrowed view of plane samples. Exactly one of Pix8 and Pix16 is used,
// depending on the primitive. Stride is expressed in samples.
type Plane struct {
	Pix8   []uint8
	Pix16  []uint16
	Stride int
}

// Args carries the operands of a conversion primitive.
type Args struct {
	Y, U, V, A Plane

	Dst       []byte
	DstStride int

	Constants *Constants
	Width     int
	Height    int

	// Attenuate premultiplies color channels by alpha (alpha primitives only).
	Attenuate bool
	// Filter is honored by filtered primitives only.
	Filter FilterMode
}

// Backend provides the fixed-signature conversion and scaling operations used by the
// reformat engine. Status results follow libyuv: zero on success, nonzero on failure.
type Backend interface {
	Name() string

	Convert(fn Func, a *Args) int

	Convert16To8Plane(src []uint16, srcStride int, dst []uint8, dstStride int, scale, width, height int)

	ScalePlane(src []uint8, srcStride, srcWidth, srcHeight int,
		dst []uint8, dstStride, dstWidth, dstHeight int, filter FilterMode) int

	ScalePlane12(src []uint16, srcStride, srcWidth, srcHeight int,
		dst []uint16, dstStride, dstWidth, dstHeight int, filter FilterMode) int

	NV12Scale(srcY []uint8, srcStrideY int, srcUV []uint8, srcStrideUV int, srcWidth, srcHeight int,
		dstY []uint8, dstStrideY int, dstUV []uint8, dstStrideUV int, dstWidth, dstHeight int,
		filter FilterMode) int

	P010ToI010(srcY []uint16, srcStrideY int, srcUV []uint16, srcStrideUV int,
		dstY []uint16, dstStrideY int, dstU []uint16, dstStrideU int, dstV []uint16, dstStrideV int,
		width, height int) int
}

// Go returns the pure-Go backend.
func Go() Backend {
	return goBackend{}
}

type goBackend struct{}

func (goBackend) Name() string { return "go" }

func (goBackend) Convert(fn Func, a *Args) int {
	return convert(fn, a)
}

func (goBackend) Convert16To8Plane(src []uint16, srcStride int, dst []uint8, dstStride int, scale, width, height int) {
	convert16To8Plane(src, srcStride, dst, dstStride, scale, width, height)
}

func (goBackend) ScalePlane(src []uint8, srcStride, srcWidth, srcHeight int,
	dst []uint8, dstStride, dstWidth, dstHeight int, filter FilterMode,
) int {
	return scalePlane(src, srcStride, srcWidth, srcHeight, dst, dstStride, dstWidth, dstHeight, filter)
}

func (goBackend) ScalePlane12(src []uint16, srcStride, srcWidth, srcHeight int,
	dst []uint16, dstStride, dstWidth, dstHeight int, filter FilterMode,
) int {
	return scalePlane(src, srcStride, srcWidth, srcHeight, dst, dstStride, dstWidth, dstHeight, filter)
}

func (goBackend) NV12Scale(srcY []uint8, srcStrideY int, srcUV []uint8, srcStrideUV int, srcWidth, srcHeight int,
	dstY []uint8, dstStrideY int, dstUV []uint8, dstStrideUV int, dstWidth, dstHeight int,
	filter FilterMode,
) int {
	return nv12Scale(srcY, srcStrideY, srcUV, srcStrideUV, srcWidth, srcHeight,
		dstY, dstStrideY, dstUV, dstStrideUV, dstWidth, dstHeight, filter)
}

func (goBackend) P010ToI010(srcY []uint16, srcStrideY int, srcUV []uint16, srcStrideUV int,
	dstY []uint16, dstStrideY int, dstU []uint16, dstStrideU int, dstV []uint16, dstStrideV int,
	width, height int,
) int {
	return p010ToI010(srcY, srcStrideY, srcUV, srcStrideUV, dstY, dstStrideY, dstU, dstStrideU,
		dstV, dstStrideV, width, height)
}

// PlaneFits reports whether a plane of n samples with the given stride covers a
// width x height rectangle.
func PlaneFits(n, stride, width, height int) bool {
	if width < 0 || height < 0 {
		return false
	}
	if width == 0 || height == 0 {
		return true
	}
	if stride < width {
		return false
	}
	return n >= (height-1)*stride+width
}
