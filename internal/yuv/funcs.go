package yuv

// Shape identifies a parameter signature shared by a family of conversion primitives.
type Shape int

// Primitive shapes.
const (
	ShapeYUV400ToRGB Shape = iota
	ShapeYUVToRGB
	ShapeYUVToRGBFilter
	ShapeYUVAToRGB
	ShapeYUVAToRGBFilter
	ShapeYUVToRGBHighBitDepth
	ShapeYUVToRGBFilterHighBitDepth
	ShapeYUVAToRGBHighBitDepth
	ShapeYUVAToRGBFilterHighBitDepth
)

// Layout is the memory order written by a primitive, named as in libyuv.
type Layout int

// Destination layouts.
const (
	// LayoutARGB is B, G, R, A in memory.
	LayoutARGB Layout = iota
	// LayoutRGBA is A, B, G, R in memory.
	LayoutRGBA
	// LayoutRGB24 is B, G, R in memory.
	LayoutRGB24
	// LayoutRGB565 is a little-endian uint16 with blue in the low five bits.
	LayoutRGB565
)

// PixelSize returns bytes per pixel.
func (l Layout) PixelSize() int {
	switch l {
	case LayoutRGB24:
		return 3
	case LayoutRGB565:
		return 2
	default:
		return 4
	}
}

// Func names a conversion primitive.
type Func int

// Conversion primitives.
const (
	FuncNone Func = iota

	I400ToARGBMatrix

	I420ToARGBMatrixFilter
	I422ToARGBMatrixFilter
	I420ToRGB24MatrixFilter
	I422ToRGB24MatrixFilter
	I420AlphaToARGBMatrixFilter
	I422AlphaToARGBMatrixFilter

	I444ToARGBMatrix
	I422ToARGBMatrix
	I420ToARGBMatrix
	I444ToRGB24Matrix
	I420ToRGB24Matrix
	I422ToRGBAMatrix
	I420ToRGBAMatrix
	I420ToRGB565Matrix

	I444AlphaToARGBMatrix
	I422AlphaToARGBMatrix
	I420AlphaToARGBMatrix

	I010ToARGBMatrixFilter
	I210ToARGBMatrixFilter
	I010AlphaToARGBMatrixFilter
	I210AlphaToARGBMatrixFilter

	I410ToARGBMatrix
	I210ToARGBMatrix
	I010ToARGBMatrix
	I412ToARGBMatrix
	I212ToARGBMatrix
	I012ToARGBMatrix

	I410AlphaToARGBMatrix
	I210AlphaToARGBMatrix
	I010AlphaToARGBMatrix

	funcCount
)

// FuncInfo describes a conversion primitive.
type FuncInfo struct {
	Symbol string
	Shape  Shape
	Layout Layout

	// ShiftX and ShiftY are chroma subsampling shifts of the source.
	ShiftX, ShiftY int
	// Depth is the source sample depth.
	Depth int
}

var funcInfo = [funcCount]FuncInfo{
	I400ToARGBMatrix: {"I400ToARGBMatrix", ShapeYUV400ToRGB, LayoutARGB, 0, 0, 8},

	I420ToARGBMatrixFilter:      {"I420ToARGBMatrixFilter", ShapeYUVToRGBFilter, LayoutARGB, 1, 1, 8},
	I422ToARGBMatrixFilter:      {"I422ToARGBMatrixFilter", ShapeYUVToRGBFilter, LayoutARGB, 1, 0, 8},
	I420ToRGB24MatrixFilter:     {"I420ToRGB24MatrixFilter", ShapeYUVToRGBFilter, LayoutRGB24, 1, 1, 8},
	I422ToRGB24MatrixFilter:     {"I422ToRGB24MatrixFilter", ShapeYUVToRGBFilter, LayoutRGB24, 1, 0, 8},
	I420AlphaToARGBMatrixFilter: {"I420AlphaToARGBMatrixFilter", ShapeYUVAToRGBFilter, LayoutARGB, 1, 1, 8},
	I422AlphaToARGBMatrixFilter: {"I422AlphaToARGBMatrixFilter", ShapeYUVAToRGBFilter, LayoutARGB, 1, 0, 8},

	I444ToARGBMatrix:   {"I444ToARGBMatrix", ShapeYUVToRGB, LayoutARGB, 0, 0, 8},
	I422ToARGBMatrix:   {"I422ToARGBMatrix", ShapeYUVToRGB, LayoutARGB, 1, 0, 8},
	I420ToARGBMatrix:   {"I420ToARGBMatrix", ShapeYUVToRGB, LayoutARGB, 1, 1, 8},
	I444ToRGB24Matrix:  {"I444ToRGB24Matrix", ShapeYUVToRGB, LayoutRGB24, 0, 0, 8},
	I420ToRGB24Matrix:  {"I420ToRGB24Matrix", ShapeYUVToRGB, LayoutRGB24, 1, 1, 8},
	I422ToRGBAMatrix:   {"I422ToRGBAMatrix", ShapeYUVToRGB, LayoutRGBA, 1, 0, 8},
	I420ToRGBAMatrix:   {"I420ToRGBAMatrix", ShapeYUVToRGB, LayoutRGBA, 1, 1, 8},
	I420ToRGB565Matrix: {"I420ToRGB565Matrix", ShapeYUVToRGB, LayoutRGB565, 1, 1, 8},

	I444AlphaToARGBMatrix: {"I444AlphaToARGBMatrix", ShapeYUVAToRGB, LayoutARGB, 0, 0, 8},
	I422AlphaToARGBMatrix: {"I422AlphaToARGBMatrix", ShapeYUVAToRGB, LayoutARGB, 1, 0, 8},
	I420AlphaToARGBMatrix: {"I420AlphaToARGBMatrix", ShapeYUVAToRGB, LayoutARGB, 1, 1, 8},

	I010ToARGBMatrixFilter:      {"I010ToARGBMatrixFilter", ShapeYUVToRGBFilterHighBitDepth, LayoutARGB, 1, 1, 10},
	I210ToARGBMatrixFilter:      {"I210ToARGBMatrixFilter", ShapeYUVToRGBFilterHighBitDepth, LayoutARGB, 1, 0, 10},
	I010AlphaToARGBMatrixFilter: {"I010AlphaToARGBMatrixFilter", ShapeYUVAToRGBFilterHighBitDepth, LayoutARGB, 1, 1, 10},
	I210AlphaToARGBMatrixFilter: {"I210AlphaToARGBMatrixFilter", ShapeYUVAToRGBFilterHighBitDepth, LayoutARGB, 1, 0, 10},

	I410ToARGBMatrix: {"I410ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 0, 0, 10},
	I210ToARGBMatrix: {"I210ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 1, 0, 10},
	I010ToARGBMatrix: {"I010ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 1, 1, 10},
	I412ToARGBMatrix: {"I412ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 0, 0, 12},
	I212ToARGBMatrix: {"I212ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 1, 0, 12},
	I012ToARGBMatrix: {"I012ToARGBMatrix", ShapeYUVToRGBHighBitDepth, LayoutARGB, 1, 1, 12},

	I410AlphaToARGBMatrix: {"I410AlphaToARGBMatrix", ShapeYUVAToRGBHighBitDepth, LayoutARGB, 0, 0, 10},
	I210AlphaToARGBMatrix: {"I210AlphaToARGBMatrix", ShapeYUVAToRGBHighBitDepth, LayoutARGB, 1, 0, 10},
	I010AlphaToARGBMatrix: {"I010AlphaToARGBMatrix", ShapeYUVAToRGBHighBitDepth, LayoutARGB, 1, 1, 10},
}

// Funcs lists every conversion primitive.
func Funcs() []Func {
	res := make([]Func, 0, funcCount-1)
	for f := FuncNone + 1; f < funcCount; f++ {
		res = append(res, f)
	}

	return res
}

// Info returns primitive description, zero value for unknown primitives.
func (f Func) Info() FuncInfo {
	if f <= FuncNone || f >= funcCount {
		return FuncInfo{}
	}

	return funcInfo[f]
}

func (f Func) String() string {
	if s := f.Info().Symbol; s != "" {
		return s
	}

	return "none"
}

// HasAlpha tells if the primitive reads an alpha plane.
func (f Func) HasAlpha() bool {
	switch f.Info().Shape {
	case ShapeYUVAToRGB, ShapeYUVAToRGBFilter, ShapeYUVAToRGBHighBitDepth, ShapeYUVAToRGBFilterHighBitDepth:
		return true
	default:
		return false
	}
}

// HighBitDepth tells if the primitive reads 16-bit samples.
func (f Func) HighBitDepth() bool {
	return f.Info().Depth > 8
}

// Filtered tells if the primitive takes a chroma filter.
func (f Func) Filtered() bool {
	switch f.Info().Shape {
	case ShapeYUVToRGBFilter, ShapeYUVAToRGBFilter, ShapeYUVToRGBFilterHighBitDepth, ShapeYUVAToRGBFilterHighBitDepth:
		return true
	default:
		return false
	}
}

// Monochrome tells if the primitive reads luma only.
func (f Func) Monochrome() bool {
	return f.Info().Shape == ShapeYUV400ToRGB
}
