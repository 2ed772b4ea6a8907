package reformat

import (
	"fmt"

	"github.com/vearutop/reformat/internal/yuv"
)

type matrixKey struct {
	full   bool
	matrix MatrixCoefficients
}

type constantsPair struct {
	yuv, yvu *yuv.Constants
}

var (
	i601  = constantsPair{yuv.YuvI601Constants, yuv.YvuI601Constants}
	jpeg  = constantsPair{yuv.YuvJPEGConstants, yuv.YvuJPEGConstants}
	h709  = constantsPair{yuv.YuvH709Constants, yuv.YvuH709Constants}
	f709  = constantsPair{yuv.YuvF709Constants, yuv.YvuF709Constants}
	b2020 = constantsPair{yuv.Yuv2020Constants, yuv.Yvu2020Constants}
	v2020 = constantsPair{yuv.YuvV2020Constants, yuv.YvuV2020Constants}
)

// matrixTables maps range and matrix coefficients to conversion constants.
var matrixTables = map[matrixKey]constantsPair{
	{true, MatrixCoefficientsBT709}:       f709,
	{true, MatrixCoefficientsBT470BG}:     jpeg,
	{true, MatrixCoefficientsBT601}:       jpeg,
	{true, MatrixCoefficientsUnspecified}: jpeg,
	{true, MatrixCoefficientsBT2020NCL}:   v2020,

	{false, MatrixCoefficientsBT709}:       h709,
	{false, MatrixCoefficientsBT470BG}:     i601,
	{false, MatrixCoefficientsBT601}:       i601,
	{false, MatrixCoefficientsUnspecified}: i601,
	{false, MatrixCoefficientsBT2020NCL}:   b2020,
}

// chromaDerivedMatrix maps primaries of chroma-derived NCL images to the matrix they imply.
var chromaDerivedMatrix = map[ColorPrimaries]MatrixCoefficients{
	ColorPrimariesSRGB:        MatrixCoefficientsBT709,
	ColorPrimariesUnspecified: MatrixCoefficientsBT709,
	ColorPrimariesBT470BG:     MatrixCoefficientsBT601,
	ColorPrimariesBT601:       MatrixCoefficientsBT601,
	ColorPrimariesBT2020:      MatrixCoefficientsBT2020NCL,
}

// resolveMatrix returns natural and U/V swapped conversion constants for the color
// description of an image.
func resolveMatrix(nclx Nclx, monochrome bool) (yuvConst, yvuConst *yuv.Constants, err error) {
	matrix := nclx.MatrixCoefficients

	// Identity has no meaning for a single plane.
	if monochrome && matrix == MatrixCoefficientsIdentity {
		matrix = MatrixCoefficientsBT601
	}

	if matrix == MatrixCoefficientsChromaDerivedNCL {
		m, ok := chromaDerivedMatrix[nclx.ColorPrimaries]
		if !ok {
			return nil, nil, fmt.Errorf("%w: chroma derived matrix with primaries %d",
				ErrNotImplemented, nclx.ColorPrimaries)
		}

		matrix = m
	}

	c, ok := matrixTables[matrixKey{full: nclx.YUVRange == YUVRangeFull, matrix: matrix}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: matrix coefficients %d", ErrNotImplemented, nclx.MatrixCoefficients)
	}

	return c.yuv, c.yvu, nil
}
