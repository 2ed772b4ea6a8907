package reformat

// Color description codes follow the AV1 color config semantics.
// Unknown codes decode to the documented default of each type.

// ColorPrimaries identifies the chromaticity of the RGB primaries.
type ColorPrimaries uint16

const (
	ColorPrimariesUnknown     ColorPrimaries = 0
	ColorPrimariesSRGB        ColorPrimaries = 1
	ColorPrimariesUnspecified ColorPrimaries = 2
	ColorPrimariesBT470M      ColorPrimaries = 4
	ColorPrimariesBT470BG     ColorPrimaries = 5
	ColorPrimariesBT601       ColorPrimaries = 6
	ColorPrimariesSMPTE240    ColorPrimaries = 7
	ColorPrimariesGenericFilm ColorPrimaries = 8
	ColorPrimariesBT2020      ColorPrimaries = 9
	ColorPrimariesXYZ         ColorPrimaries = 10
	ColorPrimariesSMPTE431    ColorPrimaries = 11
	ColorPrimariesSMPTE432    ColorPrimaries = 12
	ColorPrimariesEBU3213     ColorPrimaries = 22

	ColorPrimariesBT709  = ColorPrimariesSRGB
	ColorPrimariesBT2100 = ColorPrimariesBT2020
	ColorPrimariesDCIP3  = ColorPrimariesSMPTE432
)

// ColorPrimariesFrom decodes a numeric code.
func ColorPrimariesFrom(code uint16) ColorPrimaries {
	switch c := ColorPrimaries(code); c {
	case ColorPrimariesUnknown, ColorPrimariesSRGB, ColorPrimariesUnspecified, ColorPrimariesBT470M,
		ColorPrimariesBT470BG, ColorPrimariesBT601, ColorPrimariesSMPTE240, ColorPrimariesGenericFilm,
		ColorPrimariesBT2020, ColorPrimariesXYZ, ColorPrimariesSMPTE431, ColorPrimariesSMPTE432,
		ColorPrimariesEBU3213:
		return c
	default:
		return ColorPrimariesUnspecified
	}
}

// TransferCharacteristics identifies the opto-electronic transfer function.
type TransferCharacteristics uint16

const (
	TransferCharacteristicsUnknown      TransferCharacteristics = 0
	TransferCharacteristicsBT709        TransferCharacteristics = 1
	TransferCharacteristicsUnspecified  TransferCharacteristics = 2
	TransferCharacteristicsReserved     TransferCharacteristics = 3
	TransferCharacteristicsBT470M       TransferCharacteristics = 4
	TransferCharacteristicsBT470BG      TransferCharacteristics = 5
	TransferCharacteristicsBT601        TransferCharacteristics = 6
	TransferCharacteristicsSMPTE240     TransferCharacteristics = 7
	TransferCharacteristicsLinear       TransferCharacteristics = 8
	TransferCharacteristicsLog100       TransferCharacteristics = 9
	TransferCharacteristicsLog100Sqrt10 TransferCharacteristics = 10
	TransferCharacteristicsIEC61966     TransferCharacteristics = 11
	TransferCharacteristicsBT1361       TransferCharacteristics = 12
	TransferCharacteristicsSRGB         TransferCharacteristics = 13
	TransferCharacteristicsBT2020_10Bit TransferCharacteristics = 14
	TransferCharacteristicsBT2020_12Bit TransferCharacteristics = 15
	TransferCharacteristicsPQ           TransferCharacteristics = 16
	TransferCharacteristicsSMPTE428     TransferCharacteristics = 17
	TransferCharacteristicsHLG          TransferCharacteristics = 18

	TransferCharacteristicsSMPTE2084 = TransferCharacteristicsPQ
)

// TransferCharacteristicsFrom decodes a numeric code.
func TransferCharacteristicsFrom(code uint16) TransferCharacteristics {
	if code > uint16(TransferCharacteristicsHLG) {
		return TransferCharacteristicsUnspecified
	}

	return TransferCharacteristics(code)
}

// MatrixCoefficients identifies the YUV to RGB transform.
type MatrixCoefficients uint16

const (
	MatrixCoefficientsIdentity         MatrixCoefficients = 0
	MatrixCoefficientsBT709            MatrixCoefficients = 1
	MatrixCoefficientsUnspecified      MatrixCoefficients = 2
	MatrixCoefficientsReserved         MatrixCoefficients = 3
	MatrixCoefficientsFCC              MatrixCoefficients = 4
	MatrixCoefficientsBT470BG          MatrixCoefficients = 5
	MatrixCoefficientsBT601            MatrixCoefficients = 6
	MatrixCoefficientsSMPTE240         MatrixCoefficients = 7
	MatrixCoefficientsYCgCo            MatrixCoefficients = 8
	MatrixCoefficientsBT2020NCL        MatrixCoefficients = 9
	MatrixCoefficientsBT2020CL         MatrixCoefficients = 10
	MatrixCoefficientsSMPTE2085        MatrixCoefficients = 11
	MatrixCoefficientsChromaDerivedNCL MatrixCoefficients = 12
	MatrixCoefficientsChromaDerivedCL  MatrixCoefficients = 13
	MatrixCoefficientsICtCp            MatrixCoefficients = 14
	MatrixCoefficientsYCgCoRe          MatrixCoefficients = 16
	MatrixCoefficientsYCgCoRo          MatrixCoefficients = 17
)

// MatrixCoefficientsFrom decodes a numeric code.
func MatrixCoefficientsFrom(code uint16) MatrixCoefficients {
	switch {
	case code <= uint16(MatrixCoefficientsICtCp),
		code == uint16(MatrixCoefficientsYCgCoRe),
		code == uint16(MatrixCoefficientsYCgCoRo):
		return MatrixCoefficients(code)
	default:
		return MatrixCoefficientsUnspecified
	}
}

// YUVRange tells whether samples span the full numeric range.
type YUVRange int

const (
	YUVRangeLimited YUVRange = iota
	YUVRangeFull
)

// ChromaSamplePosition is the position of subsampled chroma relative to luma.
type ChromaSamplePosition uint32

const (
	ChromaSamplePositionUnknown   ChromaSamplePosition = 0
	ChromaSamplePositionVertical  ChromaSamplePosition = 1
	ChromaSamplePositionColocated ChromaSamplePosition = 2
	ChromaSamplePositionReserved  ChromaSamplePosition = 3

	// ChromaSamplePositionCenter has no AV1 code and is signaled as unknown.
	ChromaSamplePositionCenter = ChromaSamplePositionUnknown
)

// ChromaSamplePositionFrom decodes a numeric code.
func ChromaSamplePositionFrom(code uint32) ChromaSamplePosition {
	if code > uint32(ChromaSamplePositionReserved) {
		return ChromaSamplePositionUnknown
	}

	return ChromaSamplePosition(code)
}

// MediaCodecColorFormat is an Android MediaCodec output color format.
type MediaCodecColorFormat int32

const (
	MediaCodecColorFormatYuv420Flexible MediaCodecColorFormat = 2135033992
	MediaCodecColorFormatP010           MediaCodecColorFormat = 54
)

// MediaCodecColorFormatFrom decodes a numeric code.
func MediaCodecColorFormatFrom(code int32) MediaCodecColorFormat {
	if MediaCodecColorFormat(code) == MediaCodecColorFormatP010 {
		return MediaCodecColorFormatP010
	}

	return MediaCodecColorFormatYuv420Flexible
}

// Nclx is the color description of an image.
type Nclx struct {
	ColorPrimaries          ColorPrimaries
	TransferCharacteristics TransferCharacteristics
	MatrixCoefficients      MatrixCoefficients
	YUVRange                YUVRange
}

// DefaultNclx returns the description used when a stream carries none.
func DefaultNclx() Nclx {
	return Nclx{
		ColorPrimaries:          ColorPrimariesUnspecified,
		TransferCharacteristics: TransferCharacteristicsUnspecified,
		MatrixCoefficients:      MatrixCoefficientsUnspecified,
		YUVRange:                YUVRangeFull,
	}
}
