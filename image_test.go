package reformat

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImage_PlaneDimensions(t *testing.T) {
	tests := []struct {
		format PixelFormat
		w, h   int
		uw, uh int
		vw, vh int
	}{
		{PixelFormatYuv444, 5, 3, 5, 3, 5, 3},
		{PixelFormatYuv422, 5, 3, 3, 3, 3, 3},
		{PixelFormatYuv420, 5, 3, 3, 2, 3, 2},
		{PixelFormatYuv420, 4, 2, 2, 1, 2, 1},
		{PixelFormatYuv400, 5, 3, 0, 0, 0, 0},
		{PixelFormatAndroidNv12, 99, 49, 100, 25, 0, 0},
		{PixelFormatAndroidNv21, 4, 4, 4, 2, 0, 0},
		{PixelFormatAndroidP010, 3, 3, 4, 2, 0, 0},
	}

	for _, tc := range tests {
		img := &Image{Width: tc.w, Height: tc.h, Format: tc.format}

		got := [4]int{img.PlaneWidth(PlaneU), img.PlaneHeight(PlaneU), img.PlaneWidth(PlaneV), img.PlaneHeight(PlaneV)}
		want := [4]int{tc.uw, tc.uh, tc.vw, tc.vh}

		if got != want {
			t.Fatalf("%s %dx%d: got %v, want %v", tc.format, tc.w, tc.h, got, want)
		}

		if img.PlaneWidth(PlaneY) != tc.w || img.PlaneHeight(PlaneA) != tc.h {
			t.Fatalf("%s: unexpected luma or alpha dimensions", tc.format)
		}
	}
}

func TestPixelFormat_ApplyChromaShift(t *testing.T) {
	if got := PixelFormatYuv420.ApplyChromaShiftX(5); got != 2 {
		t.Fatalf("got %d", got)
	}

	if got := PixelFormatAndroidNv12.ApplyChromaShiftX(5); got != 4 {
		t.Fatalf("got %d", got)
	}

	if got := PixelFormatYuv422.ApplyChromaShiftY(5); got != 5 {
		t.Fatalf("got %d", got)
	}

	if got := PixelFormatAndroidP010.ApplyChromaShiftY(5); got != 2 {
		t.Fatalf("got %d", got)
	}
}

func TestImage_AllocatePlanes(t *testing.T) {
	img := &Image{Width: 3, Height: 3, Depth: 10, Format: PixelFormatYuv420}

	if err := img.AllocatePlanes(CategoryColor); err != nil {
		t.Fatal(err)
	}

	if err := img.AllocatePlanes(CategoryAlpha); err != nil {
		t.Fatal(err)
	}

	for p, want := range map[Plane][2]int{PlaneY: {9, 6}, PlaneU: {4, 4}, PlaneV: {4, 4}, PlaneA: {9, 6}} {
		pd, ok := img.PlaneData(p)
		if !ok || !pd.Pixels.Is16Bit() || pd.Pixels.IsBorrowed() {
			t.Fatalf("unexpected %s plane", p)
		}

		if pd.Pixels.Len() != want[0] || pd.RowBytes != want[1] || pd.Stride() != want[1]/2 {
			t.Fatalf("%s plane: %d samples, %d row bytes", p, pd.Pixels.Len(), pd.RowBytes)
		}
	}

	for _, v := range img.Planes[PlaneA].Uint16() {
		if v != 1023 {
			t.Fatalf("alpha not opaque: %d", v)
		}
	}

	if !img.HasAlpha() {
		t.Fatal("expected alpha")
	}

	img.FreePlanes(CategoryAlpha)

	if img.HasAlpha() || img.HasPlane(PlaneA) {
		t.Fatal("alpha not freed")
	}
}

func TestImage_AllocatePlanes_errors(t *testing.T) {
	img := &Image{Width: 2, Height: 2, Depth: 16, Format: PixelFormatYuv444}

	err := img.AllocatePlanes(CategoryColor)
	if !errors.Is(err, ErrUnsupportedDepth) || Code(err) != ResultUnsupportedDepth {
		t.Fatalf("expected ErrUnsupportedDepth, got %v", err)
	}

	img = &Image{Width: 1 << 16, Height: 1 << 16, Depth: 8, Format: PixelFormatYuv400}

	err = img.AllocatePlanes(CategoryColor)
	if !errors.Is(err, ErrOutOfMemory) || Code(err) != ResultOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}

	if img.HasPlane(PlaneY) {
		t.Fatal("unexpected plane")
	}
}

func TestImage_Clone(t *testing.T) {
	buf := []uint8{1, 2, 3, 4}
	img := &Image{Width: 2, Height: 2, Depth: 8, Format: PixelFormatYuv400, Nclx: DefaultNclx()}
	img.SetPlane(PlaneY, BorrowPixels8(buf), 2)

	c := img.Clone()

	if c.Planes[PlaneY].IsBorrowed() {
		t.Fatal("clone borrows samples")
	}

	c.Planes[PlaneY].Uint8()[0] = 100

	if buf[0] != 1 {
		t.Fatal("clone shares samples")
	}

	if diff := cmp.Diff([]uint8{100, 2, 3, 4}, c.Planes[PlaneY].Uint8()); diff != "" {
		t.Fatalf("unexpected clone (-want +got):\n%s", diff)
	}

	if c.Nclx != img.Nclx || c.RowBytes != img.RowBytes {
		t.Fatal("clone lost attributes")
	}
}

func TestImage_HasAlpha(t *testing.T) {
	img := &Image{Width: 2, Height: 2, Depth: 8, Format: PixelFormatYuv444}

	img.SetPlane(PlaneA, BorrowPixels8(make([]uint8, 4)), 0)
	if img.HasAlpha() {
		t.Fatal("zero stride alpha reported")
	}

	img.SetPlane(PlaneA, BorrowPixels8(nil), 2)
	if img.HasAlpha() {
		t.Fatal("empty alpha reported")
	}

	img.SetPlane(PlaneA, BorrowPixels8(make([]uint8, 4)), 2)
	if !img.HasAlpha() {
		t.Fatal("alpha not reported")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want ResultCode
	}{
		{nil, ResultOK},
		{ErrNotImplemented, ResultNotImplemented},
		{ErrInvalidArgument, ResultInvalidArgument},
		{ErrReformatFailed, ResultReformatFailed},
		{ErrOutOfMemory, ResultOutOfMemory},
		{ErrUnsupportedDepth, ResultUnsupportedDepth},
		{errors.New("other"), ResultUnknownError},
	}

	for _, tc := range tests {
		if got := Code(tc.err); got != tc.want {
			t.Fatalf("%v: got %s, want %s", tc.err, got, tc.want)
		}
	}

	if ResultNotImplemented != 25 || ResultInvalidArgument != 24 || ResultReformatFailed != 5 {
		t.Fatal("result codes renumbered")
	}
}

func TestColorDescriptionFrom(t *testing.T) {
	if ColorPrimariesFrom(3) != ColorPrimariesUnspecified || ColorPrimariesFrom(22) != ColorPrimariesEBU3213 {
		t.Fatal("unexpected primaries")
	}

	if TransferCharacteristicsFrom(19) != TransferCharacteristicsUnspecified ||
		TransferCharacteristicsFrom(16) != TransferCharacteristicsSMPTE2084 {
		t.Fatal("unexpected transfer characteristics")
	}

	if MatrixCoefficientsFrom(15) != MatrixCoefficientsUnspecified ||
		MatrixCoefficientsFrom(9) != MatrixCoefficientsBT2020NCL ||
		MatrixCoefficientsFrom(17) != MatrixCoefficientsYCgCoRo {
		t.Fatal("unexpected matrix coefficients")
	}

	if ChromaSamplePositionFrom(7) != ChromaSamplePositionUnknown ||
		ChromaSamplePositionFrom(2) != ChromaSamplePositionColocated {
		t.Fatal("unexpected chroma sample position")
	}

	if MediaCodecColorFormatFrom(54) != MediaCodecColorFormatP010 ||
		MediaCodecColorFormatFrom(21) != MediaCodecColorFormatYuv420Flexible {
		t.Fatal("unexpected media codec color format")
	}
}
