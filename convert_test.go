package reformat

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pion/logging"
	"github.com/vearutop/reformat/internal/yuv"
)

// newTestImage allocates an image with planes filled by a per-plane function of the sample
// position.
func newTestImage(t *testing.T, w, h, depth int, format PixelFormat, withAlpha bool, fn func(p Plane, x, y int) int) *Image {
	t.Helper()

	img := &Image{Width: w, Height: h, Depth: depth, Format: format, Nclx: DefaultNclx()}

	if err := img.AllocatePlanes(CategoryColor); err != nil {
		t.Fatalf("allocate color: %v", err)
	}

	if withAlpha {
		if err := img.AllocatePlanes(CategoryAlpha); err != nil {
			t.Fatalf("allocate alpha: %v", err)
		}
	}

	for p := PlaneY; p <= PlaneA; p++ {
		pd, ok := img.PlaneData(p)
		if !ok || fn == nil {
			continue
		}

		for y := 0; y < pd.Height; y++ {
			for x := 0; x < pd.Width; x++ {
				v := fn(p, x, y)
				if depth > 8 {
					pd.Pixels.Uint16()[y*pd.Stride()+x] = uint16(v)
				} else {
					pd.Pixels.Uint8()[y*pd.Stride()+x] = uint8(v)
				}
			}
		}
	}

	return img
}

func constant(y, u, v, a int) func(p Plane, x, y int) int {
	return func(p Plane, _, _ int) int {
		switch p {
		case PlaneY:
			return y
		case PlaneU:
			return u
		case PlaneV:
			return v
		default:
			return a
		}
	}
}

func gradient(depth int) func(p Plane, x, y int) int {
	maxV := 1<<depth - 1

	return func(p Plane, x, y int) int {
		return (x*37 + y*91 + int(p)*53) % (maxV + 1)
	}
}

func newTestRGB(t *testing.T, img *Image, f RGBFormat) *RGBImage {
	t.Helper()

	rgb := NewRGBImage(img)
	rgb.Format = f

	if err := rgb.AllocatePixels(); err != nil {
		t.Fatalf("allocate pixels: %v", err)
	}

	return rgb
}

func TestConvertToRGB_gray(t *testing.T) {
	tests := []struct {
		format PixelFormat
		rgb    RGBFormat
	}{
		{PixelFormatYuv444, RGBFormatRgb},
		{PixelFormatYuv444, RGBFormatBgra},
		{PixelFormatYuv422, RGBFormatRgba},
		{PixelFormatYuv422, RGBFormatAbgr},
		{PixelFormatYuv420, RGBFormatBgr},
		{PixelFormatYuv420, RGBFormatArgb},
		{PixelFormatYuv400, RGBFormatRgba},
	}

	for _, tc := range tests {
		img := newTestImage(t, 5, 3, 8, tc.format, false, constant(128, 128, 128, 0))
		rgb := newTestRGB(t, img, tc.rgb)

		if err := ConvertToRGB(img, rgb, false); err != nil {
			t.Fatalf("%s to %s: %v", tc.format, tc.rgb, err)
		}

		_, _, _, aOff := tc.rgb.offsets()

		for i, v := range rgb.Pixels {
			want := uint8(128)
			if aOff >= 0 && i%4 == aOff {
				want = 255
			}

			if v != want {
				t.Fatalf("%s to %s: byte %d is %d, want %d", tc.format, tc.rgb, i, v, want)
			}
		}
	}
}

func TestConvertToRGB_channelOrder(t *testing.T) {
	pairs := [][2]RGBFormat{
		{RGBFormatRgb, RGBFormatBgr},
		{RGBFormatRgba, RGBFormatBgra},
		{RGBFormatArgb, RGBFormatAbgr},
	}

	for _, format := range []PixelFormat{PixelFormatYuv422, PixelFormatYuv420} {
		img := newTestImage(t, 7, 5, 8, format, false, gradient(8))

		for _, pair := range pairs {
			a, b := newTestRGB(t, img, pair[0]), newTestRGB(t, img, pair[1])

			if err := ConvertToRGB(img, a, false); err != nil {
				t.Fatalf("%s to %s: %v", format, pair[0], err)
			}

			if err := ConvertToRGB(img, b, false); err != nil {
				t.Fatalf("%s to %s: %v", format, pair[1], err)
			}

			ia, _ := a.ToImage()
			ib, _ := b.ToImage()

			if diff := cmp.Diff(ia, ib); diff != "" {
				t.Fatalf("%s: %s and %s differ (-%s +%s):\n%s", format, pair[0], pair[1], pair[0], pair[1], diff)
			}
		}
	}
}

func TestConvertToRGB_red(t *testing.T) {
	// Full range BT.601 red.
	img := newTestImage(t, 2, 2, 8, PixelFormatYuv444, false, constant(76, 85, 255, 0))

	for _, f := range []RGBFormat{RGBFormatRgb, RGBFormatBgr, RGBFormatRgba, RGBFormatBgra} {
		rgb := newTestRGB(t, img, f)

		if err := ConvertToRGB(img, rgb, false); err != nil {
			t.Fatalf("%s: %v", f, err)
		}

		r, g, b, _ := f.offsets()
		if rgb.Pixels[r] < 250 || rgb.Pixels[g] > 5 || rgb.Pixels[b] > 5 {
			t.Fatalf("%s: not red: %v", f, rgb.Pixels[:rgb.PixelSize()])
		}
	}
}

func TestConvertToRGB_alpha(t *testing.T) {
	img := newTestImage(t, 4, 4, 8, PixelFormatYuv420, true, constant(200, 128, 128, 128))

	rgb := newTestRGB(t, img, RGBFormatRgba)
	if err := ConvertToRGB(img, rgb, true); err != nil {
		t.Fatal(err)
	}

	if got := rgb.Pixels[:4]; !bytes.Equal(got, []byte{200, 200, 200, 128}) {
		t.Fatalf("unexpected pixel %v", got)
	}

	rgb = newTestRGB(t, img, RGBFormatRgba)
	if err := ConvertToRGB(img, rgb, false); err != nil {
		t.Fatal(err)
	}

	if got := rgb.Pixels[:4]; !bytes.Equal(got, []byte{200, 200, 200, 255}) {
		t.Fatalf("unexpected pixel %v", got)
	}

	rgb = newTestRGB(t, img, RGBFormatBgra)
	rgb.PremultiplyAlpha = true

	if err := ConvertToRGB(img, rgb, true); err != nil {
		t.Fatal(err)
	}

	if got := rgb.Pixels[:4]; !bytes.Equal(got, []byte{100, 100, 100, 128}) {
		t.Fatalf("unexpected premultiplied pixel %v", got)
	}
}

func TestConvertToRGB_highBitDepth(t *testing.T) {
	for _, depth := range []int{10, 12} {
		mid := 1 << (depth - 1)
		img := newTestImage(t, 6, 4, depth, PixelFormatYuv420, false, constant(mid, mid, mid, 0))
		rgb := newTestRGB(t, img, RGBFormatBgra)

		if err := ConvertToRGB(img, rgb, false); err != nil {
			t.Fatalf("%d-bit: %v", depth, err)
		}

		for i := 0; i < len(rgb.Pixels); i += 4 {
			if got := rgb.Pixels[i : i+4]; !bytes.Equal(got, []byte{128, 128, 128, 255}) {
				t.Fatalf("%d-bit: unexpected pixel %v", depth, got)
			}
		}
	}
}

// shifted returns an 8-bit copy of img made by dropping low bits.
func shifted(t *testing.T, img *Image) *Image {
	t.Helper()

	return newTestImage(t, img.Width, img.Height, 8, img.Format, img.HasAlpha(), func(p Plane, x, y int) int {
		pd, _ := img.PlaneData(p)

		return int(pd.Pixels.Uint16()[y*pd.Stride()+x] >> (img.Depth - 8))
	})
}

func TestConvertToRGB_downshift(t *testing.T) {
	tests := []struct {
		depth  int
		format PixelFormat
		rgb    RGBFormat
		alpha  bool
	}{
		{10, PixelFormatYuv420, RGBFormatArgb, false},
		{10, PixelFormatYuv420, RGBFormatRgb565, false},
		{10, PixelFormatYuv420, RGBFormatRgb, false},
		{12, PixelFormatYuv422, RGBFormatBgr, false},
		{12, PixelFormatYuv420, RGBFormatRgba, true},
		{12, PixelFormatYuv444, RGBFormatBgra, true},
		{10, PixelFormatYuv400, RGBFormatRgba, false},
	}

	for _, tc := range tests {
		var logs bytes.Buffer

		img := newTestImage(t, 9, 7, tc.depth, tc.format, tc.alpha, gradient(tc.depth))
		rgb := newTestRGB(t, img, tc.rgb)

		err := ConvertToRGB(img, rgb, tc.alpha,
			WithLogger(logging.NewDefaultLeveledLoggerForScope("reformat", logging.LogLevelDebug, &logs)))
		if err != nil {
			t.Fatalf("%d-bit %s to %s: %v", tc.depth, tc.format, tc.rgb, err)
		}

		if !strings.Contains(logs.String(), "downshifting") {
			t.Fatalf("%d-bit %s to %s: no downshift logged: %q", tc.depth, tc.format, tc.rgb, logs.String())
		}

		img8 := shifted(t, img)
		want := newTestRGB(t, img8, tc.rgb)

		if err := ConvertToRGB(img8, want, tc.alpha); err != nil {
			t.Fatalf("8-bit %s to %s: %v", tc.format, tc.rgb, err)
		}

		if diff := cmp.Diff(want.Pixels, rgb.Pixels); diff != "" {
			t.Fatalf("%d-bit %s to %s differs from 8-bit copy (-want +got):\n%s", tc.depth, tc.format, tc.rgb, diff)
		}
	}
}

func TestConvertToRGB_unsupported(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format PixelFormat
		rgb    RGBFormat
		up     ChromaUpsampling
	}{
		{"422 to rgb565", 8, PixelFormatYuv422, RGBFormatRgb565, ChromaUpsamplingAutomatic},
		{"10-bit 422 to rgb565", 10, PixelFormatYuv422, RGBFormatRgb565, ChromaUpsamplingFastest},
		{"12-bit 422 to rgb565", 12, PixelFormatYuv422, RGBFormatRgb565, ChromaUpsamplingBilinear},
		{"monochrome to rgb", 8, PixelFormatYuv400, RGBFormatRgb, ChromaUpsamplingAutomatic},
		{"monochrome to argb", 10, PixelFormatYuv400, RGBFormatArgb, ChromaUpsamplingAutomatic},
		{"bilinear to argb", 8, PixelFormatYuv420, RGBFormatArgb, ChromaUpsamplingBilinear},
		{"444 to abgr", 8, PixelFormatYuv444, RGBFormatAbgr, ChromaUpsamplingAutomatic},
	}

	for _, tc := range tests {
		img := newTestImage(t, 4, 4, tc.depth, tc.format, false, nil)
		rgb := newTestRGB(t, img, tc.rgb)
		rgb.ChromaUpsampling = tc.up

		err := ConvertToRGB(img, rgb, false)
		if !errors.Is(err, ErrNotImplemented) {
			t.Fatalf("%s: expected ErrNotImplemented, got %v", tc.name, err)
		}

		if Code(err) != ResultNotImplemented {
			t.Fatalf("%s: unexpected code %s", tc.name, Code(err))
		}
	}
}

func TestConvertToRGB_depth(t *testing.T) {
	img := newTestImage(t, 2, 2, 8, PixelFormatYuv444, false, nil)
	rgb := newTestRGB(t, img, RGBFormatRgba)
	rgb.Depth = 16

	if err := ConvertToRGB(img, rgb, false); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}

	rgb.Depth = 8
	img.Depth = 16

	if err := ConvertToRGB(img, rgb, false); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestConvertToRGB_matrix(t *testing.T) {
	img := newTestImage(t, 2, 2, 8, PixelFormatYuv444, false, nil)
	img.MatrixCoefficients = MatrixCoefficientsYCgCo
	rgb := newTestRGB(t, img, RGBFormatRgba)

	if err := ConvertToRGB(img, rgb, false); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestConvertToRGB_invalid(t *testing.T) {
	img := newTestImage(t, 4, 4, 8, PixelFormatYuv420, false, nil)
	rgb := newTestRGB(t, img, RGBFormatRgba)
	rgb.Pixels = rgb.Pixels[:len(rgb.Pixels)-1]

	if err := ConvertToRGB(img, rgb, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	rgb = newTestRGB(t, img, RGBFormatRgba)
	img.SetPlane(PlaneU, BorrowPixels8(make([]uint8, 3)), 2)

	if err := ConvertToRGB(img, rgb, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

type failingBackend struct {
	yuv.Backend
}

func (failingBackend) Convert(yuv.Func, *yuv.Args) int { return 1 }

func TestConvertToRGB_reformatFailed(t *testing.T) {
	img := newTestImage(t, 4, 4, 8, PixelFormatYuv420, false, nil)
	rgb := newTestRGB(t, img, RGBFormatRgba)

	err := ConvertToRGB(img, rgb, false, WithBackend(failingBackend{Backend: GoBackend()}))
	if !errors.Is(err, ErrReformatFailed) {
		t.Fatalf("expected ErrReformatFailed, got %v", err)
	}

	if Code(err) != ResultReformatFailed {
		t.Fatalf("unexpected code %s", Code(err))
	}
}
