package reformat

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestRGBImage_AllocatePixels(t *testing.T) {
	for f, size := range map[RGBFormat]int{
		RGBFormatRgb: 3, RGBFormatBgr: 3, RGBFormatRgba: 4, RGBFormatArgb: 4, RGBFormatAbgr: 4, RGBFormatRgb565: 2,
	} {
		rgb := &RGBImage{Width: 5, Height: 2, Depth: 8, Format: f}
		if err := rgb.AllocatePixels(); err != nil {
			t.Fatal(err)
		}

		if rgb.RowBytes != 5*size || len(rgb.Pixels) != 10*size {
			t.Fatalf("%s: %d row bytes, %d bytes", f, rgb.RowBytes, len(rgb.Pixels))
		}
	}

	rgb := &RGBImage{Width: 0, Height: 2, Depth: 8}
	if err := rgb.AllocatePixels(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRGBImage_ToImage(t *testing.T) {
	rgb := &RGBImage{Width: 2, Height: 1, Depth: 8, Format: RGBFormatArgb, RowBytes: 8}
	rgb.Pixels = []byte{128, 10, 20, 30, 255, 1, 2, 3}

	img, err := rgb.ToImage()
	if err != nil {
		t.Fatal(err)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("unexpected %T", img)
	}

	if c := nrgba.NRGBAAt(0, 0); c != (color.NRGBA{R: 10, G: 20, B: 30, A: 128}) {
		t.Fatalf("unexpected color %v", c)
	}

	rgb.PremultiplyAlpha = true

	img, err = rgb.ToImage()
	if err != nil {
		t.Fatal(err)
	}

	if c := img.(*image.RGBA).RGBAAt(1, 0); c != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("unexpected color %v", c)
	}
}

func TestRGBImage_ToImage_rgb565(t *testing.T) {
	rgb := &RGBImage{Width: 2, Height: 1, Depth: 8, Format: RGBFormatRgb565, RowBytes: 4}
	rgb.Pixels = []byte{0x00, 0xf8, 0x1f, 0x00}

	img, err := rgb.ToImage()
	if err != nil {
		t.Fatal(err)
	}

	n := img.(*image.NRGBA)

	if c := n.NRGBAAt(0, 0); c != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("unexpected color %v", c)
	}

	if c := n.NRGBAAt(1, 0); c != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("unexpected color %v", c)
	}

	rgb.Pixels = rgb.Pixels[:3]
	if _, err := rgb.ToImage(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
