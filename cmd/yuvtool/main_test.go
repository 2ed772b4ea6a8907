package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vearutop/reformat"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("320x180")
	if err != nil || w != 320 || h != 180 {
		t.Fatalf("unexpected %d, %d, %v", w, h, err)
	}

	for _, s := range []string{"320", "x180", "0x1", "axb"} {
		if _, _, err := parseSize(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if f, err := parseFormat("NV21"); err != nil || f != reformat.PixelFormatAndroidNv21 {
		t.Fatalf("unexpected %s, %v", f, err)
	}

	if f, err := parseRGBFormat("rgb565"); err != nil || f != reformat.RGBFormatRgb565 {
		t.Fatalf("unexpected %s, %v", f, err)
	}

	if u, err := parseUpsampling("best"); err != nil || u != reformat.ChromaUpsamplingBestQuality {
		t.Fatalf("unexpected %s, %v", u, err)
	}

	if _, err := parseFormat("yuv411"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFramePath(t *testing.T) {
	if got := framePath("out/a.png", 3, 10); got != "out/a_0003.png" {
		t.Fatalf("unexpected %s", got)
	}

	if got := framePath("a.png", 0, 1); got != "a.png" {
		t.Fatalf("unexpected %s", got)
	}

	if got := thumbPath("a.bmp"); got != "a_thumb.png" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestReadWritePlanes(t *testing.T) {
	img := &reformat.Image{Width: 3, Height: 2, Depth: 10, Format: reformat.PixelFormatYuv420}
	if err := img.AllocatePlanes(reformat.CategoryColor); err != nil {
		t.Fatal(err)
	}

	// 3x2 luma and two 2x1 chroma planes of 16-bit samples.
	raw := make([]byte, (6+2+2)*2)
	for i := range raw {
		raw[i] = byte(i)
	}

	if err := readPlanes(bytes.NewReader(raw), img, reformat.CategoryColor); err != nil {
		t.Fatal(err)
	}

	if got := img.Planes[reformat.PlaneU].Uint16()[1]; got != 0x0f0e {
		t.Fatalf("unexpected sample %#x", got)
	}

	var out bytes.Buffer
	if err := writePlanes(&out, img, reformat.CategoryColor); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(raw, out.Bytes()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := readPlanes(bytes.NewReader(raw[:5]), img, reformat.CategoryColor); err == nil {
		t.Fatal("expected short read error")
	}
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv")
	out := filepath.Join(dir, "out.png")

	// Two 4x2 4:2:0 mid-gray frames.
	if err := os.WriteFile(in, bytes.Repeat([]byte{128}, 2*(8+2+2)), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runConvert([]string{
		"-in", in, "-w", "4", "-h", "2", "-format", "420", "-rgb", "bgra",
		"-frames", "2", "-out", out, "-thumb", "2x1",
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"out_0000.png", "out_0001.png", "out_0001_thumb.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}

		img, err := png.Decode(f)
		_ = f.Close()

		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		r, g, b, a := img.At(0, 0).RGBA()
		for _, v := range []uint32{r >> 8, g >> 8, b >> 8} {
			if v < 127 || v > 128 {
				t.Fatalf("%s: unexpected color %d %d %d", name, r>>8, g>>8, b>>8)
			}
		}

		if a>>8 != 255 {
			t.Fatalf("%s: unexpected alpha %d", name, a>>8)
		}
	}
}

func TestRunConvert_unsupported(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv")

	if err := os.WriteFile(in, make([]byte, 4*2*3), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runConvert([]string{"-in", in, "-w", "4", "-h", "2", "-format", "422", "-rgb", "rgb565", "-out", filepath.Join(dir, "o.rgb")})
	if reformat.Code(err) != reformat.ResultNotImplemented {
		t.Fatalf("expected not implemented, got %v", err)
	}
}

func TestRunScale_nv12(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv")
	out := filepath.Join(dir, "out.yuv")

	// 99x49 luma and 100x25 interleaved chroma.
	if err := os.WriteFile(in, bytes.Repeat([]byte{77}, 99*49+100*25), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runScale([]string{"-in", in, "-w", "99", "-h", "49", "-format", "nv12", "-out-w", "49", "-out-h", "24", "-out", out})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if len(data) != 49*24+50*12 {
		t.Fatalf("unexpected output size %d", len(data))
	}

	// Box averages over non power of two areas may round down.
	for i, v := range data {
		if v != 77 && v != 76 {
			t.Fatalf("unexpected sample %d at %d", v, i)
		}
	}
}

func TestRunScale_zero(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv")

	if err := os.WriteFile(in, make([]byte, 4*4*3), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runScale([]string{"-in", in, "-w", "4", "-h", "4", "-format", "444", "-out-w", "0", "-out-h", "2", "-out", filepath.Join(dir, "o.yuv")})
	if reformat.Code(err) != reformat.ResultInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestWriteRGB_unsupportedExtension(t *testing.T) {
	rgb := &reformat.RGBImage{Width: 1, Height: 1, Depth: 8, Format: reformat.RGBFormatRgba}
	if err := rgb.AllocatePixels(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.jpg")

	if err := writeRGB(path, rgb); err == nil {
		t.Fatal("expected error")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no output file expected, got %v", err)
	}
}

func TestNewLogger_verbose(t *testing.T) {
	var buf bytes.Buffer

	_, log := newLogger(true, &buf)
	log.Debug("decoded frame")

	if !strings.Contains(buf.String(), "decoded frame") {
		t.Fatalf("debug message expected, got %q", buf.String())
	}

	buf.Reset()

	_, log = newLogger(false, &buf)
	log.Debug("decoded frame")

	if buf.Len() != 0 {
		t.Fatalf("no output expected, got %q", buf.String())
	}
}

func TestWriteInfo(t *testing.T) {
	var buf bytes.Buffer

	if err := writeInfo(&buf, "go"); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "backend: go") {
		t.Fatalf("unexpected info %q", buf.String())
	}

	if err := writeInfo(&buf, "cuda"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
