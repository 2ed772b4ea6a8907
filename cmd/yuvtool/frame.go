package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/vearutop/reformat"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func parseFormat(s string) (reformat.PixelFormat, error) {
	switch strings.ToLower(s) {
	case "444", "yuv444":
		return reformat.PixelFormatYuv444, nil
	case "422", "yuv422":
		return reformat.PixelFormatYuv422, nil
	case "420", "yuv420":
		return reformat.PixelFormatYuv420, nil
	case "400", "yuv400", "gray":
		return reformat.PixelFormatYuv400, nil
	case "nv12":
		return reformat.PixelFormatAndroidNv12, nil
	case "nv21":
		return reformat.PixelFormatAndroidNv21, nil
	case "p010":
		return reformat.PixelFormatAndroidP010, nil
	default:
		return reformat.PixelFormatNone, fmt.Errorf("unknown pixel format %q", s)
	}
}

func parseRGBFormat(s string) (reformat.RGBFormat, error) {
	for f := reformat.RGBFormatRgb; f <= reformat.RGBFormatRgb565; f++ {
		if f.String() == strings.ToLower(s) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown RGB format %q", s)
}

func parseUpsampling(s string) (reformat.ChromaUpsampling, error) {
	for u := reformat.ChromaUpsamplingAutomatic; u <= reformat.ChromaUpsamplingBilinear; u++ {
		if u.String() == strings.ToLower(s) {
			return u, nil
		}
	}

	return 0, fmt.Errorf("unknown chroma upsampling %q", s)
}

// parseSize parses WxH.
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, WxH expected", s)
	}

	if w, err = strconv.Atoi(ws); err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}

	if h, err = strconv.Atoi(hs); err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}

	return w, h, nil
}

// readFrames calls fn for each of n consecutive frames of the file.
func readFrames(path string, n int, fn func(r io.Reader) error) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	for i := 0; i < n; i++ {
		if err := fn(r); err != nil {
			return fmt.Errorf("%s frame %d: %w", path, i, err)
		}
	}

	return nil
}

// readPlanes fills allocated planes of the category row by row, 16-bit samples are
// little-endian.
func readPlanes(r io.Reader, img *reformat.Image, category reformat.Category) error {
	for _, p := range category.Planes() {
		pd, ok := img.PlaneData(p)
		if !ok {
			continue
		}

		row := make([]byte, pd.Width*pd.PixelSize)

		for y := 0; y < pd.Height; y++ {
			if _, err := io.ReadFull(r, row); err != nil {
				return fmt.Errorf("read %s plane row %d: %w", p, y, err)
			}

			if pd.PixelSize == 2 {
				dst := pd.Pixels.Uint16()[y*pd.Stride():]
				for x := 0; x < pd.Width; x++ {
					dst[x] = binary.LittleEndian.Uint16(row[2*x:])
				}
			} else {
				copy(pd.Pixels.Uint8()[y*pd.Stride():], row)
			}
		}
	}

	return nil
}

// writePlanes is the inverse of readPlanes.
func writePlanes(w io.Writer, img *reformat.Image, category reformat.Category) error {
	for _, p := range category.Planes() {
		pd, ok := img.PlaneData(p)
		if !ok {
			continue
		}

		row := make([]byte, pd.Width*pd.PixelSize)

		for y := 0; y < pd.Height; y++ {
			if pd.PixelSize == 2 {
				src := pd.Pixels.Uint16()[y*pd.Stride():]
				for x := 0; x < pd.Width; x++ {
					binary.LittleEndian.PutUint16(row[2*x:], src[x])
				}
			} else {
				copy(row, pd.Pixels.Uint8()[y*pd.Stride():])
			}

			if _, err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeFrame(path string, img *reformat.Image, category reformat.Category) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	if err := writePlanes(w, img, category); err != nil {
		_ = f.Close()

		return err
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// framePath numbers output files when there are several frames.
func framePath(path string, i, n int) string {
	if n <= 1 {
		return path
	}

	ext := filepath.Ext(path)

	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), i, ext)
}

func thumbPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.png"
}

// writeRGB encodes pixels by output file extension, .rgb writes them as is.
func writeRGB(path string, rgb *reformat.RGBImage) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".rgb", ".raw":
		return os.WriteFile(filepath.Clean(path), rgb.Pixels, 0o644)
	case ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported output extension %q", ext)
	}

	img, err := rgb.ToImage()
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}

	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

func writeThumbnail(path string, rgb *reformat.RGBImage, w, h int) error {
	img, err := rgb.ToImage()
	if err != nil {
		return err
	}

	thumb := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	if err := png.Encode(f, thumb); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
