package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pion/logging"
	"github.com/vearutop/reformat"
	"github.com/vearutop/reformat/internal/libyuv"
	"github.com/vearutop/reformat/internal/yuv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "convert":
		if err := runConvert(os.Args[2:]); err != nil {
			fail(err)
		}
	case "scale":
		if err := runScale(os.Args[2:]); err != nil {
			fail(err)
		}
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: yuvtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  convert -in frame.yuv -w 1920 -h 1080 -out out.png [-format 420] [-depth 8] [-range full] [-matrix 1] [-primaries 1]")
	fmt.Fprintln(os.Stderr, "          [-rgb rgba] [-upsampling automatic] [-alpha a.yuv] [-premultiply] [-frames 1] [-backend go] [-thumb 320x180]")
	fmt.Fprintln(os.Stderr, "  scale   -in frame.yuv -w 1920 -h 1080 -out-w 960 -out-h 540 -out out.yuv [-format 420] [-depth 8]")
	fmt.Fprintln(os.Stderr, "          [-alpha a.yuv -alpha-out a_scaled.yuv] [-backend go]")
	fmt.Fprintln(os.Stderr, "  info    [-backend auto|go|libyuv]")
	fmt.Fprintln(os.Stderr, "Formats: 444, 422, 420, 400, nv12, nv21, p010. Outputs: .png, .bmp, .tif, .rgb.")
}

// frameFlags are the flags describing raw input frames.
type frameFlags struct {
	in        *string
	width     *int
	height    *int
	format    *string
	depth     *int
	yuvRange  *string
	matrix    *uint
	primaries *uint
	backend   *string
	verbose   *bool
}

func addFrameFlags(fs *flag.FlagSet) frameFlags {
	return frameFlags{
		in:        fs.String("in", "", "input raw YUV frames"),
		width:     fs.Int("w", 0, "frame width"),
		height:    fs.Int("h", 0, "frame height"),
		format:    fs.String("format", "420", "pixel format: 444, 422, 420, 400, nv12, nv21, p010"),
		depth:     fs.Int("depth", 8, "sample depth: 8, 10, 12"),
		yuvRange:  fs.String("range", "full", "YUV range: full, limited"),
		matrix:    fs.Uint("matrix", uint(reformat.MatrixCoefficientsBT601), "matrix coefficients code"),
		primaries: fs.Uint("primaries", uint(reformat.ColorPrimariesUnspecified), "color primaries code"),
		backend:   fs.String("backend", "go", "primitive backend: go, libyuv, auto"),
		verbose:   fs.Bool("v", false, "debug logging"),
	}
}

func (f frameFlags) image() (*reformat.Image, error) {
	if *f.in == "" || *f.width <= 0 || *f.height <= 0 {
		return nil, errors.New("missing required arguments")
	}

	format, err := parseFormat(*f.format)
	if err != nil {
		return nil, err
	}

	depth := *f.depth
	if format == reformat.PixelFormatAndroidP010 {
		depth = 10
	}

	img := &reformat.Image{
		Width:  *f.width,
		Height: *f.height,
		Depth:  depth,
		Format: format,
		Nclx:   reformat.DefaultNclx(),
	}

	img.MatrixCoefficients = reformat.MatrixCoefficientsFrom(uint16(*f.matrix))
	img.ColorPrimaries = reformat.ColorPrimariesFrom(uint16(*f.primaries))

	switch *f.yuvRange {
	case "full":
		img.YUVRange = reformat.YUVRangeFull
	case "limited":
		img.YUVRange = reformat.YUVRangeLimited
	default:
		return nil, fmt.Errorf("unknown range %q", *f.yuvRange)
	}

	return img, nil
}

// newLogger returns the CLI logger and the factory passed on to the engine, w replaces
// the default output when not nil.
func newLogger(verbose bool, w io.Writer) (*logging.DefaultLoggerFactory, logging.LeveledLogger) {
	factory := logging.NewDefaultLoggerFactory()
	if verbose {
		factory.DefaultLogLevel = logging.LogLevelDebug
	}

	if w != nil {
		factory.Writer = w
	}

	return factory, factory.NewLogger("yuvtool")
}

func (f frameFlags) options(log logging.LeveledLogger, factory *logging.DefaultLoggerFactory) ([]func(o *reformat.Options), error) {
	backend, err := selectBackend(*f.backend, log)
	if err != nil {
		return nil, err
	}

	return []func(o *reformat.Options){
		reformat.WithBackend(backend),
		reformat.WithLoggerFactory(factory),
	}, nil
}

func selectBackend(name string, log logging.LeveledLogger) (reformat.Backend, error) {
	switch name {
	case "go":
		return reformat.GoBackend(), nil
	case "libyuv":
		return reformat.LoadLibYUV()
	case "auto":
		b, err := reformat.LoadLibYUV()
		if err != nil {
			log.Infof("using go backend: %v", err)

			return reformat.GoBackend(), nil
		}

		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	ff := addFrameFlags(fs)
	outPath := fs.String("out", "", "output image: .png, .bmp, .tif or .rgb")
	rgbFormat := fs.String("rgb", "rgba", "RGB layout: rgb, bgr, rgba, bgra, argb, abgr, rgb565")
	upsampling := fs.String("upsampling", "automatic", "chroma upsampling: automatic, fastest, best, nearest, bilinear")
	alphaPath := fs.String("alpha", "", "input raw alpha planes")
	premultiply := fs.Bool("premultiply", false, "premultiply color by alpha")
	frames := fs.Int("frames", 1, "number of frames in input")
	workers := fs.Int("workers", 0, "row workers per frame, 0 for GOMAXPROCS")
	thumb := fs.String("thumb", "", "also write a WxH preview next to the output")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" || *frames <= 0 {
		return errors.New("missing required arguments")
	}

	factory, log := newLogger(*ff.verbose, nil)

	opts, err := ff.options(log, factory)
	if err != nil {
		return err
	}

	yuv.MaxWorkers = *workers

	layout, err := parseRGBFormat(*rgbFormat)
	if err != nil {
		return err
	}

	up, err := parseUpsampling(*upsampling)
	if err != nil {
		return err
	}

	var thumbW, thumbH int
	if *thumb != "" {
		if thumbW, thumbH, err = parseSize(*thumb); err != nil {
			return err
		}
	}

	images := make([]*reformat.Image, 0, *frames)

	if err := readFrames(*ff.in, *frames, func(r io.Reader) error {
		img, err := ff.image()
		if err != nil {
			return err
		}

		if err := img.AllocatePlanes(reformat.CategoryColor); err != nil {
			return err
		}

		if err := readPlanes(r, img, reformat.CategoryColor); err != nil {
			return err
		}

		images = append(images, img)

		return nil
	}); err != nil {
		return err
	}

	if *alphaPath != "" {
		i := 0
		if err := readFrames(*alphaPath, *frames, func(r io.Reader) error {
			img := images[i]
			i++

			if err := img.AllocatePlanes(reformat.CategoryAlpha); err != nil {
				return err
			}

			return readPlanes(r, img, reformat.CategoryAlpha)
		}); err != nil {
			return err
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, img := range images {
		i, img := i, img
		out := framePath(*outPath, i, len(images))

		g.Go(func() error {
			rgb := reformat.NewRGBImage(img)
			rgb.Format = layout
			rgb.ChromaUpsampling = up
			rgb.PremultiplyAlpha = *premultiply

			if err := rgb.AllocatePixels(); err != nil {
				return err
			}

			if err := reformat.ConvertToRGB(img, rgb, *alphaPath != "", opts...); err != nil {
				return fmt.Errorf("frame %d: %w (code %s)", i, err, reformat.Code(err))
			}

			if err := writeRGB(out, rgb); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}

			if thumbW > 0 {
				if err := writeThumbnail(thumbPath(out), rgb, thumbW, thumbH); err != nil {
					return fmt.Errorf("frame %d thumbnail: %w", i, err)
				}
			}

			log.Debugf("frame %d written to %s", i, out)

			return nil
		})
	}

	return g.Wait()
}

func runScale(args []string) error {
	fs := flag.NewFlagSet("scale", flag.ContinueOnError)
	ff := addFrameFlags(fs)
	outPath := fs.String("out", "", "output raw YUV frame")
	outW := fs.Int("out-w", 0, "target width")
	outH := fs.Int("out-h", 0, "target height")
	alphaPath := fs.String("alpha", "", "input raw alpha plane")
	alphaOut := fs.String("alpha-out", "", "output raw alpha plane")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" || (*alphaPath == "") != (*alphaOut == "") {
		return errors.New("missing required arguments")
	}

	factory, log := newLogger(*ff.verbose, nil)

	opts, err := ff.options(log, factory)
	if err != nil {
		return err
	}

	img, err := ff.image()
	if err != nil {
		return err
	}

	if err := img.AllocatePlanes(reformat.CategoryColor); err != nil {
		return err
	}

	if err := readFrames(*ff.in, 1, func(r io.Reader) error {
		return readPlanes(r, img, reformat.CategoryColor)
	}); err != nil {
		return err
	}

	if *alphaPath != "" {
		alpha := *img

		if err := alpha.AllocatePlanes(reformat.CategoryAlpha); err != nil {
			return err
		}

		if err := readFrames(*alphaPath, 1, func(r io.Reader) error {
			return readPlanes(r, &alpha, reformat.CategoryAlpha)
		}); err != nil {
			return err
		}

		if err := alpha.Scale(*outW, *outH, reformat.CategoryAlpha, opts...); err != nil {
			return fmt.Errorf("scale alpha: %w (code %s)", err, reformat.Code(err))
		}

		if err := writeFrame(*alphaOut, &alpha, reformat.CategoryAlpha); err != nil {
			return err
		}
	}

	if err := img.Scale(*outW, *outH, reformat.CategoryColor, opts...); err != nil {
		return fmt.Errorf("scale: %w (code %s)", err, reformat.Code(err))
	}

	log.Infof("scaled to %dx%d %s %d-bit", img.Width, img.Height, img.Format, img.Depth)

	return writeFrame(*outPath, img, reformat.CategoryColor)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	backend := fs.String("backend", "auto", "backend to report: go, libyuv, auto")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return writeInfo(os.Stdout, *backend)
}

func writeInfo(out io.Writer, backend string) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	switch backend {
	case "go", "libyuv", "auto":
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	fmt.Fprintf(w, "platform: %s/%s, %d CPUs\n", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	fmt.Fprintf(w, "cpu features: %s\n", strings.Join(cpuFeatures(), " "))

	if backend == "go" {
		fmt.Fprintf(w, "backend: %s\n", reformat.GoBackend().Name())

		return nil
	}

	b, err := libyuv.Load()
	if err != nil {
		if backend == "libyuv" {
			return fmt.Errorf("load libyuv: %w", err)
		}

		paths := libyuv.LibrarySearchPaths()
		fmt.Fprintf(w, "libyuv: unavailable (%v), searched %s\n", err, strings.Join(paths, string(filepath.ListSeparator)))

		return nil
	}

	fmt.Fprintf(w, "libyuv: %s\n", b.Path())

	if missing := b.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "libyuv missing symbols, served by go backend: %s\n", strings.Join(missing, " "))
	}

	return nil
}

func cpuFeatures() []string {
	var res []string

	add := func(name string, ok bool) {
		if ok {
			res = append(res, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add("sse2", cpu.X86.HasSSE2)
		add("ssse3", cpu.X86.HasSSSE3)
		add("sse4.1", cpu.X86.HasSSE41)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("avx512f", cpu.X86.HasAVX512F)
		add("avx512bw", cpu.X86.HasAVX512BW)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("asimddp", cpu.ARM64.HasASIMDDP)
		add("sve", cpu.ARM64.HasSVE)
	}

	if len(res) == 0 {
		res = append(res, "none")
	}

	return res
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
