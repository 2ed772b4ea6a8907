//go:build (linux || darwin || freebsd) && !android && !ios && (amd64 || arm64)

// Package libyuv binds the conversion and scaling primitives of a system libyuv shared
// library using purego. Primitives the installed library does not export are served by
// the pure-Go backend.
package libyuv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/vearutop/reformat/internal/yuv"
)

// ErrLibraryNotFound is returned when libyuv cannot be located.
var ErrLibraryNotFound = errors.New("libyuv: library not found")

var (
	loadOnce sync.Once
	loaded   *Backend
	loadErr  error
)

type (
	yuv400ToRGB func(y unsafe.Pointer, sy int32, dst unsafe.Pointer, ds int32,
		c uintptr, w, h int32) int32

	yuvToRGB func(y unsafe.Pointer, sy int32, u unsafe.Pointer, su int32, v unsafe.Pointer, sv int32,
		dst unsafe.Pointer, ds int32, c uintptr, w, h int32) int32

	yuvToRGBFilter func(y unsafe.Pointer, sy int32, u unsafe.Pointer, su int32, v unsafe.Pointer, sv int32,
		dst unsafe.Pointer, ds int32, c uintptr, w, h int32, filter int32) int32

	yuvaToRGB func(y unsafe.Pointer, sy int32, u unsafe.Pointer, su int32, v unsafe.Pointer, sv int32,
		a unsafe.Pointer, sa int32, dst unsafe.Pointer, ds int32, c uintptr, w, h int32, attenuate int32) int32

	yuvaToRGBFilter func(y unsafe.Pointer, sy int32, u unsafe.Pointer, su int32, v unsafe.Pointer, sv int32,
		a unsafe.Pointer, sa int32, dst unsafe.Pointer, ds int32, c uintptr, w, h int32,
		attenuate int32, filter int32) int32

	convert16To8Plane func(src unsafe.Pointer, ss int32, dst unsafe.Pointer, ds int32, scale, w, h int32)

	// ScalePlane and ScalePlane_12 return void before libyuv 1880.
	scalePlane func(src unsafe.Pointer, ss, sw, sh int32, dst unsafe.Pointer, ds, dw, dh int32,
		filter int32)

	nv12Scale func(srcY unsafe.Pointer, ssy int32, srcUV unsafe.Pointer, ssuv int32, sw, sh int32,
		dstY unsafe.Pointer, dsy int32, dstUV unsafe.Pointer, dsuv int32, dw, dh int32, filter int32) int32

	p010ToI010 func(srcY unsafe.Pointer, ssy int32, srcUV unsafe.Pointer, ssuv int32,
		dstY unsafe.Pointer, dsy int32, dstU unsafe.Pointer, dsu int32, dstV unsafe.Pointer, dsv int32,
		w, h int32) int32
)

// Backend is a yuv.Backend calling into libyuv.
type Backend struct {
	path     string
	handle   uintptr
	fallback yuv.Backend

	consts  map[string]uintptr
	convert map[yuv.Func]any
	missing []string

	convert16To8Plane convert16To8Plane
	scalePlane        scalePlane
	scalePlane12      scalePlane
	nv12Scale         nv12Scale
	p010ToI010        p010ToI010
}

// Load opens libyuv once per process and binds its primitives.
func Load() (*Backend, error) {
	loadOnce.Do(func() {
		loaded, loadErr = doLoad()
	})

	return loaded, loadErr
}

// Available tells if libyuv was loaded successfully.
func Available() bool {
	b, err := Load()

	return err == nil && b != nil
}

func doLoad() (*Backend, error) {
	handle, path, err := loadLibrary("yuv", []int{0})
	if err != nil {
		return nil, err
	}

	b := &Backend{
		path:     path,
		handle:   handle,
		fallback: yuv.Go(),
		consts:   make(map[string]uintptr),
		convert:  make(map[yuv.Func]any),
	}

	for _, c := range yuv.AllConstants() {
		addr, err := purego.Dlsym(handle, c.Symbol)
		if err != nil || addr == 0 {
			b.missing = append(b.missing, c.Symbol)

			continue
		}

		b.consts[c.Symbol] = addr
	}

	for _, fn := range yuv.Funcs() {
		if bound := b.bindConvert(fn); bound != nil {
			b.convert[fn] = bound
		} else {
			b.missing = append(b.missing, fn.String())
		}
	}

	b.bind(&b.convert16To8Plane, "Convert16To8Plane")
	b.bind(&b.scalePlane, "ScalePlane")
	b.bind(&b.scalePlane12, "ScalePlane_12")
	b.bind(&b.nv12Scale, "NV12Scale")
	b.bind(&b.p010ToI010, "P010ToI010")

	sort.Strings(b.missing)

	return b, nil
}

// bind registers fptr to the named symbol, recording it as missing when absent.
func (b *Backend) bind(fptr any, name string) bool {
	addr, err := purego.Dlsym(b.handle, name)
	if err != nil || addr == 0 {
		b.missing = append(b.missing, name)

		return false
	}

	purego.RegisterFunc(fptr, addr)

	return true
}

func (b *Backend) lookup(name string) uintptr {
	addr, err := purego.Dlsym(b.handle, name)
	if err != nil {
		return 0
	}

	return addr
}

func (b *Backend) bindConvert(fn yuv.Func) any {
	addr := b.lookup(fn.String())
	if addr == 0 {
		return nil
	}

	switch fn.Info().Shape {
	case yuv.ShapeYUV400ToRGB:
		var f yuv400ToRGB
		purego.RegisterFunc(&f, addr)
		return f
	case yuv.ShapeYUVToRGB, yuv.ShapeYUVToRGBHighBitDepth:
		var f yuvToRGB
		purego.RegisterFunc(&f, addr)
		return f
	case yuv.ShapeYUVToRGBFilter, yuv.ShapeYUVToRGBFilterHighBitDepth:
		var f yuvToRGBFilter
		purego.RegisterFunc(&f, addr)
		return f
	case yuv.ShapeYUVAToRGB, yuv.ShapeYUVAToRGBHighBitDepth:
		var f yuvaToRGB
		purego.RegisterFunc(&f, addr)
		return f
	case yuv.ShapeYUVAToRGBFilter, yuv.ShapeYUVAToRGBFilterHighBitDepth:
		var f yuvaToRGBFilter
		purego.RegisterFunc(&f, addr)
		return f
	}

	return nil
}

// Name implements yuv.Backend.
func (b *Backend) Name() string { return "libyuv" }

// Path returns the location libyuv was loaded from.
func (b *Backend) Path() string { return b.path }

// Missing lists symbols served by the pure-Go backend.
func (b *Backend) Missing() []string { return append([]string(nil), b.missing...) }

// Convert implements yuv.Backend.
func (b *Backend) Convert(fn yuv.Func, a *yuv.Args) int {
	if a == nil || !a.Fits(fn) {
		return -1
	}

	bound, ok := b.convert[fn]
	c := b.consts[a.Constants.Symbol]
	if !ok || c == 0 {
		return b.fallback.Convert(fn, a)
	}

	hbd := fn.HighBitDepth()
	y, sy := plane(a.Y, hbd)
	u, su := plane(a.U, hbd)
	v, sv := plane(a.V, hbd)
	al, sa := plane(a.A, hbd)
	dst, ds := unsafe.Pointer(unsafe.SliceData(a.Dst)), int32(a.DstStride)
	w, h := int32(a.Width), int32(a.Height)
	filter := int32(a.Filter)
	attenuate := int32(0)
	if a.Attenuate {
		attenuate = 1
	}

	defer runtime.KeepAlive(a)

	switch f := bound.(type) {
	case yuv400ToRGB:
		return int(f(y, sy, dst, ds, c, w, h))
	case yuvToRGB:
		return int(f(y, sy, u, su, v, sv, dst, ds, c, w, h))
	case yuvToRGBFilter:
		return int(f(y, sy, u, su, v, sv, dst, ds, c, w, h, filter))
	case yuvaToRGB:
		return int(f(y, sy, u, su, v, sv, al, sa, dst, ds, c, w, h, attenuate))
	case yuvaToRGBFilter:
		return int(f(y, sy, u, su, v, sv, al, sa, dst, ds, c, w, h, attenuate, filter))
	}

	return b.fallback.Convert(fn, a)
}

func plane(p yuv.Plane, hbd bool) (unsafe.Pointer, int32) {
	if hbd {
		return unsafe.Pointer(unsafe.SliceData(p.Pix16)), int32(p.Stride)
	}

	return unsafe.Pointer(unsafe.SliceData(p.Pix8)), int32(p.Stride)
}

// Convert16To8Plane implements yuv.Backend.
func (b *Backend) Convert16To8Plane(src []uint16, srcStride int, dst []uint8, dstStride int, scale, width, height int) {
	if b.convert16To8Plane == nil || !yuv.PlaneFits(len(src), srcStride, width, height) ||
		!yuv.PlaneFits(len(dst), dstStride, width, height) || width <= 0 || height <= 0 {
		b.fallback.Convert16To8Plane(src, srcStride, dst, dstStride, scale, width, height)

		return
	}

	b.convert16To8Plane(unsafe.Pointer(unsafe.SliceData(src)), int32(srcStride),
		unsafe.Pointer(unsafe.SliceData(dst)), int32(dstStride), int32(scale), int32(width), int32(height))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)
}

// ScalePlane implements yuv.Backend. The status reflects argument checks only.
func (b *Backend) ScalePlane(src []uint8, srcStride, srcWidth, srcHeight int,
	dst []uint8, dstStride, dstWidth, dstHeight int, filter yuv.FilterMode,
) int {
	if b.scalePlane == nil || !scaleFits(len(src), srcStride, srcWidth, srcHeight, len(dst), dstStride, dstWidth, dstHeight) {
		return b.fallback.ScalePlane(src, srcStride, srcWidth, srcHeight, dst, dstStride, dstWidth, dstHeight, filter)
	}

	b.scalePlane(unsafe.Pointer(unsafe.SliceData(src)), int32(srcStride), int32(srcWidth), int32(srcHeight),
		unsafe.Pointer(unsafe.SliceData(dst)), int32(dstStride), int32(dstWidth), int32(dstHeight), int32(filter))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	return 0
}

// ScalePlane12 implements yuv.Backend. The status reflects argument checks only.
func (b *Backend) ScalePlane12(src []uint16, srcStride, srcWidth, srcHeight int,
	dst []uint16, dstStride, dstWidth, dstHeight int, filter yuv.FilterMode,
) int {
	if b.scalePlane12 == nil || !scaleFits(len(src), srcStride, srcWidth, srcHeight, len(dst), dstStride, dstWidth, dstHeight) {
		return b.fallback.ScalePlane12(src, srcStride, srcWidth, srcHeight, dst, dstStride, dstWidth, dstHeight, filter)
	}

	b.scalePlane12(unsafe.Pointer(unsafe.SliceData(src)), int32(srcStride), int32(srcWidth), int32(srcHeight),
		unsafe.Pointer(unsafe.SliceData(dst)), int32(dstStride), int32(dstWidth), int32(dstHeight), int32(filter))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	return 0
}

func scaleFits(srcLen, srcStride, srcWidth, srcHeight, dstLen, dstStride, dstWidth, dstHeight int) bool {
	return srcWidth > 0 && srcHeight > 0 && dstWidth > 0 && dstHeight > 0 &&
		yuv.PlaneFits(srcLen, srcStride, srcWidth, srcHeight) &&
		yuv.PlaneFits(dstLen, dstStride, dstWidth, dstHeight)
}

// NV12Scale implements yuv.Backend.
func (b *Backend) NV12Scale(srcY []uint8, srcStrideY int, srcUV []uint8, srcStrideUV int, srcWidth, srcHeight int,
	dstY []uint8, dstStrideY int, dstUV []uint8, dstStrideUV int, dstWidth, dstHeight int,
	filter yuv.FilterMode,
) int {
	srcHalfW, srcHalfH := (srcWidth+1)>>1, (srcHeight+1)>>1
	dstHalfW, dstHalfH := (dstWidth+1)>>1, (dstHeight+1)>>1

	if b.nv12Scale == nil ||
		!scaleFits(len(srcY), srcStrideY, srcWidth, srcHeight, len(dstY), dstStrideY, dstWidth, dstHeight) ||
		!scaleFits(len(srcUV), srcStrideUV, srcHalfW*2, srcHalfH, len(dstUV), dstStrideUV, dstHalfW*2, dstHalfH) {
		return b.fallback.NV12Scale(srcY, srcStrideY, srcUV, srcStrideUV, srcWidth, srcHeight,
			dstY, dstStrideY, dstUV, dstStrideUV, dstWidth, dstHeight, filter)
	}

	r := b.nv12Scale(unsafe.Pointer(unsafe.SliceData(srcY)), int32(srcStrideY),
		unsafe.Pointer(unsafe.SliceData(srcUV)), int32(srcStrideUV), int32(srcWidth), int32(srcHeight),
		unsafe.Pointer(unsafe.SliceData(dstY)), int32(dstStrideY),
		unsafe.Pointer(unsafe.SliceData(dstUV)), int32(dstStrideUV), int32(dstWidth), int32(dstHeight),
		int32(filter))
	runtime.KeepAlive(srcY)
	runtime.KeepAlive(srcUV)
	runtime.KeepAlive(dstY)
	runtime.KeepAlive(dstUV)

	return int(r)
}

// P010ToI010 implements yuv.Backend.
func (b *Backend) P010ToI010(srcY []uint16, srcStrideY int, srcUV []uint16, srcStrideUV int,
	dstY []uint16, dstStrideY int, dstU []uint16, dstStrideU int, dstV []uint16, dstStrideV int,
	width, height int,
) int {
	halfW, halfH := (width+1)>>1, (height+1)>>1

	if b.p010ToI010 == nil || width <= 0 || height <= 0 ||
		!yuv.PlaneFits(len(srcY), srcStrideY, width, height) || !yuv.PlaneFits(len(dstY), dstStrideY, width, height) ||
		!yuv.PlaneFits(len(srcUV), srcStrideUV, halfW*2, halfH) ||
		!yuv.PlaneFits(len(dstU), dstStrideU, halfW, halfH) || !yuv.PlaneFits(len(dstV), dstStrideV, halfW, halfH) {
		return b.fallback.P010ToI010(srcY, srcStrideY, srcUV, srcStrideUV, dstY, dstStrideY,
			dstU, dstStrideU, dstV, dstStrideV, width, height)
	}

	r := b.p010ToI010(unsafe.Pointer(unsafe.SliceData(srcY)), int32(srcStrideY),
		unsafe.Pointer(unsafe.SliceData(srcUV)), int32(srcStrideUV),
		unsafe.Pointer(unsafe.SliceData(dstY)), int32(dstStrideY),
		unsafe.Pointer(unsafe.SliceData(dstU)), int32(dstStrideU),
		unsafe.Pointer(unsafe.SliceData(dstV)), int32(dstStrideV),
		int32(width), int32(height))
	runtime.KeepAlive(srcY)
	runtime.KeepAlive(srcUV)
	runtime.KeepAlive(dstY)
	runtime.KeepAlive(dstU)
	runtime.KeepAlive(dstV)

	return int(r)
}

// loadLibrary tries versioned names in every search path, then lets the dynamic loader
// resolve them.
func loadLibrary(name string, versions []int) (uintptr, string, error) {
	names := libraryNames(name, versions)

	for _, searchPath := range LibrarySearchPaths() {
		for _, libName := range names {
			fullPath := filepath.Join(searchPath, libName)

			if lib, err := tryOpen(fullPath); err == nil {
				return lib, fullPath, nil
			}
		}
	}

	for _, libName := range names {
		if lib, err := tryOpen(libName); err == nil {
			return lib, libName, nil
		}
	}

	return 0, "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

// FindLibrary returns the path of the first libyuv found in search paths.
func FindLibrary() (string, error) {
	names := libraryNames("yuv", []int{0})

	for _, searchPath := range LibrarySearchPaths() {
		for _, libName := range names {
			fullPath := filepath.Join(searchPath, libName)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}

	return "", fmt.Errorf("%w: yuv", ErrLibraryNotFound)
}

// libraryNames returns platform file names, versioned ones first.
func libraryNames(name string, versions []int) []string {
	var names []string

	switch runtime.GOOS {
	case "darwin":
		for _, v := range versions {
			names = append(names, fmt.Sprintf("lib%s.%d.dylib", name, v))
		}

		names = append(names, "lib"+name+".dylib")
	default:
		for _, v := range versions {
			names = append(names, fmt.Sprintf("lib%s.so.%d", name, v))
		}

		names = append(names, "lib"+name+".so")
	}

	return names
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux", "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}

		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib64",
			"/usr/lib",
		)
	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}

		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
			"/opt/homebrew/opt/libyuv/lib",
		)
	}

	return paths
}
