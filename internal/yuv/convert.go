package yuv

type sample interface {
	~uint8 | ~uint16
}

// Fits reports whether every view read or written by fn covers the rectangle described
// by a.
func (a *Args) Fits(fn Func) bool {
	info := fn.Info()
	if info.Symbol == "" || a.Constants == nil || a.Width <= 0 || a.Height <= 0 {
		return false
	}

	w, h := a.Width, a.Height
	if !PlaneFits(len(a.Dst), a.DstStride, w*info.Layout.PixelSize(), h) {
		return false
	}

	cw := (w + 1<<info.ShiftX - 1) >> info.ShiftX
	ch := (h + 1<<info.ShiftY - 1) >> info.ShiftY

	fits := func(p Plane, w, h int) bool {
		n := len(p.Pix8)
		if info.Depth > 8 {
			n = len(p.Pix16)
		}

		return PlaneFits(n, p.Stride, w, h)
	}

	if !fits(a.Y, w, h) {
		return false
	}

	if !fn.Monochrome() && (!fits(a.U, cw, ch) || !fits(a.V, cw, ch)) {
		return false
	}

	return !fn.HasAlpha() || fits(a.A, w, h)
}

// convert runs a conversion primitive on the pure-Go path.
func convert(fn Func, a *Args) int {
	if a == nil || !a.Fits(fn) {
		return -1
	}

	info := fn.Info()
	if info.Depth > 8 {
		convertPlanes(fn, info, a, a.Y.Pix16, a.U.Pix16, a.V.Pix16, a.A.Pix16)
	} else {
		convertPlanes(fn, info, a, a.Y.Pix8, a.U.Pix8, a.V.Pix8, a.A.Pix8)
	}

	return 0
}

func convertPlanes[T sample](fn Func, info FuncInfo, a *Args, y, u, v, alpha []T) {
	w, h := a.Width, a.Height
	mono := fn.Monochrome()
	withAlpha := fn.HasAlpha()
	filtered := fn.Filtered() && a.Filter != FilterNone

	parallelRows(h, func(start, end int) {
		var uRow, vRow []uint16
		if !mono {
			uRow = getUint16(w)
			vRow = getUint16(w)
			defer putUint16(uRow)
			defer putUint16(vRow)
		}

		for row := start; row < end; row++ {
			if !mono {
				if filtered {
					upsampleChroma(uRow, u, a.U.Stride, w, h, row, info.ShiftY)
					upsampleChroma(vRow, v, a.V.Stride, w, h, row, info.ShiftY)
				} else {
					nearestChroma(uRow, u[(row>>info.ShiftY)*a.U.Stride:], w, info.ShiftX)
					nearestChroma(vRow, v[(row>>info.ShiftY)*a.V.Stride:], w, info.ShiftX)
				}
			}

			var aRow []T
			if withAlpha {
				aRow = alpha[row*a.A.Stride : row*a.A.Stride+w]
			}

			writeRow(a.Dst[row*a.DstStride:], info, a, y[row*a.Y.Stride:row*a.Y.Stride+w], uRow, vRow, aRow)
		}
	})
}

func writeRow[T sample](dst []byte, info FuncInfo, a *Args, y []T, u, v []uint16, alpha []T) {
	c := a.Constants
	depth := info.Depth

	for x := range y {
		var b, g, r uint8

		y32 := expand(int(y[x]), depth)
		if u == nil {
			b = c.gray(y32)
			g, r = b, b
		} else {
			b, g, r = c.pixel(y32, narrow(int(u[x]), depth), narrow(int(v[x]), depth))
		}

		al := uint8(255)
		if alpha != nil {
			al = uint8(narrow(int(alpha[x]), depth))
			if a.Attenuate {
				b = attenuate(b, al)
				g = attenuate(g, al)
				r = attenuate(r, al)
			}
		}

		switch info.Layout {
		case LayoutARGB:
			p := dst[x*4 : x*4+4]
			p[0], p[1], p[2], p[3] = b, g, r, al
		case LayoutRGBA:
			p := dst[x*4 : x*4+4]
			p[0], p[1], p[2], p[3] = al, b, g, r
		case LayoutRGB24:
			p := dst[x*3 : x*3+3]
			p[0], p[1], p[2] = b, g, r
		case LayoutRGB565:
			px := uint16(b>>3) | uint16(g>>2)<<5 | uint16(r>>3)<<11
			dst[x*2] = byte(px)
			dst[x*2+1] = byte(px >> 8)
		}
	}
}

func attenuate(f, a uint8) uint8 {
	return uint8((int(f)*int(a) + 255) >> 8)
}

func nearestChroma[T sample](dst []uint16, src []T, width, shift int) {
	for x := 0; x < width; x++ {
		dst[x] = uint16(src[x>>shift])
	}
}

// upsampleChroma fills dst with the chroma of luma row y, interpolated 3:1 between
// the nearest and the farther chroma rows and columns.
func upsampleChroma[T sample](dst []uint16, src []T, stride, width, height, y, shiftY int) {
	near, far := y, y
	if shiftY > 0 {
		near, far = chromaRows(y, height)
	}

	up2BilinearRow(dst, src[near*stride:], src[far*stride:], width)
}

// chromaRows returns the two vertically subsampled chroma rows contributing to luma row
// y, the first one with weight 3.
func chromaRows(y, height int) (near, far int) {
	if y == 0 {
		return 0, 0
	}

	if height&1 == 0 && y == height-1 {
		return y / 2, y / 2
	}

	k := (y - 1) / 2
	if y&1 == 1 {
		return k, k + 1
	}

	return k + 1, k
}

// up2BilinearRow doubles the width of a chroma row pair, sa weighted 3 to 1 against sb.
func up2BilinearRow[T, D sample](dst []D, sa, sb []T, width int) {
	dst[0] = D((3*int(sa[0]) + int(sb[0]) + 2) >> 2)

	work := (width - 1) &^ 1
	for x := 1; x <= work; x++ {
		j := (x - 1) / 2
		a0, a1 := int(sa[j]), int(sa[j+1])
		b0, b1 := int(sb[j]), int(sb[j+1])

		if (x-1)&1 == 0 {
			dst[x] = D((9*a0 + 3*a1 + 3*b0 + b1 + 8) >> 4)
		} else {
			dst[x] = D((3*a0 + 9*a1 + b0 + 3*b1 + 8) >> 4)
		}
	}

	k := (width - 1) / 2
	dst[width-1] = D((3*int(sa[k]) + int(sb[k]) + 2) >> 2)
}

// convert16To8Plane narrows samples with dst = clamp255((src*scale) >> 16).
func convert16To8Plane(src []uint16, srcStride int, dst []uint8, dstStride int, scale, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	parallelRows(height, func(start, end int) {
		for y := start; y < end; y++ {
			s := src[y*srcStride : y*srcStride+width]
			d := dst[y*dstStride : y*dstStride+width]

			for x, v := range s {
				d[x] = clamp255((int(v) * scale) >> 16)
			}
		}
	})
}
