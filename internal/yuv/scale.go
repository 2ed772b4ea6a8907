package yuv

// Plane scaling in 16.16 fixed point, following libyuv's ScalePlane paths so that the
// pure-Go backend and the native one produce the same samples.

const maxScaleDimension = 32768

func fixedDiv(num, div int) int {
	return int((int64(num) << 16) / int64(div))
}

// fixedDiv1 maps the first and last samples of both axes onto each other.
func fixedDiv1(num, div int) int {
	return int(((int64(num) << 16) - 0x00010001) / int64(div-1))
}

func centerStart(dx, s int) int {
	if dx < 0 {
		return -((-dx >> 1) + s)
	}

	return (dx >> 1) + s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// reduceFilter picks the cheapest filter producing the same result.
func reduceFilter(srcW, srcH, dstW, dstH int, f FilterMode) FilterMode {
	srcW, srcH = abs(srcW), abs(srcH)
	dstW, dstH = abs(dstW), abs(dstH)

	if f == FilterBox {
		// Box is used only when scaling down by more than 2x on an axis.
		if dstW*2 >= srcW || dstH*2 >= srcH {
			f = FilterBilinear
		}
	}

	if f == FilterBilinear {
		if srcH == 1 {
			f = FilterLinear
		}

		// Only the horizontal axis needs filtering.
		if dstH == srcH || dstH*3 == srcH {
			f = FilterLinear
		}

		if srcW == 1 {
			f = FilterNone
		}
	}

	if f == FilterLinear {
		if srcW == 1 {
			f = FilterNone
		}

		if dstW == srcW || dstW*3 == srcW {
			f = FilterNone
		}
	}

	return f
}

// slope returns the 16.16 start positions and steps of both axes.
func slope(srcW, srcH, dstW, dstH int, f FilterMode) (x, y, dx, dy int) {
	if dstW == 1 && srcW >= maxScaleDimension {
		dstW = srcW
	}

	if dstH == 1 && srcH >= maxScaleDimension {
		dstH = srcH
	}

	switch f {
	case FilterBox:
		dx = fixedDiv(abs(srcW), dstW)
		dy = fixedDiv(srcH, dstH)
	case FilterBilinear, FilterLinear:
		if dstW <= abs(srcW) {
			dx = fixedDiv(abs(srcW), dstW)
			x = centerStart(dx, -32768)
		} else if srcW > 1 && dstW > 1 {
			dx = fixedDiv1(abs(srcW), dstW)
		}

		if f == FilterLinear {
			dy = fixedDiv(srcH, dstH)
			y = dy >> 1

			break
		}

		if dstH <= srcH {
			dy = fixedDiv(srcH, dstH)
			y = centerStart(dy, -32768)
		} else if srcH > 1 && dstH > 1 {
			dy = fixedDiv1(srcH, dstH)
		}
	default:
		dx = fixedDiv(abs(srcW), dstW)
		dy = fixedDiv(srcH, dstH)
		x = centerStart(dx, 0)
		y = centerStart(dy, 0)
	}

	return x, y, dx, dy
}

type planeView[T sample] struct {
	pix    []T
	stride int
}

func (p planeView[T]) row(y, width int) []T {
	return p.pix[y*p.stride : y*p.stride+width]
}

// scalePlane resamples a plane with the given filter, returning a libyuv-style status.
func scalePlane[T sample](srcPix []T, srcStride, srcW, srcH int,
	dstPix []T, dstStride, dstW, dstH int, f FilterMode,
) int {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 ||
		srcW > maxScaleDimension || srcH > maxScaleDimension {
		return -1
	}

	if !PlaneFits(len(srcPix), srcStride, srcW, srcH) || !PlaneFits(len(dstPix), dstStride, dstW, dstH) {
		return -1
	}

	src := planeView[T]{pix: srcPix, stride: srcStride}
	dst := planeView[T]{pix: dstPix, stride: dstStride}

	f = reduceFilter(srcW, srcH, dstW, dstH, f)

	switch {
	case dstW == srcW && dstH == srcH:
		copyPlane(src, dst, srcW, srcH)
	case dstW == srcW && f != FilterBox:
		scaleVertical(src, dst, srcH, dstW, dstH, f)
	case dstW*4 == srcW*3 && dstH*4 == srcH*3:
		scaleDown34(src, dst, srcW, dstW, dstH, f)
	case dstW*2 == srcW && dstH*2 == srcH:
		scaleDown2(src, dst, dstW, dstH, f)
	case dstW*8 == srcW*3 && dstH == (srcH*3+7)/8:
		scaleDown38(src, dst, srcW, srcH, dstW, dstH, f)
	case dstW*4 == srcW && dstH*4 == srcH && (f == FilterBox || f == FilterNone):
		scaleDown4(src, dst, dstW, dstH, f)
	case f == FilterBox && dstH*2 < srcH:
		scaleBox(src, dst, srcW, srcH, dstW, dstH)
	case (dstW+1)/2 == srcW && f == FilterLinear:
		scaleUp2Linear(src, dst, srcW, srcH, dstW, dstH)
	case (dstH+1)/2 == srcH && (dstW+1)/2 == srcW && (f == FilterBilinear || f == FilterBox):
		scaleUp2Bilinear(src, dst, srcW, srcH, dstW, dstH)
	case f != FilterNone && dstH > srcH:
		scaleBilinearUp(src, dst, srcW, srcH, dstW, dstH, f)
	case f != FilterNone:
		scaleBilinearDown(src, dst, srcW, srcH, dstW, dstH, f)
	default:
		scaleSimple(src, dst, srcW, srcH, dstW, dstH)
	}

	return 0
}

func copyPlane[T sample](src, dst planeView[T], width, height int) {
	for y := 0; y < height; y++ {
		copy(dst.row(y, width), src.row(y, width))
	}
}

// interpolateRow blends two rows, f is the weight of r1 in 1/256.
func interpolateRow[T sample](dst, r0, r1 []T, width, f int) {
	if f == 0 {
		copy(dst[:width], r0[:width])
		return
	}

	f0 := 256 - f
	for x := 0; x < width; x++ {
		dst[x] = T((int(r0[x])*f0 + int(r1[x])*f + 128) >> 8)
	}
}

func scaleVertical[T sample](src, dst planeView[T], srcH, width, dstH int, f FilterMode) {
	var y, dy int

	if dstH <= srcH {
		dy = fixedDiv(srcH, dstH)
		y = centerStart(dy, -32768)
	} else if srcH > 1 && dstH > 1 {
		dy = fixedDiv1(srcH, dstH)
	}

	maxY := 0
	if srcH > 1 {
		maxY = ((srcH - 1) << 16) - 1
	}

	for j := 0; j < dstH; j++ {
		if y > maxY {
			y = maxY
		}

		yi := y >> 16
		if yi < 0 {
			yi = 0
		}

		yf := 0
		if f != FilterNone {
			yf = (y >> 8) & 255
		}

		interpolateRow(dst.row(j, width), src.row(yi, width), src.row(min(yi+1, srcH-1), width), width, yf)

		y += dy
	}
}

func scaleDown2[T sample](src, dst planeView[T], dstW, dstH int, f FilterMode) {
	srcW := dstW * 2

	for j := 0; j < dstH; j++ {
		r0 := src.row(2*j, srcW)
		r1 := src.row(2*j+1, srcW)
		d := dst.row(j, dstW)

		switch f {
		case FilterNone:
			for x := range d {
				d[x] = r1[2*x+1]
			}
		case FilterLinear:
			for x := range d {
				d[x] = T((int(r0[2*x]) + int(r0[2*x+1]) + 1) >> 1)
			}
		default:
			for x := range d {
				d[x] = T((int(r0[2*x]) + int(r0[2*x+1]) + int(r1[2*x]) + int(r1[2*x+1]) + 2) >> 2)
			}
		}
	}
}

// scaleDown34 maps every 4 source rows and columns onto 3, blending rows 3:1, 1:1 and
// 1:3 unless f is FilterNone.
func scaleDown34[T sample](src, dst planeView[T], srcW, dstW, dstH int, f FilterMode) {
	emit := func(j, sy, ty int, even bool) {
		d, s := dst.row(j, dstW), src.row(sy, srcW)

		switch f {
		case FilterNone:
			for x, i := 0, 0; x+2 < dstW; x, i = x+3, i+4 {
				d[x], d[x+1], d[x+2] = s[i], s[i+1], s[i+3]
			}
		case FilterLinear:
			down34Row(d, s, s, even)
		default:
			down34Row(d, s, src.row(ty, srcW), even)
		}
	}

	for j, sy := 0, 0; j+2 < dstH; j, sy = j+3, sy+4 {
		emit(j, sy, sy+1, false)
		emit(j+1, sy+1, sy+2, true)
		emit(j+2, sy+3, sy+2, false)
	}
}

// down34Row filters 4 columns into 3 on rows s and t, then blends them 3:1, or 1:1 when
// even is set.
func down34Row[T sample](d, s, t []T, even bool) {
	cols := func(r []T) (int, int, int) {
		return (int(r[0])*3 + int(r[1]) + 2) >> 2, (int(r[1]) + int(r[2]) + 1) >> 1, (int(r[2]) + int(r[3])*3 + 2) >> 2
	}

	for x, i := 0, 0; x+2 < len(d); x, i = x+3, i+4 {
		a0, a1, a2 := cols(s[i : i+4])
		b0, b1, b2 := cols(t[i : i+4])

		if even {
			d[x], d[x+1], d[x+2] = T((a0+b0+1)>>1), T((a1+b1+1)>>1), T((a2+b2+1)>>1)
		} else {
			d[x], d[x+1], d[x+2] = T((a0*3+b0+2)>>2), T((a1*3+b1+2)>>2), T((a2*3+b2+2)>>2)
		}
	}
}

// scaleDown38 maps every 8 source rows and columns onto 3 with 3x3, 3x2, 2x3 and 2x2
// boxes. The last output rows of heights not divisible by 8 are not filtered vertically.
func scaleDown38[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int, f FilterMode) {
	row := func(y int) []T { return src.row(min(y, srcH-1), srcW) }

	emit := func(j, sy, n int, flat bool) {
		d, r0 := dst.row(j, dstW), row(sy)

		if f == FilterNone {
			for x, i := 0, 0; x+2 < dstW; x, i = x+3, i+8 {
				d[x], d[x+1], d[x+2] = r0[i], r0[i+3], r0[i+6]
			}

			return
		}

		rows := [3][]T{r0, r0, r0}
		if !flat && f != FilterLinear {
			for k := 1; k < n; k++ {
				rows[k] = row(sy + k)
			}
		}

		down38Row(d, rows[:n])
	}

	j, sy := 0, 0
	for ; j+2 < dstH; j, sy = j+3, sy+8 {
		emit(j, sy, 3, false)
		emit(j+1, sy+3, 3, false)
		emit(j+2, sy+6, 2, false)
	}

	switch dstH - j {
	case 2:
		emit(j, sy, 3, false)
		emit(j+1, sy+3, 3, true)
	case 1:
		emit(j, sy, 3, true)
	}
}

// down38Row averages columns 0-2, 3-5 and 6-7 of every 8 over rows with a truncated
// reciprocal of the box area.
func down38Row[T sample](d []T, rows [][]T) {
	n := len(rows)
	wide, narrow := 65536/(3*n), 65536/(2*n)

	for x, i := 0, 0; x+2 < len(d); x, i = x+3, i+8 {
		var s0, s1, s2 int

		for _, r := range rows {
			s0 += int(r[i]) + int(r[i+1]) + int(r[i+2])
			s1 += int(r[i+3]) + int(r[i+4]) + int(r[i+5])
			s2 += int(r[i+6]) + int(r[i+7])
		}

		d[x], d[x+1], d[x+2] = T((s0*wide)>>16), T((s1*wide)>>16), T((s2*narrow)>>16)
	}
}

func scaleDown4[T sample](src, dst planeView[T], dstW, dstH int, f FilterMode) {
	srcW := dstW * 4

	for j := 0; j < dstH; j++ {
		d := dst.row(j, dstW)

		if f == FilterNone {
			r := src.row(4*j+2, srcW)
			for x := range d {
				d[x] = r[4*x+2]
			}

			continue
		}

		for x := range d {
			sum := 0
			for k := 0; k < 4; k++ {
				r := src.row(4*j+k, srcW)
				sum += int(r[4*x]) + int(r[4*x+1]) + int(r[4*x+2]) + int(r[4*x+3])
			}

			d[x] = T((sum + 8) >> 4)
		}
	}
}

func scaleBox[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int) {
	x, y, dx, dy := slope(srcW, srcH, dstW, dstH, FilterBox)
	maxY := srcH << 16

	acc := getUint32(srcW)
	defer putUint32(acc)

	for j := 0; j < dstH; j++ {
		iy := y >> 16
		y += dy
		if y > maxY {
			y = maxY
		}

		boxH := max(1, (y>>16)-iy)

		clear(acc)
		for k := 0; k < boxH && iy+k < srcH; k++ {
			for i, v := range src.row(iy+k, srcW) {
				acc[i] += uint32(v)
			}
		}

		addCols(dst.row(j, dstW), acc, boxH, x, dx)
	}
}

// addCols averages boxes of summed rows into dst.
func addCols[T sample](dst []T, acc []uint32, boxH, x, dx int) {
	sum := func(from, n int) uint64 {
		var s uint64
		for i := from; i < from+n && i < len(acc); i++ {
			s += uint64(acc[i])
		}
		return s
	}

	switch {
	case dx&0xffff != 0:
		minBoxW := dx >> 16
		scale0 := uint64(65536 / (max(1, minBoxW) * boxH))
		scale1 := uint64(65536 / (max(1, minBoxW+1) * boxH))

		for i := range dst {
			ix := x >> 16
			x += dx
			boxW := max(1, (x>>16)-ix)

			scale := scale0
			if boxW > minBoxW {
				scale = scale1
			}

			dst[i] = T((sum(ix, boxW) * scale) >> 16)
		}
	case dx != 0x10000:
		boxW := max(1, dx>>16)
		scale := uint64(65536 / (boxW * boxH))
		ix := x >> 16

		for i := range dst {
			dst[i] = T((sum(ix, boxW) * scale) >> 16)
			ix += boxW
		}
	default:
		scale := uint64(65536 / boxH)
		ix := x >> 16

		for i := range dst {
			dst[i] = T((uint64(acc[ix+i]) * scale) >> 16)
		}
	}
}

// up2LinearRow doubles a row horizontally with 3:1 weights.
func up2LinearRow[T sample](dst, src []T, dstW int) {
	dst[0] = src[0]

	work := (dstW - 1) &^ 1
	for x := 1; x <= work; x++ {
		j := (x - 1) / 2
		a, b := int(src[j]), int(src[j+1])

		if (x-1)&1 == 0 {
			dst[x] = T((3*a + b + 2) >> 2)
		} else {
			dst[x] = T((a + 3*b + 2) >> 2)
		}
	}

	dst[dstW-1] = src[(dstW-1)/2]
}

func scaleUp2Linear[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int) {
	if dstH == 1 {
		up2LinearRow(dst.row(0, dstW), src.row((srcH-1)/2, srcW), dstW)
		return
	}

	dy := fixedDiv(srcH-1, dstH-1)
	y := (1 << 15) - 1

	for j := 0; j < dstH; j++ {
		up2LinearRow(dst.row(j, dstW), src.row(min(y>>16, srcH-1), srcW), dstW)
		y += dy
	}
}

func scaleUp2Bilinear[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int) {
	up2LinearRow(dst.row(0, dstW), src.row(0, srcW), dstW)

	d := 1
	for i := 0; i < srcH-1; i++ {
		sa, sb := src.row(i, srcW), src.row(i+1, srcW)
		up2BilinearRow(dst.row(d, dstW), sa, sb, dstW)
		up2BilinearRow(dst.row(d+1, dstW), sb, sa, dstW)

		d += 2
	}

	if dstH&1 == 0 {
		up2LinearRow(dst.row(dstH-1, dstW), src.row(srcH-1, srcW), dstW)
	}
}

// filterCols resamples a row horizontally with linear interpolation.
func filterCols[T sample](dst, src []T, x, dx int) {
	last := len(src) - 1

	for j := range dst {
		xi := min(max(x>>16, 0), last)
		a := int(src[xi])
		b := int(src[min(xi+1, last)])

		dst[j] = T(a + ((x&0xffff)*(b-a)+0x8000)>>16)
		x += dx
	}
}

// nearestCols resamples a row horizontally picking the nearest sample.
func nearestCols[T sample](dst, src []T, x, dx int) {
	last := len(src) - 1

	for j := range dst {
		dst[j] = src[min(max(x>>16, 0), last)]
		x += dx
	}
}

func scaleBilinearUp[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int, f FilterMode) {
	x, y, dx, dy := slope(srcW, srcH, dstW, dstH, f)
	maxY := (srcH - 1) << 16

	rowA := make([]T, dstW)
	rowB := make([]T, dstW)
	last := -1

	for j := 0; j < dstH; j++ {
		if y > maxY {
			y = maxY
		}

		yi := y >> 16
		if yi != last {
			filterCols(rowA, src.row(yi, srcW), x, dx)
			filterCols(rowB, src.row(min(yi+1, srcH-1), srcW), x, dx)
			last = yi
		}

		if f == FilterLinear {
			copy(dst.row(j, dstW), rowA)
		} else {
			interpolateRow(dst.row(j, dstW), rowA, rowB, dstW, (y>>8)&255)
		}

		y += dy
	}
}

func scaleBilinearDown[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int, f FilterMode) {
	x, y, dx, dy := slope(srcW, srcH, dstW, dstH, f)
	maxY := (srcH - 1) << 16
	if y > maxY {
		y = maxY
	}

	row := make([]T, srcW)

	for j := 0; j < dstH; j++ {
		yi := max(y>>16, 0)

		if f == FilterLinear {
			filterCols(dst.row(j, dstW), src.row(yi, srcW), x, dx)
		} else {
			interpolateRow(row, src.row(yi, srcW), src.row(min(yi+1, srcH-1), srcW), srcW, (y>>8)&255)
			filterCols(dst.row(j, dstW), row, x, dx)
		}

		y += dy
		if y > maxY {
			y = maxY
		}
	}
}

func scaleSimple[T sample](src, dst planeView[T], srcW, srcH, dstW, dstH int) {
	x, y, dx, dy := slope(srcW, srcH, dstW, dstH, FilterNone)

	for j := 0; j < dstH; j++ {
		nearestCols(dst.row(j, dstW), src.row(min(y>>16, srcH-1), srcW), x, dx)
		y += dy
	}
}

// nv12Scale scales a luma plane and an interleaved chroma plane of half resolution.
func nv12Scale(srcY []uint8, srcStrideY int, srcUV []uint8, srcStrideUV int, srcW, srcH int,
	dstY []uint8, dstStrideY int, dstUV []uint8, dstStrideUV int, dstW, dstH int, f FilterMode,
) int {
	if r := scalePlane(srcY, srcStrideY, srcW, srcH, dstY, dstStrideY, dstW, dstH, f); r != 0 {
		return r
	}

	srcHalfW, srcHalfH := (srcW+1)>>1, (srcH+1)>>1
	dstHalfW, dstHalfH := (dstW+1)>>1, (dstH+1)>>1

	if !PlaneFits(len(srcUV), srcStrideUV, srcHalfW*2, srcHalfH) ||
		!PlaneFits(len(dstUV), dstStrideUV, dstHalfW*2, dstHalfH) {
		return -1
	}

	srcU := make([]uint8, srcHalfW*srcHalfH)
	srcV := make([]uint8, srcHalfW*srcHalfH)
	splitUV(srcUV, srcStrideUV, srcU, srcV, srcHalfW, srcHalfH)

	dstU := make([]uint8, dstHalfW*dstHalfH)
	dstV := make([]uint8, dstHalfW*dstHalfH)

	if r := scalePlane(srcU, srcHalfW, srcHalfW, srcHalfH, dstU, dstHalfW, dstHalfW, dstHalfH, f); r != 0 {
		return r
	}

	if r := scalePlane(srcV, srcHalfW, srcHalfW, srcHalfH, dstV, dstHalfW, dstHalfW, dstHalfH, f); r != 0 {
		return r
	}

	mergeUV(dstU, dstV, dstUV, dstStrideUV, dstHalfW, dstHalfH)

	return 0
}

func splitUV[T sample](uv []T, stride int, u, v []T, width, height int) {
	for y := 0; y < height; y++ {
		row := uv[y*stride : y*stride+width*2]
		for x := 0; x < width; x++ {
			u[y*width+x] = row[2*x]
			v[y*width+x] = row[2*x+1]
		}
	}
}

func mergeUV[T sample](u, v []T, uv []T, stride int, width, height int) {
	for y := 0; y < height; y++ {
		row := uv[y*stride : y*stride+width*2]
		for x := 0; x < width; x++ {
			row[2*x] = u[y*width+x]
			row[2*x+1] = v[y*width+x]
		}
	}
}

// p010ToI010 de-interleaves chroma and moves samples from the most to the least
// significant bits.
func p010ToI010(srcY []uint16, srcStrideY int, srcUV []uint16, srcStrideUV int,
	dstY []uint16, dstStrideY int, dstU []uint16, dstStrideU int, dstV []uint16, dstStrideV int,
	width, height int,
) int {
	if width <= 0 || height <= 0 {
		return -1
	}

	halfW, halfH := (width+1)>>1, (height+1)>>1

	if !PlaneFits(len(srcY), srcStrideY, width, height) || !PlaneFits(len(dstY), dstStrideY, width, height) ||
		!PlaneFits(len(srcUV), srcStrideUV, halfW*2, halfH) ||
		!PlaneFits(len(dstU), dstStrideU, halfW, halfH) || !PlaneFits(len(dstV), dstStrideV, halfW, halfH) {
		return -1
	}

	for y := 0; y < height; y++ {
		s := srcY[y*srcStrideY : y*srcStrideY+width]
		d := dstY[y*dstStrideY : y*dstStrideY+width]

		for x, v := range s {
			d[x] = v >> 6
		}
	}

	for y := 0; y < halfH; y++ {
		s := srcUV[y*srcStrideUV : y*srcStrideUV+halfW*2]
		du := dstU[y*dstStrideU : y*dstStrideU+halfW]
		dv := dstV[y*dstStrideV : y*dstStrideV+halfW]

		for x := 0; x < halfW; x++ {
			du[x] = s[2*x] >> 6
			dv[x] = s[2*x+1] >> 6
		}
	}

	return 0
}
