package yuv

// Constants are the fixed-point coefficients of one YUV to RGB transform, laid out the
// way libyuv's YuvConstants tables are derived. Chroma coefficients are scaled by 64,
// the luma gain YG is scaled by 64*65536/257 and YB is the luma bias scaled by 64.
type Constants struct {
	// Symbol is the libyuv data symbol holding the same table.
	Symbol string

	UB, VR int
	UG, VG int
	YG, YB int
}

func makeConstants(name string, yg, yb, ub, ug, vg, vr int) (yuv *Constants, yvu *Constants) {
	yuv = &Constants{
		Symbol: "kYuv" + name + "Constants",
		UB:     ub, VR: vr, UG: ug, VG: vg, YG: yg, YB: yb,
	}

	// Swapped table for sources whose chroma planes are passed in V, U order.
	yvu = &Constants{
		Symbol: "kYvu" + name + "Constants",
		UB:     vr, VR: ub, UG: vg, VG: ug, YG: yg, YB: yb,
	}

	return yuv, yvu
}

// Transform tables, limited range ones carry the 16..235 luma expansion in YG and YB.
var (
	YuvI601Constants, YvuI601Constants   = makeConstants("I601", 18997, -1160, 128, 25, 52, 102)
	YuvJPEGConstants, YvuJPEGConstants   = makeConstants("JPEG", 16320, 32, 113, 22, 46, 90)
	YuvH709Constants, YvuH709Constants   = makeConstants("H709", 18997, -1160, 128, 14, 34, 115)
	YuvF709Constants, YvuF709Constants   = makeConstants("F709", 16320, 32, 119, 12, 30, 101)
	Yuv2020Constants, Yvu2020Constants   = makeConstants("2020", 19003, -1160, 128, 12, 42, 107)
	YuvV2020Constants, YvuV2020Constants = makeConstants("V2020", 16320, 32, 120, 11, 37, 94)
)

// AllConstants lists every table, natural order first.
func AllConstants() []*Constants {
	return []*Constants{
		YuvI601Constants, YuvJPEGConstants, YuvH709Constants,
		YuvF709Constants, Yuv2020Constants, YuvV2020Constants,
		YvuI601Constants, YvuJPEGConstants, YvuH709Constants,
		YvuF709Constants, Yvu2020Constants, YvuV2020Constants,
	}
}

func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}

	if v > 255 {
		return 255
	}

	return uint8(v)
}

// pixel converts one sample triple. y32 is luma replicated to 16 bits, u and v are
// 8-bit chroma.
func (c *Constants) pixel(y32 uint32, u, v int) (b, g, r uint8) {
	y1 := int((y32 * uint32(c.YG)) >> 16)
	u -= 128
	v -= 128

	b = clamp255((y1 + c.UB*u + c.YB) >> 6)
	g = clamp255((y1 - c.UG*u - c.VG*v + c.YB) >> 6)
	r = clamp255((y1 + c.VR*v + c.YB) >> 6)

	return b, g, r
}

func (c *Constants) gray(y32 uint32) uint8 {
	y1 := int((y32 * uint32(c.YG)) >> 16)

	return clamp255((y1 + c.YB) >> 6)
}

// expand replicates a sample of the given depth to 16 bits.
func expand(y, depth int) uint32 {
	if depth == 8 {
		return uint32(y) * 0x0101
	}

	return uint32(y<<(16-depth)) | uint32(y>>(2*depth-16))
}

// narrow reduces a sample of the given depth to 8 bits.
func narrow(v, depth int) int {
	if depth == 8 {
		return v
	}

	return int(clamp255(v >> (depth - 8)))
}
