package yuv

import (
	"runtime"
	"sync"
)

// MaxWorkers limits row-parallel primitives, zero means GOMAXPROCS.
var MaxWorkers = 0

// minRowsPerWorker keeps small images on the calling goroutine.
const minRowsPerWorker = 64

var (
	uint16Pool = sync.Pool{
		New: func() any {
			buf := make([]uint16, 0)
			return &buf
		},
	}
	uint32Pool = sync.Pool{
		New: func() any {
			buf := make([]uint32, 0)
			return &buf
		},
	}
)

func getUint16(n int) []uint16 {
	bufPtr := uint16Pool.Get().(*[]uint16)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]uint16, n)
	}
	return buf[:n]
}

func putUint16(buf []uint16) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	uint16Pool.Put(&buf)
}

func getUint32(n int) []uint32 {
	bufPtr := uint32Pool.Get().(*[]uint32)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]uint32, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

func putUint32(buf []uint32) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	uint32Pool.Put(&buf)
}

// parallelRows splits [0, total) rows into contiguous bands processed concurrently.
func parallelRows(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if MaxWorkers > 0 && workers > MaxWorkers {
		workers = MaxWorkers
	}
	if byRows := total / minRowsPerWorker; workers > byRows {
		workers = byRows
	}
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < total; start += step {
		end := start + step
		if end > total {
			end = total
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
