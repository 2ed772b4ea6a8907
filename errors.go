package reformat

import "errors"

// Sentinel errors, match with errors.Is.
var (
	// ErrNotImplemented reports a depth, format, layout, filter or matrix combination
	// without a conversion path.
	ErrNotImplemented = errors.New("reformat: not implemented")
	// ErrInvalidArgument reports a malformed request such as a zero target dimension.
	ErrInvalidArgument = errors.New("reformat: invalid argument")
	// ErrReformatFailed reports a primitive failure on a supported path.
	ErrReformatFailed = errors.New("reformat: reformat failed")
	// ErrOutOfMemory reports a plane allocation that overflows or exceeds limits.
	ErrOutOfMemory = errors.New("reformat: out of memory")
	// ErrUnsupportedDepth reports an image depth other than 8, 10 or 12.
	ErrUnsupportedDepth = errors.New("reformat: unsupported depth")
)

// ResultCode is a stable numeric error code, numbered as avifResult.
type ResultCode int

const (
	ResultOK               ResultCode = 0
	ResultUnknownError     ResultCode = 1
	ResultReformatFailed   ResultCode = 5
	ResultUnsupportedDepth ResultCode = 6
	ResultInvalidArgument  ResultCode = 24
	ResultNotImplemented   ResultCode = 25
	ResultOutOfMemory      ResultCode = 26
)

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "OK"
	case ResultReformatFailed:
		return "REFORMAT_FAILED"
	case ResultUnsupportedDepth:
		return "UNSUPPORTED_DEPTH"
	case ResultInvalidArgument:
		return "INVALID_ARGUMENT"
	case ResultNotImplemented:
		return "NOT_IMPLEMENTED"
	case ResultOutOfMemory:
		return "OUT_OF_MEMORY"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Code maps an error chain to its result code.
func Code(err error) ResultCode {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrNotImplemented):
		return ResultNotImplemented
	case errors.Is(err, ErrInvalidArgument):
		return ResultInvalidArgument
	case errors.Is(err, ErrReformatFailed):
		return ResultReformatFailed
	case errors.Is(err, ErrOutOfMemory):
		return ResultOutOfMemory
	case errors.Is(err, ErrUnsupportedDepth):
		return ResultUnsupportedDepth
	default:
		return ResultUnknownError
	}
}
