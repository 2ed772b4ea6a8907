package reformat

import (
	"fmt"

	"github.com/pion/logging"
	"github.com/vearutop/reformat/internal/libyuv"
	"github.com/vearutop/reformat/internal/yuv"
)

// Backend provides the pixel primitives used for conversion and scaling.
type Backend = yuv.Backend

// Options controls conversion and scaling.
type Options struct {
	// Backend defaults to GoBackend().
	Backend Backend
	// Logger defaults to a "reformat" logger of the default pion factory.
	Logger logging.LeveledLogger
}

// WithBackend selects primitive backend.
func WithBackend(b Backend) func(o *Options) {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.LeveledLogger) func(o *Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithLoggerFactory sets the logger from a factory.
func WithLoggerFactory(f logging.LoggerFactory) func(o *Options) {
	return func(o *Options) {
		o.Logger = f.NewLogger("reformat")
	}
}

var defaultLogger = logging.NewDefaultLoggerFactory().NewLogger("reformat")

func newOptions(opts []func(o *Options)) Options {
	o := Options{}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.Backend == nil {
		o.Backend = GoBackend()
	}

	if o.Logger == nil {
		o.Logger = defaultLogger
	}

	return o
}

// GoBackend returns the pure-Go primitive backend.
func GoBackend() Backend {
	return yuv.Go()
}

// LoadLibYUV loads the system libyuv once per process and returns a backend using it.
// Primitives missing from the installed library run on the pure-Go backend.
func LoadLibYUV() (Backend, error) {
	b, err := libyuv.Load()
	if err != nil {
		return nil, fmt.Errorf("load libyuv: %w", err)
	}

	return b, nil
}
