package easyocr

import (
	"fmt"
	"strings"

	"github.com/ironsheep/easyocr-go/internal/inference"
	"github.com/ironsheep/easyocr-go/internal/logging"
)

// RegionMode selects how the text region is found.
type RegionMode int

const (
	// RegionDetector runs the detector model and scans its score map. If the
	// output cannot be interpreted the content scan is used instead.
	RegionDetector RegionMode = iota

	// RegionContent skips the detector and scans the resized image for
	// non-white pixels.
	RegionContent
)

func (m RegionMode) String() string {
	switch m {
	case RegionDetector:
		return "detector"
	case RegionContent:
		return "content"
	}
	return fmt.Sprintf("RegionMode(%d)", int(m))
}

// ParseRegionMode parses "detector" or "content".
func ParseRegionMode(s string) (RegionMode, error) {
	switch strings.ToLower(s) {
	case "detector", "":
		return RegionDetector, nil
	case "content":
		return RegionContent, nil
	}
	return RegionDetector, fmt.Errorf("unknown region mode %q", s)
}

type options struct {
	language    string
	logger      *logging.Logger
	opener      inference.Opener
	mode        RegionMode
	threads     int
	libraryPath string
}

// Option configures a Recognizer.
type Option func(*options)

// WithLanguage sets the recognition language tag. Latin-family tags use the
// built-in alphabet; others load a character file. The default is "en".
func WithLanguage(tag string) Option {
	return func(o *options) {
		o.language = tag
	}
}

// WithLogger sets the logger. The default logs to stderr at info level.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithOpener replaces the inference engine. The default opens models with
// ONNX Runtime.
func WithOpener(open inference.Opener) Option {
	return func(o *options) {
		o.opener = open
	}
}

// WithRegionMode selects how the text region is found.
func WithRegionMode(m RegionMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithIntraOpThreads limits the threads ONNX Runtime uses per operator.
func WithIntraOpThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithLibraryPath sets the onnxruntime shared library location. It only takes
// effect for the first Recognizer in the process.
func WithLibraryPath(path string) Option {
	return func(o *options) {
		o.libraryPath = path
	}
}
