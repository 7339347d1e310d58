package easyocr

import (
	"errors"
	"image"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/easyocr-go/internal/charset"
	"github.com/ironsheep/easyocr-go/internal/decoder"
	"github.com/ironsheep/easyocr-go/internal/detection"
	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
	"github.com/ironsheep/easyocr-go/internal/imaging"
	"github.com/ironsheep/easyocr-go/internal/inference"
	"github.com/ironsheep/easyocr-go/internal/logging"
)

// Model file names inside the model directory.
const (
	DetectorModel   = "EasyOCRDetector.onnx"
	RecognizerModel = "EasyOCRRecognizer.onnx"
)

// DefaultLanguage is the language used when WithLanguage is not given.
const DefaultLanguage = "en"

var errClosed = errors.New("recognizer is closed")

// Box is a text region in the 800x608 detector image space.
type Box = detection.Box

// Result is the text read from one region.
type Result struct {
	Text string `json:"text"`

	// Box is the region in the 800x608 resized image.
	Box Box `json:"box"`

	// SourceBox is Box scaled back to the input image.
	SourceBox Box `json:"source_box"`
}

// Recognizer reads text with a detector and a recognizer model. It is safe
// for concurrent use when the inference engine is. Close waits for calls in
// flight to finish before releasing the sessions.
type Recognizer struct {
	detector   inference.Session
	recognizer inference.Session
	charset    *charset.Charset
	logger     *logging.Logger
	mode       RegionMode

	// mu is held for reading by Read and Detect and for writing by Close.
	mu       sync.RWMutex
	closed   bool
	closeErr error
}

// New loads the character set for the configured language and both models
// from modelDir. Non-Latin character files are read from the "character"
// directory next to modelDir.
func New(modelDir string, opts ...Option) (*Recognizer, error) {
	o := options{
		language: DefaultLanguage,
		mode:     RegionDetector,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("easyocr")
	}
	if o.opener == nil {
		o.opener = inference.NewONNXOpener(inference.ONNXConfig{
			LibraryPath:    o.libraryPath,
			IntraOpThreads: o.threads,
		})
	}

	cs, err := charset.Load(o.language, modelDir)
	if err != nil {
		return nil, err
	}

	detector, err := openModel(o.opener, filepath.Join(modelDir, DetectorModel))
	if err != nil {
		return nil, err
	}

	recognizer, err := openModel(o.opener, filepath.Join(modelDir, RecognizerModel))
	if err != nil {
		detector.Close()
		return nil, err
	}

	o.logger.Info("recognizer ready",
		"model_dir", modelDir,
		"language", cs.Tag(),
		"charset_size", cs.Len(),
		"region_mode", o.mode,
	)

	return &Recognizer{
		detector:   detector,
		recognizer: recognizer,
		charset:    cs,
		logger:     o.logger,
		mode:       o.mode,
	}, nil
}

func openModel(open inference.Opener, path string) (inference.Session, error) {
	s, err := open(path)
	if err != nil {
		if errors.Is(err, ocrerrors.ModelLoad) {
			return nil, err
		}
		return nil, ocrerrors.NewModelLoadError(path, err)
	}
	return s, nil
}

// Language returns the language tag of the loaded character set.
func (r *Recognizer) Language() string {
	return r.charset.Tag()
}

// Read recognizes the text in img. It always returns exactly one Result on
// success: the whole detected region is read as a single line.
func (r *Recognizer) Read(img image.Image) ([]Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ocrerrors.NewInferenceError("read", errClosed)
	}

	callID := uuid.NewString()
	start := time.Now()

	resized := imaging.ResizeForDetection(img)

	box, err := r.region(resized, callID)
	if err != nil {
		return nil, err
	}

	crop, err := imaging.RecognizerInput(resized, box)
	if err != nil {
		r.logger.Warn("region rejected", "call_id", callID, "box", box, "error", err)
		return nil, err
	}

	out, err := r.recognizer.Run(crop.Tensor)
	if err != nil {
		return nil, wrapInference("recognizer", err)
	}

	text, err := decoder.Greedy(out, r.charset)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	result := Result{
		Text:      text,
		Box:       box,
		SourceBox: ScaleBox(box, bounds.Dx(), bounds.Dy()),
	}

	r.logger.Debug("read complete",
		"call_id", callID,
		"box", box,
		"crop_width", crop.Width,
		"chars", len([]rune(text)),
		"elapsed", time.Since(start),
	)

	return []Result{result}, nil
}

// ReadFile decodes the image at path and reads it.
func (r *Recognizer) ReadFile(path string) ([]Result, error) {
	img, _, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Read(img)
}

// Detect returns only the text region of img, in 800x608 image space.
func (r *Recognizer) Detect(img image.Image) (Box, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return Box{}, ocrerrors.NewInferenceError("detect", errClosed)
	}
	return r.region(imaging.ResizeForDetection(img), uuid.NewString())
}

// region finds the text box in the resized image.
func (r *Recognizer) region(resized *image.NRGBA, callID string) (Box, error) {
	if r.mode == RegionContent {
		return detection.FromContent(resized), nil
	}

	out, err := r.detector.Run(imaging.DetectorTensor(resized))
	if err != nil {
		return Box{}, wrapInference("detector", err)
	}

	m, err := detection.NewDetectionMap(out.Shape, out.Data)
	if err != nil {
		r.logger.Warn("detector output unusable, scanning content instead",
			"call_id", callID,
			"shape", out.Shape,
			"error", err,
		)
		return detection.FromContent(resized), nil
	}

	return detection.FromDetectionMap(m, imaging.DetectorWidth, imaging.DetectorHeight), nil
}

// Close releases both model sessions once every Read and Detect in flight has
// returned. It is safe to call more than once.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.closeErr
	}
	r.closed = true
	r.closeErr = errors.Join(r.detector.Close(), r.recognizer.Close())
	return r.closeErr
}

func wrapInference(stage string, err error) error {
	if errors.Is(err, ocrerrors.Inference) {
		return err
	}
	return ocrerrors.NewInferenceError(stage, err)
}

// ScaleBox maps a box from 800x608 detector image space to a w x h image.
func ScaleBox(b Box, w, h int) Box {
	sx := float32(w) / float32(imaging.DetectorWidth)
	sy := float32(h) / float32(imaging.DetectorHeight)
	return Box{
		Left:   b.Left * sx,
		Top:    b.Top * sy,
		Right:  b.Right * sx,
		Bottom: b.Bottom * sy,
	}
}
