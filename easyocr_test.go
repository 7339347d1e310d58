package easyocr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/easyocr-go/internal/charset"
	"github.com/ironsheep/easyocr-go/internal/inference"
	"github.com/ironsheep/easyocr-go/internal/logging"
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// Latin class indices: class = alphabet position + 1.
const (
	classH = 52
	classE = 75
	classL = 82
	classO = 85
)

// createImageWithText renders text in black on a white canvas.
func createImageWithText(t *testing.T, width, height int, text string) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(height / 2)},
	}
	d.DrawString(text)
	return img
}

func createBlankImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// scoreMap builds a [1, h, w, 2] detector output with the text score set in
// the given cell rectangle.
func scoreMap(h, w int, cells image.Rectangle) tensor.Tensor {
	out := tensor.New(1, int64(h), int64(w), 2)
	for y := cells.Min.Y; y < cells.Max.Y; y++ {
		for x := cells.Min.X; x < cells.Max.X; x++ {
			out.Data[(y*w+x)*2] = 0.9
		}
	}
	return out
}

// recognizerOutput builds a [1, T, C] output that peaks at path[t].
func recognizerOutput(classes int, path ...int) tensor.Tensor {
	out := tensor.New(1, int64(len(path)), int64(classes))
	for step, idx := range path {
		out.Data[step*classes+idx] = 1
	}
	return out
}

func helloOutput() tensor.Tensor {
	return recognizerOutput(charset.New("en", charset.Latin).Len()+1,
		0, classH, classH, 0, classE, classL, 0, classL, classO, 0)
}

func fakeOpener(det, rec inference.Session) inference.Opener {
	return func(path string) (inference.Session, error) {
		switch filepath.Base(path) {
		case DetectorModel:
			return det, nil
		case RecognizerModel:
			return rec, nil
		}
		return nil, fmt.Errorf("unexpected model %s", path)
	}
}

func newTestRecognizer(t *testing.T, det, rec *inference.FakeSession, opts ...Option) *Recognizer {
	t.Helper()
	opts = append([]Option{
		WithOpener(fakeOpener(det, rec)),
		WithLogger(logging.Discard()),
	}, opts...)
	r, err := New(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func approxBox(a, b Box) bool {
	const eps = 1e-3
	return math.Abs(float64(a.Left-b.Left)) < eps &&
		math.Abs(float64(a.Top-b.Top)) < eps &&
		math.Abs(float64(a.Right-b.Right)) < eps &&
		math.Abs(float64(a.Bottom-b.Bottom)) < eps
}

func TestRead_EndToEnd(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))}
	rec := &inference.FakeSession{RunFunc: func(in tensor.Tensor) (tensor.Tensor, error) {
		if err := in.Validate(); err != nil {
			return tensor.Tensor{}, err
		}
		return helloOutput(), nil
	}}
	r := newTestRecognizer(t, det, rec)

	results, err := r.Read(createImageWithText(t, 400, 304, "HELLO"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Read should return one result, got %d", len(results))
	}

	got := results[0]
	if got.Text != "Hello" {
		t.Errorf("Text: got %q, want %q", got.Text, "Hello")
	}

	// Cells are 2x2 pixels in the 800x608 image.
	wantBox := Box{Left: 20, Top: 10, Right: 40, Bottom: 20}
	if !approxBox(got.Box, wantBox) {
		t.Errorf("Box: got %v, want %v", got.Box, wantBox)
	}
	// The input is half the detector size.
	wantSource := Box{Left: 10, Top: 5, Right: 20, Bottom: 10}
	if !approxBox(got.SourceBox, wantSource) {
		t.Errorf("SourceBox: got %v, want %v", got.SourceBox, wantSource)
	}

	detIn := det.Inputs()
	if len(detIn) != 1 || fmt.Sprint(detIn[0].Shape) != "[1 3 608 800]" {
		t.Errorf("detector input shape: got %v", detIn)
	}
	recIn := rec.Inputs()
	if len(recIn) != 1 || fmt.Sprint(recIn[0].Shape) != "[1 1 64 1000]" {
		t.Errorf("recognizer input shape: got %v", recIn)
	}
}

func TestRead_NoDetectionUsesFullImage(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rectangle{})}
	rec := &inference.FakeSession{Output: recognizerOutput(167, 0, 0, 0)}
	r := newTestRecognizer(t, det, rec)

	results, err := r.Read(createBlankImage(1600, 1216))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !approxBox(results[0].Box, Box{Left: 0, Top: 0, Right: 800, Bottom: 608}) {
		t.Errorf("Box: got %v, want full image", results[0].Box)
	}
	if !approxBox(results[0].SourceBox, Box{Left: 0, Top: 0, Right: 1600, Bottom: 1216}) {
		t.Errorf("SourceBox: got %v, want full source image", results[0].SourceBox)
	}
	if results[0].Text != "" {
		t.Errorf("Text: got %q, want empty", results[0].Text)
	}
}

func TestRead_ContentMode(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rectangle{})}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec, WithRegionMode(RegionContent))

	img := createBlankImage(800, 608)
	draw.Draw(img, image.Rect(100, 200, 300, 260), image.Black, image.Point{}, draw.Src)

	results, err := r.Read(img)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(det.Inputs()) != 0 {
		t.Error("content mode should not run the detector")
	}
	want := Box{Left: 100, Top: 200, Right: 299, Bottom: 259}
	if !approxBox(results[0].Box, want) {
		t.Errorf("Box: got %v, want %v", results[0].Box, want)
	}
}

func TestRead_UnusableDetectorOutputFallsBackToContent(t *testing.T) {
	det := &inference.FakeSession{Output: tensor.New(1, 608, 800)}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec)

	img := createBlankImage(800, 608)
	draw.Draw(img, image.Rect(40, 50, 90, 70), image.Black, image.Point{}, draw.Src)

	results, err := r.Read(img)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := Box{Left: 40, Top: 50, Right: 89, Bottom: 69}
	if !approxBox(results[0].Box, want) {
		t.Errorf("Box: got %v, want %v", results[0].Box, want)
	}
}

func TestRead_InvalidRegion(t *testing.T) {
	// A map twice as wide as the image makes one cell half a pixel wide,
	// which truncates to an empty crop.
	det := &inference.FakeSession{Output: scoreMap(608, 1600, image.Rect(5, 5, 6, 6))}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec)

	_, err := r.Read(createBlankImage(800, 608))
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got %v", err)
	}
	if len(rec.Inputs()) != 0 {
		t.Error("recognizer should not run for an invalid region")
	}
}

func TestRead_InferenceErrors(t *testing.T) {
	engineErr := errors.New("engine exploded")

	tests := []struct {
		name string
		det  *inference.FakeSession
		rec  *inference.FakeSession
	}{
		{
			name: "detector fails",
			det: &inference.FakeSession{RunFunc: func(tensor.Tensor) (tensor.Tensor, error) {
				return tensor.Tensor{}, engineErr
			}},
			rec: &inference.FakeSession{Output: helloOutput()},
		},
		{
			name: "recognizer fails",
			det:  &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))},
			rec: &inference.FakeSession{RunFunc: func(tensor.Tensor) (tensor.Tensor, error) {
				return tensor.Tensor{}, engineErr
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecognizer(t, tt.det, tt.rec)
			_, err := r.Read(createBlankImage(100, 100))
			if !errors.Is(err, ErrInference) {
				t.Errorf("expected ErrInference, got %v", err)
			}
			if !errors.Is(err, engineErr) {
				t.Errorf("cause should be preserved, got %v", err)
			}
		})
	}
}

func TestRead_MalformedRecognizerOutput(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))}
	rec := &inference.FakeSession{Output: tensor.New(26, 167)}
	r := newTestRecognizer(t, det, rec)

	_, err := r.Read(createBlankImage(100, 100))
	if !errors.Is(err, ErrInference) {
		t.Errorf("expected ErrInference, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(0, 0, 400, 1))}
	rec := &inference.FakeSession{}
	r := newTestRecognizer(t, det, rec)

	box, err := r.Detect(createBlankImage(50, 50))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	want := Box{Left: 0, Top: 0, Right: 800, Bottom: 2}
	if !approxBox(box, want) {
		t.Errorf("Detect: got %v, want %v", box, want)
	}
	if len(rec.Inputs()) != 0 {
		t.Error("Detect should not run the recognizer")
	}
}

func TestReadFile(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec)

	path := filepath.Join(t.TempDir(), "english.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, createImageWithText(t, 200, 60, "HELLO")); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	results, err := r.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if results[0].Text != "Hello" {
		t.Errorf("Text: got %q, want Hello", results[0].Text)
	}

	if _, err := r.ReadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("ReadFile should fail for a missing file")
	}
}

func TestNew_RecognizerFailureClosesDetector(t *testing.T) {
	det := &inference.FakeSession{}
	open := func(path string) (inference.Session, error) {
		if filepath.Base(path) == DetectorModel {
			return det, nil
		}
		return nil, os.ErrNotExist
	}

	_, err := New(t.TempDir(), WithOpener(open), WithLogger(logging.Discard()))
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause should be preserved, got %v", err)
	}

	var ocrErr *Error
	if !errors.As(err, &ocrErr) || filepath.Base(ocrErr.Path) != RecognizerModel {
		t.Errorf("error should name the recognizer model, got %v", err)
	}
	if det.Closed() != 1 {
		t.Errorf("detector should be closed once, got %d", det.Closed())
	}
}

func TestNew_MissingModelsWithONNXOpener(t *testing.T) {
	_, err := New(t.TempDir(), WithLogger(logging.Discard()))
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
	var ocrErr *Error
	if !errors.As(err, &ocrErr) || filepath.Base(ocrErr.Path) != DetectorModel {
		t.Errorf("error should name the detector model, got %v", err)
	}
}

func TestNew_MissingCharset(t *testing.T) {
	opened := 0
	open := func(string) (inference.Session, error) {
		opened++
		return &inference.FakeSession{}, nil
	}

	_, err := New(filepath.Join(t.TempDir(), "models"),
		WithLanguage("ja"), WithOpener(open), WithLogger(logging.Discard()))
	if !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
	if opened != 0 {
		t.Errorf("models should not be opened when the charset is missing, opened %d", opened)
	}
}

func TestNew_CharacterFile(t *testing.T) {
	root := t.TempDir()
	modelDir := filepath.Join(root, "models")
	if err := os.MkdirAll(filepath.Join(root, "character"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "character", "ja_char.txt"), []byte("日本\r\n語"), 0644); err != nil {
		t.Fatal(err)
	}

	// Symbols prefix is 44 runes, so 日 is class 45.
	rec := &inference.FakeSession{Output: recognizerOutput(48, 45, 46, 47)}
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))}
	r, err := New(modelDir, WithLanguage("ja"), WithOpener(fakeOpener(det, rec)), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if r.Language() != "ja" {
		t.Errorf("Language: got %q, want ja", r.Language())
	}
	results, err := r.Read(createBlankImage(100, 100))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if results[0].Text != "日本語" {
		t.Errorf("Text: got %q, want 日本語", results[0].Text)
	}
}

func TestClose(t *testing.T) {
	det := &inference.FakeSession{Output: scoreMap(304, 400, image.Rect(10, 5, 20, 10))}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec)

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if det.Closed() != 1 || rec.Closed() != 1 {
		t.Errorf("sessions should be closed once, got %d and %d", det.Closed(), rec.Closed())
	}

	if _, err := r.Read(createBlankImage(10, 10)); !errors.Is(err, ErrInference) {
		t.Errorf("Read after Close: expected ErrInference, got %v", err)
	}
	if _, err := r.Detect(createBlankImage(10, 10)); !errors.Is(err, ErrInference) {
		t.Errorf("Detect after Close: expected ErrInference, got %v", err)
	}
}

func TestParseRegionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RegionMode
		wantErr bool
	}{
		{"", RegionDetector, false},
		{"detector", RegionDetector, false},
		{"Content", RegionContent, false},
		{"grid", RegionDetector, true},
	}
	for _, tt := range tests {
		got, err := ParseRegionMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRegionMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

// insideImage reports whether b lies strictly within a w x h image.
func insideImage(b Box, w, h float32) bool {
	return b.Left > 0 && b.Top > 0 && b.Right < w && b.Bottom < h &&
		b.Left <= b.Right && b.Top <= b.Bottom
}

func TestRead_RenderedTextBoxInsideImage(t *testing.T) {
	det := &inference.FakeSession{}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec, WithRegionMode(RegionContent))

	results, err := r.Read(createImageWithText(t, 800, 608, "HELLO"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Read should return one result, got %d", len(results))
	}
	if results[0].Text == "" {
		t.Error("Text should not be empty")
	}
	if b := results[0].Box; !insideImage(b, 800, 608) {
		t.Errorf("box %v should lie strictly inside 800x608", b)
	}
}

func TestClose_WaitsForReadInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	det := &inference.FakeSession{RunFunc: func(tensor.Tensor) (tensor.Tensor, error) {
		close(entered)
		<-release
		return scoreMap(304, 400, image.Rect(10, 5, 20, 10)), nil
	}}
	rec := &inference.FakeSession{Output: helloOutput()}
	r := newTestRecognizer(t, det, rec)

	readErr := make(chan error, 1)
	go func() {
		_, err := r.Read(createBlankImage(800, 608))
		readErr <- err
	}()
	<-entered

	closeErr := make(chan error, 1)
	go func() { closeErr <- r.Close() }()

	select {
	case <-closeErr:
		t.Fatal("Close returned while Read was still running")
	case <-time.After(50 * time.Millisecond):
	}
	if det.Closed() != 0 || rec.Closed() != 0 {
		t.Fatal("sessions were closed under a running Read")
	}

	close(release)
	if err := <-readErr; err != nil {
		t.Errorf("Read failed: %v", err)
	}
	if err := <-closeErr; err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if det.Closed() != 1 || rec.Closed() != 1 {
		t.Errorf("sessions should be closed once, got %d and %d", det.Closed(), rec.Closed())
	}
}

// TestRead_RealModels runs the exported models when they are available.
func TestRead_RealModels(t *testing.T) {
	dir := os.Getenv("EASYOCR_MODEL_DIR")
	if dir == "" {
		t.Skip("EASYOCR_MODEL_DIR not set")
	}

	r, err := New(dir,
		WithLibraryPath(os.Getenv("EASYOCR_ORT_LIB")),
		WithIntraOpThreads(1),
		WithLogger(logging.Discard()),
	)
	if err != nil {
		t.Skipf("models or onnxruntime not available: %v", err)
	}
	defer r.Close()

	t.Run("blank image", func(t *testing.T) {
		results, err := r.Read(createBlankImage(800, 608))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Read should return one result, got %d", len(results))
		}
		if b := results[0].Box; !approxBox(b, Box{Right: 800, Bottom: 608}) {
			t.Errorf("Box: got %v, want the full image", b)
		}
	})

	t.Run("rendered text", func(t *testing.T) {
		results, err := r.Read(createImageWithText(t, 800, 608, "HELLO"))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Read should return one result, got %d", len(results))
		}
		if results[0].Text == "" {
			t.Error("Text should not be empty")
		}
		if b := results[0].Box; !insideImage(b, 800, 608) {
			t.Errorf("box %v should lie strictly inside 800x608", b)
		}
		t.Logf("read %q at %v", results[0].Text, results[0].Box)
	})
}
