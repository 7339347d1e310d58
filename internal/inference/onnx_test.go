package inference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

func TestONNXOpener_MissingModel(t *testing.T) {
	open := NewONNXOpener(ONNXConfig{})
	path := filepath.Join(t.TempDir(), "EasyOCRDetector.onnx")

	s, err := open(path)
	if err == nil {
		t.Fatal("opening a missing model should fail")
	}
	if s != nil {
		t.Error("session should be nil on failure")
	}
	if !errors.Is(err, ocrerrors.ModelLoad) {
		t.Errorf("error should be ModelLoad, got %v", err)
	}

	var ocrErr *ocrerrors.Error
	if !errors.As(err, &ocrErr) || ocrErr.Path != path {
		t.Errorf("error should carry the model path, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap the stat failure, got %v", err)
	}
}

// TestONNXSession_Detector runs the real detector when models and the
// onnxruntime library are available.
func TestONNXSession_Detector(t *testing.T) {
	dir := os.Getenv("EASYOCR_MODEL_DIR")
	if dir == "" {
		t.Skip("EASYOCR_MODEL_DIR not set")
	}
	path := filepath.Join(dir, "EasyOCRDetector.onnx")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("detector model not available: %v", err)
	}

	s, err := OpenONNX(path, ONNXConfig{LibraryPath: os.Getenv("EASYOCR_ORT_LIB"), IntraOpThreads: 1})
	if err != nil {
		t.Skipf("onnxruntime not available: %v", err)
	}
	defer s.Close()

	out, err := s.Run(tensor.New(1, 3, 608, 800))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("output invalid: %v", err)
	}
	if out.Rank() != 4 || out.Dim(0) != 1 {
		t.Errorf("unexpected output shape %v", out.Shape)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestFakeSession(t *testing.T) {
	want := tensor.New(1, 2, 3)
	f := &FakeSession{Output: want}

	var s Session = f
	got, err := s.Run(tensor.New(1, 1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(got.Data) != len(want.Data) {
		t.Errorf("output: got %d values, want %d", len(got.Data), len(want.Data))
	}
	if n := len(f.Inputs()); n != 1 {
		t.Errorf("recorded inputs: got %d, want 1", n)
	}

	s.Close()
	s.Close()
	if f.Closed() != 2 {
		t.Errorf("Closed: got %d, want 2", f.Closed())
	}
}
