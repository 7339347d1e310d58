// Package inference adapts the ONNX Runtime engine to the tensor types used by
// the pipeline.
//
// The pipeline only needs tensor-in, tensor-out. Session hides the engine so
// tests can substitute fakes and so engine handles are released through a
// single Close.
package inference

import (
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// InputName is the input tensor name both exported models use.
const InputName = "image"

// Session runs one loaded model.
type Session interface {
	// Run feeds input to the model and returns its first output.
	Run(input tensor.Tensor) (tensor.Tensor, error)

	// Close releases engine resources. It is safe to call more than once.
	Close() error
}

// Opener loads a model file into a Session.
type Opener func(path string) (Session, error)
