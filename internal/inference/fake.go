package inference

import (
	"sync"

	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// FakeSession is an in-memory Session for tests and dry runs. RunFunc
// computes the output; when nil, Output is returned as is.
type FakeSession struct {
	RunFunc func(input tensor.Tensor) (tensor.Tensor, error)
	Output  tensor.Tensor

	mu     sync.Mutex
	inputs []tensor.Tensor
	closed int
}

// Run implements Session and records the input shape and data.
func (f *FakeSession) Run(input tensor.Tensor) (tensor.Tensor, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()

	if f.RunFunc != nil {
		return f.RunFunc(input)
	}
	return f.Output, nil
}

// Close implements Session.
func (f *FakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// Inputs returns the tensors passed to Run so far.
func (f *FakeSession) Inputs() []tensor.Tensor {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tensor.Tensor, len(f.inputs))
	copy(out, f.inputs)
	return out
}

// Closed reports how many times Close was called.
func (f *FakeSession) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
