package inference

import (
	"fmt"
	"os"
	"sync"

	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
	"github.com/ironsheep/easyocr-go/internal/tensor"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig configures the ONNX Runtime engine.
type ONNXConfig struct {
	// LibraryPath is the onnxruntime shared library. Empty uses the
	// platform default search.
	LibraryPath string

	// IntraOpThreads limits the threads used inside one operator. Zero keeps
	// the engine default.
	IntraOpThreads int
}

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment initializes the process-wide ONNX Runtime environment once.
// The first caller's library path wins.
func initEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// NewONNXOpener returns an Opener that loads models with ONNX Runtime. Every
// failure is reported as a model load error carrying the path.
func NewONNXOpener(cfg ONNXConfig) Opener {
	return func(path string) (Session, error) {
		s, err := OpenONNX(path, cfg)
		if err != nil {
			return nil, ocrerrors.NewModelLoadError(path, err)
		}
		return s, nil
	}
}

// ONNXSession is a Session backed by an ort.DynamicAdvancedSession. The
// output name is read from the model so the first output is used whatever it
// is called.
type ONNXSession struct {
	path       string
	outputName string
	session    *ort.DynamicAdvancedSession
	options    *ort.SessionOptions
	closeOnce  sync.Once
}

// OpenONNX loads the model at path.
func OpenONNX(path string, cfg ONNXConfig) (*ONNXSession, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model has %d inputs and %d outputs", len(inputs), len(outputs))
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	if cfg.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			options.Destroy()
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{InputName},
		[]string{outputs[0].Name},
		options,
	)
	if err != nil {
		options.Destroy()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &ONNXSession{
		path:       path,
		outputName: outputs[0].Name,
		session:    session,
		options:    options,
	}, nil
}

// Run implements Session. Engine tensors are destroyed before returning; the
// result owns a copy of the output data.
func (s *ONNXSession) Run(input tensor.Tensor) (tensor.Tensor, error) {
	if err := input.Validate(); err != nil {
		return tensor.Tensor{}, err
	}

	in, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{in}, outputs); err != nil {
		return tensor.Tensor{}, err
	}
	if outputs[0] == nil {
		return tensor.Tensor{}, fmt.Errorf("model %s produced no output", s.path)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, fmt.Errorf("output %q is not a float32 tensor", s.outputName)
	}

	shape := out.GetShape()
	result := tensor.Tensor{
		Shape: make([]int64, len(shape)),
		Data:  make([]float32, len(out.GetData())),
	}
	copy(result.Shape, shape)
	copy(result.Data, out.GetData())
	return result, nil
}

// Close implements Session.
func (s *ONNXSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.session != nil {
			err = s.session.Destroy()
		}
		if s.options != nil {
			if oerr := s.options.Destroy(); err == nil {
				err = oerr
			}
		}
	})
	return err
}
