// Package decoder collapses recognizer output into text.
package decoder

import (
	"fmt"
	"strings"

	"github.com/ironsheep/easyocr-go/internal/charset"
	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// Blank is the CTC blank class.
const Blank = 0

// ArgmaxPath returns the best class per timestep of a [1, T, C] output. Ties
// resolve to the lowest index.
func ArgmaxPath(out tensor.Tensor) ([]int, error) {
	if err := out.Validate(); err != nil {
		return nil, ocrerrors.NewInferenceError("recognizer", err)
	}
	if out.Rank() != 3 || out.Dim(0) != 1 {
		return nil, ocrerrors.NewInferenceError("recognizer", fmt.Errorf("output shape %v, want [1,T,C]", out.Shape))
	}

	steps, classes := out.Dim(1), out.Dim(2)
	path := make([]int, steps)
	for t := 0; t < steps; t++ {
		row := out.Data[t*classes : (t+1)*classes]
		best := 0
		for c := 1; c < classes; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		path[t] = best
	}
	return path, nil
}

// Collapse applies the greedy CTC rule to a class path: a class is emitted
// when it is not blank and differs from the previous timestep. Class i maps
// to cs.At(i-1); classes outside the charset are skipped.
func Collapse(path []int, cs *charset.Charset) string {
	var sb strings.Builder
	prev := Blank
	for _, idx := range path {
		if idx != Blank && idx != prev {
			if r, ok := cs.At(idx - 1); ok {
				sb.WriteRune(r)
			}
		}
		prev = idx
	}
	return sb.String()
}

// Greedy decodes a [1, T, C] recognizer output into text.
func Greedy(out tensor.Tensor, cs *charset.Charset) (string, error) {
	path, err := ArgmaxPath(out)
	if err != nil {
		return "", err
	}
	return Collapse(path, cs), nil
}
