package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// Detector input geometry. The detector was exported for a fixed 800x608
// input; these are not tunables.
const (
	DetectorWidth  = 800
	DetectorHeight = 608
)

// ImageNet statistics scaled to 0-255 pixel space, in R, G, B order.
var (
	detectorMean = [3]float32{0.485 * 255, 0.456 * 255, 0.406 * 255}
	detectorStd  = [3]float32{0.229 * 255, 0.224 * 255, 0.225 * 255}
)

// ResizeForDetection scales img to exactly DetectorWidth x DetectorHeight,
// ignoring aspect ratio. All bounding boxes are expressed in this space.
func ResizeForDetection(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == DetectorWidth && b.Dy() == DetectorHeight {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, DetectorWidth, DetectorHeight, imaging.Linear)
}

// DetectorTensor encodes a DetectorWidth x DetectorHeight image as a
// [1,3,H,W] tensor with per-channel mean/std normalization.
//
// Images of any other size are resized first.
func DetectorTensor(img image.Image) tensor.Tensor {
	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Dx() != DetectorWidth || src.Rect.Dy() != DetectorHeight {
		src = ResizeForDetection(img)
	}

	const plane = DetectorWidth * DetectorHeight
	out := tensor.New(1, 3, DetectorHeight, DetectorWidth)

	for y := 0; y < DetectorHeight; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+DetectorWidth*4]
		for x := 0; x < DetectorWidth; x++ {
			px := row[x*4 : x*4+3]
			idx := y*DetectorWidth + x
			for c := 0; c < 3; c++ {
				out.Data[c*plane+idx] = (float32(px[c]) - detectorMean[c]) / detectorStd[c]
			}
		}
	}

	return out
}
