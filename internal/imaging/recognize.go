package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/easyocr-go/internal/detection"
	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
	"github.com/ironsheep/easyocr-go/internal/tensor"
)

// Recognizer input geometry.
const (
	RecognizerHeight   = 64
	RecognizerMaxWidth = 1000
)

// RecognitionCrop is the recognizer-ready view of one bounding box.
type RecognitionCrop struct {
	// Tensor is the [1,1,64,1000] recognizer input.
	Tensor tensor.Tensor

	// Region is the integer crop taken from the source image.
	Region image.Rectangle

	// Width is the width of the resized crop before edge padding.
	Width int

	// Resized is the grayscale crop scaled to Width x RecognizerHeight.
	Resized *image.NRGBA
}

// CropRect converts a floating-point box to the integer crop rectangle,
// truncating left/top and width/height, then clipping to bounds.
func CropRect(box detection.Box, bounds image.Rectangle) image.Rectangle {
	x := int(box.Left)
	y := int(box.Top)
	w := int(box.Right - box.Left)
	h := int(box.Bottom - box.Top)
	r := image.Rect(x, y, x+w, y+h).Add(bounds.Min)
	return r.Intersect(bounds)
}

// ResizedWidth is the recognizer width for a crop of w x h pixels: the width
// after scaling the height to RecognizerHeight, rounded up and capped.
func ResizedWidth(w, h int) int {
	scale := float64(RecognizerHeight) / float64(h)
	return int(math.Min(RecognizerMaxWidth, math.Ceil(float64(w)*scale)))
}

// Grayscale converts img to 8-bit luma using 0.299R + 0.587G + 0.114B,
// truncated.
func Grayscale(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			out[x] = uint8(0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2]))
		}
	}

	return dst
}

// RecognizerInput crops box out of img and produces the recognizer tensor.
//
// The crop is converted to grayscale, resized to a height of 64 while keeping
// its aspect ratio (width capped at 1000), and written row by row into a
// [1,1,64,1000] tensor. Columns past the resized width repeat the last real
// column. Samples are mapped from 0-255 to [-1, 1].
func RecognizerInput(img image.Image, box detection.Box) (*RecognitionCrop, error) {
	region := CropRect(box, img.Bounds())
	if region.Dy() <= 0 {
		return nil, ocrerrors.NewInvalidRegionError("crop height is zero for box %s", box)
	}
	if region.Dx() <= 0 {
		return nil, ocrerrors.NewInvalidRegionError("crop width is zero for box %s", box)
	}

	gray := Grayscale(imaging.Crop(img, region))
	newW := ResizedWidth(region.Dx(), region.Dy())
	resized := imaging.Resize(gray, newW, RecognizerHeight, imaging.Linear)

	out := tensor.New(1, 1, RecognizerHeight, RecognizerMaxWidth)
	for row := 0; row < RecognizerHeight; row++ {
		src := resized.Pix[row*resized.Stride : row*resized.Stride+newW*4]
		dst := out.Data[row*RecognizerMaxWidth : (row+1)*RecognizerMaxWidth]
		for col := 0; col < RecognizerMaxWidth; col++ {
			c := col
			if c >= newW {
				c = newW - 1
			}
			dst[col] = (float32(src[c*4])/255 - 0.5) / 0.5
		}
	}

	return &RecognitionCrop{
		Tensor:  out,
		Region:  region,
		Width:   newW,
		Resized: resized,
	}, nil
}
