package detection

import (
	"fmt"
	"image"
)

// Fixed extraction thresholds.
const (
	// TextThreshold is the detector score a cell must exceed to count as text.
	TextThreshold = 0.3

	// ContentThreshold is the channel value below which a pixel counts as
	// content in the content scan. It assumes a light background.
	ContentThreshold = 250
)

// Box is an axis-aligned rectangle in the coordinate space of the resized
// detector image. Left <= Right and Top <= Bottom always hold.
type Box struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Right  float32 `json:"right"`
	Bottom float32 `json:"bottom"`
}

// FullBox covers a whole w x h image.
func FullBox(w, h int) Box {
	return Box{Left: 0, Top: 0, Right: float32(w), Bottom: float32(h)}
}

// Width returns Right - Left.
func (b Box) Width() float32 {
	return b.Right - b.Left
}

// Height returns Bottom - Top.
func (b Box) Height() float32 {
	return b.Bottom - b.Top
}

// Rect returns the box as an integer rectangle, truncating each edge.
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.Left), int(b.Top), int(b.Right), int(b.Bottom))
}

func (b Box) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", b.Left, b.Top, b.Right, b.Bottom)
}

// DetectionMap is the detector score map, laid out as [1, H, W, C] with the
// text score in channel 0.
type DetectionMap struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

// NewDetectionMap validates a raw detector output of shape [1, H, W, C].
func NewDetectionMap(shape []int64, data []float32) (DetectionMap, error) {
	if len(shape) != 4 {
		return DetectionMap{}, fmt.Errorf("detector output has rank %d, want 4", len(shape))
	}
	if shape[0] != 1 {
		return DetectionMap{}, fmt.Errorf("detector output batch is %d, want 1", shape[0])
	}
	h, w, c := int(shape[1]), int(shape[2]), int(shape[3])
	if h <= 0 || w <= 0 || c <= 0 {
		return DetectionMap{}, fmt.Errorf("detector output shape %v has empty axis", shape)
	}
	if len(data) != h*w*c {
		return DetectionMap{}, fmt.Errorf("detector output shape %v needs %d values, got %d", shape, h*w*c, len(data))
	}
	return DetectionMap{Height: h, Width: w, Channels: c, Data: data}, nil
}

// Score returns the text score of cell (x, y).
func (m DetectionMap) Score(x, y int) float32 {
	return m.Data[(y*m.Width+x)*m.Channels]
}

// FromDetectionMap returns the smallest box enclosing every cell scoring above
// TextThreshold, scaled to an imageWidth x imageHeight image. Each positive
// cell contributes its full footprint; NaN scores never count. The full image
// is returned when no cell qualifies.
func FromDetectionMap(m DetectionMap, imageWidth, imageHeight int) Box {
	scaleX := float32(imageWidth) / float32(m.Width)
	scaleY := float32(imageHeight) / float32(m.Height)

	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !(m.Score(x, y) > TextThreshold) {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return FullBox(imageWidth, imageHeight)
	}

	return Box{
		Left:   float32(minX) * scaleX,
		Top:    float32(minY) * scaleY,
		Right:  float32(maxX+1) * scaleX,
		Bottom: float32(maxY+1) * scaleY,
	}
}

// FromContent returns the box spanning the first to the last pixel with any
// channel below ContentThreshold. Right and Bottom are the coordinates of the
// last content column and row, so a single content pixel yields an empty box.
// The full image is returned when no such pixel exists.
func FromContent(img image.Image) Box {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	minX, minY := width, height
	maxX, maxY := -1, -1

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isContent(img, bounds.Min.X+x, bounds.Min.Y+y) {
				continue
			}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return FullBox(width, height)
	}

	return Box{
		Left:   float32(minX),
		Top:    float32(minY),
		Right:  float32(maxX),
		Bottom: float32(maxY),
	}
}

// isContent compares 8-bit channel values against ContentThreshold.
func isContent(img image.Image, x, y int) bool {
	if nrgba, ok := img.(*image.NRGBA); ok {
		i := nrgba.PixOffset(x, y)
		p := nrgba.Pix[i : i+3]
		return p[0] < ContentThreshold || p[1] < ContentThreshold || p[2] < ContentThreshold
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return r>>8 < ContentThreshold || g>>8 < ContentThreshold || b>>8 < ContentThreshold
}
