package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/ironsheep/easyocr-go/internal/detection"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBoxColor is used when no outline colour is given or it fails to parse.
const DefaultBoxColor = "#FF0000"

// AnnotateResult contains an image with a recognized region outlined.
type AnnotateResult struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Box         detection.Box `json:"box"`
	ImageBase64 string        `json:"image_base64"`
	MimeType    string        `json:"mime_type"`
}

// DrawBox returns a copy of img with box outlined in a 2 pixel stroke.
// colorHex accepts "#RRGGBB"; invalid values fall back to DefaultBoxColor.
func DrawBox(img image.Image, box detection.Box, colorHex string) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	stroke := parseBoxColor(colorHex)
	r := box.Rect().Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return result
	}

	const thickness = 2
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			result.Set(x, r.Min.Y+t, stroke)
			result.Set(x, r.Max.Y-1-t, stroke)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			result.Set(r.Min.X+t, y, stroke)
			result.Set(r.Max.X-1-t, y, stroke)
		}
	}

	return result
}

// Annotate outlines box on img and returns the result as base64 PNG.
func Annotate(img image.Image, box detection.Box, colorHex string) (*AnnotateResult, error) {
	result := DrawBox(img, box, colorHex)

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       result.Bounds().Dx(),
		Height:      result.Bounds().Dy(),
		Box:         box,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func parseBoxColor(hex string) color.RGBA {
	if hex == "" {
		hex = DefaultBoxColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultBoxColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
