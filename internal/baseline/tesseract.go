package baseline

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one Tesseract word with its location and confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result is the Tesseract reading of one image.
type Result struct {
	// Text is all recognized text with original spacing and newlines.
	Text string `json:"text"`

	// Words may be empty if bounding box extraction fails; Text is still set.
	Words []Word `json:"words"`
}

// Engine runs Tesseract with a fixed configuration.
type Engine struct {
	// Language is the Tesseract language code, for example "eng".
	Language string

	// TessdataPrefix overrides the language data directory. Empty uses the
	// Tesseract default (TESSDATA_PREFIX or the build-time path).
	TessdataPrefix string
}

// NewEngine returns an Engine for language, defaulting to DefaultLanguage.
func NewEngine(language string) *Engine {
	if language == "" {
		language = DefaultLanguage
	}
	return &Engine{Language: language}
}

func (e *Engine) client() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if e.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(e.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return client, nil
}

// ExtractFile performs OCR on an image file.
func (e *Engine) ExtractFile(imagePath string) (*Result, error) {
	client, err := e.client()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return run(client)
}

// ExtractImage performs OCR on an in-memory image. The image is handed to
// Tesseract as PNG bytes.
func (e *Engine) ExtractImage(img image.Image) (*Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client, err := e.client()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return run(client)
}

func run(client *gosseract.Client) (*Result, error) {
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &Result{Text: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{Text: text, Words: words}, nil
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

var tesseractLanguages = map[string]string{
	"en":     "eng",
	"fr":     "fra",
	"de":     "deu",
	"es":     "spa",
	"it":     "ita",
	"pt":     "por",
	"nl":     "nld",
	"ja":     "jpn",
	"ko":     "kor",
	"ch_sim": "chi_sim",
	"ch_tra": "chi_tra",
	"th":     "tha",
	"ru":     "rus",
}

// LanguageFor maps a recognizer language tag to a Tesseract language code.
// Unknown tags fall back to DefaultLanguage.
func LanguageFor(tag string) string {
	if code, ok := tesseractLanguages[tag]; ok {
		return code
	}
	return DefaultLanguage
}
