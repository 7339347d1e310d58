// Package charset builds the ordered alphabets that map recognizer class
// indices to characters.
//
// Class 0 of every recognizer output is the CTC blank. Class i (i >= 1) maps
// to the rune at position i-1 of the Charset. Length and order are fixed by
// the model that was trained against them and must not be altered.
package charset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
)

// DirName is the asset directory that sits next to the model directory.
const DirName = "character"

// Latin is the latin_g2 alphabet: digits, symbols, space, euro sign, A-Z,
// a-z, the Latin-extended block, and a trailing newline.
const Latin = "0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ €" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ªÀÁÂÃÄÅÆÇÈÉÊËÍÎÑÒÓÔÕÖØÚÛÜÝàáâãäåæçèéêëìíîïñòóôõöøùúûüýÿąęĮįıŁłŒœŠšųŽž" +
	"\n"

// Symbols is prepended to the glyphs read from a language file.
const Symbols = "0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ \n"

// latinTags are the languages served by the latin_g2 recognizer.
var latinTags = map[string]bool{
	"af": true, "az": true, "bs": true, "cs": true, "cy": true, "da": true,
	"de": true, "en": true, "es": true, "et": true, "fr": true, "ga": true,
	"hr": true, "hu": true, "id": true, "is": true, "it": true, "ku": true,
	"la": true, "lt": true, "lv": true, "mi": true, "ms": true, "mt": true,
	"nl": true, "no": true, "oc": true, "pi": true, "pl": true, "pt": true,
	"ro": true, "rs_latin": true, "sk": true, "sl": true, "sq": true,
	"sv": true, "sw": true, "tl": true, "tr": true, "uz": true, "vi": true,
	"latin": true,
}

// Charset is an immutable, rune-indexed alphabet.
type Charset struct {
	tag   string
	runes []rune
}

// IsLatin reports whether tag uses the built-in Latin alphabet.
func IsLatin(tag string) bool {
	return latinTags[strings.ToLower(tag)]
}

// Dir returns the character asset directory for a model directory.
func Dir(modelDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(modelDir)), DirName)
}

// Load returns the alphabet for tag. Latin-family tags never touch the file
// system; any other tag is read from Dir(modelDir).
func Load(tag, modelDir string) (*Charset, error) {
	if IsLatin(tag) {
		return New(tag, Latin), nil
	}

	glyphs, err := readGlyphs(Dir(modelDir), tag)
	if err != nil {
		return nil, err
	}
	return New(tag, Symbols+glyphs), nil
}

// New wraps an explicit alphabet string.
func New(tag, alphabet string) *Charset {
	return &Charset{tag: tag, runes: []rune(alphabet)}
}

// readGlyphs reads <tag>_char.txt, falling back to <tag>.txt, and strips
// line breaks.
func readGlyphs(dir, tag string) (string, error) {
	candidates := []string{
		filepath.Join(dir, tag+"_char.txt"),
		filepath.Join(dir, tag+".txt"),
	}

	var lastErr error
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				lastErr = err
				continue
			}
			return "", ocrerrors.NewMissingAssetError(path, err)
		}
		return strings.NewReplacer("\r", "", "\n", "").Replace(string(data)), nil
	}

	return "", ocrerrors.NewMissingAssetError(candidates[0], fmt.Errorf("no character file for language %q: %w", tag, lastErr))
}

// Tag returns the language tag the alphabet was loaded for.
func (c *Charset) Tag() string {
	return c.tag
}

// Len returns the number of characters, excluding the blank class.
func (c *Charset) Len() int {
	return len(c.runes)
}

// At returns the character at position i. ok is false when i is out of range.
func (c *Charset) At(i int) (r rune, ok bool) {
	if i < 0 || i >= len(c.runes) {
		return 0, false
	}
	return c.runes[i], true
}

// String returns the full alphabet.
func (c *Charset) String() string {
	return string(c.runes)
}
