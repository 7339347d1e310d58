// Package baseline runs Tesseract (via gosseract/v2) over the same images the
// ONNX pipeline reads, so the two readings can be compared.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Tesseract language codes differ from the recognizer tags: "eng" rather than
// "en", "fra" rather than "fr", "jpn" rather than "ja". LanguageFor maps the
// common ones.
//
// # Comparison
//
// Compare reports whether two readings match after trimming and how similar
// they are by rune edit distance. The match rule treats trailing whitespace and
// CRLF line endings as insignificant.
package baseline
