// Package easyocr reads text from images with the EasyOCR detector and
// recognizer models exported to ONNX.
//
// A Recognizer is created once per language and reused:
//
//	r, err := easyocr.New("models", easyocr.WithLanguage("en"))
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	results, err := r.ReadFile("receipt.png")
//
// # Pipeline
//
// Every call resizes the input to 800x608, runs the detector, reduces its
// score map to one bounding box, crops that box, converts it to grayscale at
// a height of 64 and runs the recognizer. The recognizer output is decoded
// with greedy CTC against the language's character set.
//
// # Model Directory
//
// The model directory holds EasyOCRDetector.onnx and EasyOCRRecognizer.onnx.
// Languages outside the Latin family need a character file,
// <tag>_char.txt or <tag>.txt, in a "character" directory next to the model
// directory:
//
//	assets/
//	  models/EasyOCRDetector.onnx
//	  models/EasyOCRRecognizer.onnx
//	  character/ja_char.txt
//
// # Errors
//
// Errors match one of ErrModelLoad, ErrMissingAsset, ErrInvalidRegion or
// ErrInference with errors.Is. An empty or unreadable detector result is not
// an error: the whole image becomes the region.
package easyocr
