package easyocr

import (
	ocrerrors "github.com/ironsheep/easyocr-go/internal/errors"
)

// Error is the structured error returned by the pipeline. Use errors.As to
// read its Code and Path.
type Error = ocrerrors.Error

// Sentinels for errors.Is. Every pipeline error matches exactly one.
var (
	// ErrModelLoad: a model file is missing or the engine rejected it.
	ErrModelLoad = ocrerrors.ModelLoad

	// ErrMissingAsset: the character file for a non-Latin language is missing.
	ErrMissingAsset = ocrerrors.MissingAsset

	// ErrInvalidRegion: the region to recognize has zero width or height.
	ErrInvalidRegion = ocrerrors.InvalidRegion

	// ErrInference: a model run failed or produced an unusable output.
	ErrInference = ocrerrors.Inference
)
