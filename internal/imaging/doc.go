// Package imaging converts pixel buffers into the tensors the detector and
// recognizer models were trained on, and renders results back onto images.
//
// # Detector Input
//
// ResizeForDetection scales any input to exactly 800x608 with a linear
// filter. DetectorTensor lays the result out as [1,3,608,800] (batch,
// channel, height, width) in R, G, B order and normalizes every sample as
// (v - mean[c]) / std[c] with ImageNet statistics in 0-255 space.
//
// # Recognizer Input
//
// RecognizerInput crops a bounding box out of the resized image, converts it
// to 8-bit luma, scales it to a height of 64 keeping the aspect ratio (width
// capped at 1000) and writes a [1,1,64,1000] tensor. Columns past the scaled
// width repeat the last real column. Samples are mapped to [-1, 1].
//
// These constants are an external contract with the exported models and are
// not configurable.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner.
// Regions are inclusive at the top-left and exclusive at the bottom-right.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, BMP, TIFF and WebP files. Content type is
// sniffed from the bytes, not the file extension. The cache is safe for
// concurrent use.
package imaging
