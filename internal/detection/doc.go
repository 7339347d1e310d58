// Package detection turns detector output into the single text region that
// the recognizer reads.
//
// # Modes
//
// The region comes from one of two single-pass scans:
//
//   - Detector map: every cell of the [1,H,W,C] score map whose text score
//     exceeds TextThreshold extends the box; cells are scaled back to the
//     resized image by imageWidth/W and imageHeight/H.
//   - Content scan: every pixel with any channel below ContentThreshold
//     extends the box. This assumes dark text on a light background. It is
//     used in content mode or when the detector output cannot be interpreted.
//
// Both scans accumulate min/max coordinates, so the result does not depend on
// visiting order. When nothing qualifies the full image is returned rather than
// an error.
//
// # Coordinate System
//
// Boxes use the standard image convention: origin at the top-left, X to the
// right, Y downward. Detector boxes cover each positive cell in full, so
// Right/Bottom are exclusive. Content boxes end at the last content pixel.
//
// # Limitations
//
// Only one box is produced per image. Multiple text lines are merged into one
// enclosing region.
package detection
