// Package imaging handles the pixel side of a review session.
//
// The review core works on image dimensions and coordinates only. This
// package supplies those dimensions from real files and renders diagnostic
// previews of annotations:
//
//   - ImageCache and LoadMedicalImage decode a pixel source (PNG, JPEG, GIF,
//     BMP, TIFF) with EXIF auto-orientation and build the session's image
//     record from its actual size.
//   - RenderPreview crops an annotation's neighbourhood, optionally applies
//     level/width windowing and marker overlays, and returns a base64 PNG.
//   - MarkerColor assigns each priority a fixed colour shared by overlays and
//     the marker list.
//   - MeasureDistance measures between two annotations.
//   - RegionIntensity summarises grayscale intensity around an annotation and
//     suggests a windowing for it.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Annotation coordinates are
// floating point in the same space; regions extend right and down from
// (x, y).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The rendering functions are
// stateless and never modify their input image.
package imaging
