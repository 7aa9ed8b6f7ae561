// Package analyzer provides the heuristic context analysis shown to the
// reviewer: a recommended viewing orientation, a suggested category and
// priority for a point, metadata insights and focus tips, plus the
// display ordering and grouping of annotations.
//
// Every function is a deterministic table lookup over its inputs. There is no
// internal state and nothing can fail; callers may invoke these functions as
// often as they like, typically after every workflow change.
//
// # Study type
//
// Several rules depend on the study type of an image. It is resolved from the
// image metadata in a fixed order:
//
//  1. the "studyType" field
//  2. the "bodyPart" field
//  3. keywords in "seriesDescription" (brain/head, spine/spinal,
//     chest/thorax, abdomen/abdominal)
//
// # Central region
//
// A point is central when its image-relative position lies strictly inside
// (0.25, 0.75) on both axes.
package analyzer
