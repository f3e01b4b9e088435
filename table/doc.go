// Package table holds the two long-lived MRIO inputs as immutable values:
//
//   - StressorTable (S): stressor rows × producer columns of direct intensities.
//   - LeontiefInverse (L): a square producer × producer table whose row and
//     column axes are the same Index.
//
// Both are built once by a constructor that copies and validates the raw
// values (finite cells, shape, unique labels) and expose only read
// accessors that return copies, so a single instance can be shared by any
// number of concurrent readers without coordination.
//
// BuildCatalog derives the sorted stressor/region/sector lists used by
// presentation layers.
package table
