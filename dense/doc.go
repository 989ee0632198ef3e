// Package dense provides the row-major float64 storage behind descriptor values
// and gradients.
//
// A Matrix keeps its elements in one flat slice (offset = i*cols + j), so a
// sample row is a contiguous sub-slice that calculators fill in place.
// Zero-sized shapes are legal: a descriptor with no selected samples has zero
// rows.
package dense
