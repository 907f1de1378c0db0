package domain

import "time"

// Metadata keys written by the normalizer when a variation override renames
// or annotates a raw variation value.
const (
	MetadataOriginalVariation    = "originalVariationName"
	MetadataVariationDescription = "variationDescription"
)

// RawRecord maps a source column header to the raw cell value of one data
// row. Values are carried verbatim; trimming and coercion happen during
// normalization.
type RawRecord map[string]string

// CanonicalReview is the normalized output unit of ingestion. It is created
// once per valid source row and never mutated afterwards.
type CanonicalReview struct {
	Text             string            `json:"text"`
	Rating           float64           `json:"rating"`
	Date             time.Time         `json:"date"`
	ProductVariation string            `json:"productVariation,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// RowError records why a single data row was rejected. Row numbers are
// 1-based file positions, so the first data row below the header reports as
// row 2.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// IngestionResult aggregates the outcome of normalizing one batch. Callers
// always receive successes and failures together; ValidRows equals
// len(Reviews).
type IngestionResult struct {
	Reviews   []CanonicalReview `json:"reviews"`
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	Errors    []RowError        `json:"errors"`
}
