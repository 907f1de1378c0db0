package domain

import (
	"fmt"
	"strings"
)

// ColumnMapping associates the logical review fields with source column
// headers. ReviewText is the only field a batch cannot be processed
// without; the others degrade to row-level errors or absence.
type ColumnMapping struct {
	ReviewText    string `json:"reviewText"`
	Rating        string `json:"rating,omitempty"`
	Date          string `json:"date,omitempty"`
	VariationID   string `json:"variationId,omitempty"`
	VariationName string `json:"variationName,omitempty"`
}

// VariationHeader returns the header that drives the canonical variation
// value. VariationName takes precedence over VariationID; empty when the
// mapping carries no variation column.
func (m ColumnMapping) VariationHeader() string {
	if m.VariationName != "" {
		return m.VariationName
	}
	return m.VariationID
}

// ConsumedHeaders reports the headers claimed by the mapping. Everything
// outside this set is passed through as metadata.
func (m ColumnMapping) ConsumedHeaders() map[string]bool {
	consumed := make(map[string]bool, 4)
	for _, header := range []string{m.ReviewText, m.Rating, m.Date, m.VariationID, m.VariationName} {
		if header != "" {
			consumed[header] = true
		}
	}
	return consumed
}

// Validate checks the mapping against the headers of one batch. Every
// referenced header must exist in the batch and ReviewText must be set.
func (m ColumnMapping) Validate(headers []string) error {
	if strings.TrimSpace(m.ReviewText) == "" {
		return fmt.Errorf("mapping must name a review text column")
	}

	known := make(map[string]bool, len(headers))
	for _, header := range headers {
		known[header] = true
	}

	fields := map[string]string{
		"reviewText":    m.ReviewText,
		"rating":        m.Rating,
		"date":          m.Date,
		"variationId":   m.VariationID,
		"variationName": m.VariationName,
	}
	for field, header := range fields {
		if header == "" {
			continue
		}
		if !known[header] {
			return fmt.Errorf("mapping field %s references unknown column %q", field, header)
		}
	}
	return nil
}

// VariationOverride is a user supplied rename and optional annotation for
// one raw variation value encountered during confirmation.
type VariationOverride struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// VariationOverrides is keyed by the raw variation value exactly as it
// appeared in the source data. Raw values without an entry pass through
// unmodified.
type VariationOverrides map[string]VariationOverride
