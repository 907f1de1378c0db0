package ingestion

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/reviewlens/reviewlens/internal/domain"
)

const minReviewTextLength = 5

// Rating bounds. Out-of-range values are clamped rather than rejected
// because source rating scales vary (10-point scales, percentage exports).
const (
	minRating = 1
	maxRating = 5
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Normalize converts raw records into canonical reviews under a confirmed
// mapping. Rows are processed independently: a failed row contributes a
// RowError and never aborts the batch. The only fatal condition is a
// mapping that does not fit the batch headers at all.
func Normalize(headers []string, records []domain.RawRecord, mapping domain.ColumnMapping, overrides domain.VariationOverrides) (domain.IngestionResult, error) {
	result := domain.IngestionResult{
		Reviews: []domain.CanonicalReview{},
		Errors:  []domain.RowError{},
	}

	if err := mapping.Validate(headers); err != nil {
		return result, err
	}

	result.TotalRows = len(records)
	consumed := mapping.ConsumedHeaders()
	variationHeader := mapping.VariationHeader()

	for idx, record := range records {
		// 1-based data position offset by the header row.
		rowNumber := idx + 2

		text := strings.TrimSpace(record[mapping.ReviewText])
		if text == "" {
			result.Errors = append(result.Errors, domain.RowError{Row: rowNumber, Reason: "Review text is missing"})
			continue
		}
		if utf8.RuneCountInString(text) < minReviewTextLength {
			result.Errors = append(result.Errors, domain.RowError{Row: rowNumber, Reason: "Review text is too short (minimum 5 characters)"})
			continue
		}

		rating, err := parseRating(record[mapping.Rating])
		if err != nil {
			result.Errors = append(result.Errors, domain.RowError{Row: rowNumber, Reason: "Invalid rating value"})
			continue
		}

		date, err := parseTimestamp(record[mapping.Date])
		if err != nil {
			result.Errors = append(result.Errors, domain.RowError{Row: rowNumber, Reason: "Invalid date value"})
			continue
		}

		metadata := make(map[string]string)
		for _, header := range headers {
			if consumed[header] {
				continue
			}
			metadata[header] = record[header]
		}

		var variation string
		if variationHeader != "" {
			raw := strings.TrimSpace(record[variationHeader])
			variation = raw
			if override, ok := overrides[raw]; ok && raw != "" {
				if override.Name != "" {
					variation = override.Name
					if override.Name != raw {
						metadata[domain.MetadataOriginalVariation] = raw
					}
				}
				if override.Description != "" {
					metadata[domain.MetadataVariationDescription] = override.Description
				}
			}
		}

		if len(metadata) == 0 {
			metadata = nil
		}

		result.Reviews = append(result.Reviews, domain.CanonicalReview{
			Text:             text,
			Rating:           rating,
			Date:             date,
			ProductVariation: variation,
			Metadata:         metadata,
		})
	}

	result.ValidRows = len(result.Reviews)
	return result, nil
}

func parseRating(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if value < minRating {
		return minRating, nil
	}
	if value > maxRating {
		return maxRating, nil
	}
	return value, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errUnrecognizedTimestamp
}

var errUnrecognizedTimestamp = errors.New("unrecognized timestamp format")
