package ingestion

import (
	"strings"

	"github.com/reviewlens/reviewlens/internal/domain"
)

// Candidate keyword tables for column detection. Each list is scanned in
// priority order; the first candidate that is a case-insensitive substring
// of any header wins, taking the first matching header on ties. The tables
// are package constants in spirit: never mutated after init.
var (
	reviewTextCandidates = []string{
		"review_text", "review text", "review", "text", "comment",
		"feedback", "content", "message", "body", "description",
	}
	ratingCandidates = []string{
		"rating", "score", "stars", "star", "rate",
	}
	dateCandidates = []string{
		"date", "time", "created", "posted", "timestamp",
	}
	variationCandidates = []string{
		"size", "color", "colour", "model", "style", "variant",
		"type", "category", "variation",
	}
)

// Classify proposes a column mapping for the given headers. Matching is
// deliberately non-exclusive: a header claimed by one logical field is
// still eligible for another, so a column like "review_date" may serve
// both text and date until a human edits the proposal. ReviewText always
// resolves, falling back to the first header when no candidate matches;
// the remaining fields stay unset when nothing matches.
func Classify(headers []string) domain.ColumnMapping {
	mapping := domain.ColumnMapping{
		ReviewText:    matchHeader(headers, reviewTextCandidates),
		Rating:        matchHeader(headers, ratingCandidates),
		Date:          matchHeader(headers, dateCandidates),
		VariationName: matchHeader(headers, variationCandidates),
	}

	if mapping.ReviewText == "" && len(headers) > 0 {
		mapping.ReviewText = headers[0]
	}

	return mapping
}

func matchHeader(headers []string, candidates []string) string {
	for _, candidate := range candidates {
		for _, header := range headers {
			if strings.Contains(strings.ToLower(header), candidate) {
				return header
			}
		}
	}
	return ""
}
