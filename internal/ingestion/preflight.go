package ingestion

import (
	"strings"

	"github.com/reviewlens/reviewlens/internal/domain"
)

// reviewHeaderCandidates is the fixed set a header must hint at for a file
// to be considered a plausible review export.
var reviewHeaderCandidates = []string{"review", "text", "comment", "feedback", "content"}

// PreflightResult is the outcome of the cheap structural gate run before a
// user is asked to confirm a mapping.
type PreflightResult struct {
	IsValid bool                `json:"isValid"`
	Errors  []string            `json:"errors"`
	Preview []map[string]string `json:"preview"`
}

// Preflight decides whether raw text is plausibly processable: at least a
// header row plus one data row, and at least one review-like column. On
// success it returns a small naive preview for human display.
//
// This check is intentionally cheaper and less strict than full ingestion.
// It splits lines on bare commas with quote stripping and performs no type
// coercion, so it must never serve as the correctness gate for final
// processing.
func Preflight(raw string) PreflightResult {
	result := PreflightResult{
		Errors:  []string{},
		Preview: []map[string]string{},
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		result.Errors = append(result.Errors, "CSV file must have a header row and at least one data row")
		return result
	}

	headers := splitNaive(lines[0])

	hasReviewColumn := false
	for _, header := range headers {
		lowered := strings.ToLower(header)
		for _, candidate := range reviewHeaderCandidates {
			if strings.Contains(lowered, candidate) {
				hasReviewColumn = true
				break
			}
		}
		if hasReviewColumn {
			break
		}
	}

	if !hasReviewColumn {
		result.Errors = append(result.Errors,
			"CSV must contain a review text column (e.g. review, text, comment, feedback, or content)")
		return result
	}

	records := make([]domain.RawRecord, 0, previewRowLimit)
	for _, line := range lines[1:] {
		if len(records) >= previewRowLimit {
			break
		}
		cells := splitNaive(line)
		record := make(domain.RawRecord, len(headers))
		for idx, header := range headers {
			if idx < len(cells) {
				record[header] = cells[idx]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	result.IsValid = true
	result.Preview = BuildPreview(headers, records)
	return result
}

// splitNaive breaks a line on commas and strips surrounding whitespace and
// double quotes from each cell. Embedded commas inside quoted fields are
// knowingly mishandled here; the full parser owns correctness.
func splitNaive(line string) []string {
	parts := strings.Split(strings.TrimRight(line, "\r"), ",")
	cells := make([]string, len(parts))
	for idx, part := range parts {
		cells[idx] = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"`))
	}
	return cells
}
