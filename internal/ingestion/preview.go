package ingestion

import "github.com/reviewlens/reviewlens/internal/domain"

// previewRowLimit caps every human-facing sample so a confirmation screen
// never receives the full dataset.
const previewRowLimit = 6

// BuildPreview returns at most previewRowLimit rows as header->value maps
// for display. It performs no coercion or validation; the sample only
// exists so a human can judge a proposed mapping.
func BuildPreview(headers []string, records []domain.RawRecord) []map[string]string {
	limit := len(records)
	if limit > previewRowLimit {
		limit = previewRowLimit
	}

	preview := make([]map[string]string, 0, limit)
	for _, record := range records[:limit] {
		row := make(map[string]string, len(headers))
		for _, header := range headers {
			row[header] = record[header]
		}
		preview = append(preview, row)
	}
	return preview
}
