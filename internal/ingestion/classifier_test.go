package ingestion

import "testing"

func TestClassifyResolvesLogicalFields(t *testing.T) {
	headers := []string{"Star Rating", "Review Text", "Date Posted"}

	mapping := Classify(headers)

	if mapping.Rating != "Star Rating" {
		t.Fatalf("expected rating -> Star Rating, got %q", mapping.Rating)
	}
	if mapping.ReviewText != "Review Text" {
		t.Fatalf("expected reviewText -> Review Text, got %q", mapping.ReviewText)
	}
	if mapping.Date != "Date Posted" {
		t.Fatalf("expected date -> Date Posted, got %q", mapping.Date)
	}
	if mapping.VariationName != "" {
		t.Fatalf("expected no variation column, got %q", mapping.VariationName)
	}
}

func TestClassifyCandidatePriority(t *testing.T) {
	// "comment" appears in both headers; the higher priority candidate
	// "review" must win even though it occurs later in header order.
	headers := []string{"comment_id", "customer_review"}

	mapping := Classify(headers)
	if mapping.ReviewText != "customer_review" {
		t.Fatalf("expected customer_review to win, got %q", mapping.ReviewText)
	}
}

func TestClassifyFirstHeaderWinsOnTie(t *testing.T) {
	headers := []string{"review_summary", "review_detail"}

	mapping := Classify(headers)
	if mapping.ReviewText != "review_summary" {
		t.Fatalf("expected first matching header, got %q", mapping.ReviewText)
	}
}

func TestClassifyReviewTextFallback(t *testing.T) {
	headers := []string{"id", "qty"}

	mapping := Classify(headers)
	if mapping.ReviewText != "id" {
		t.Fatalf("expected fallback to first header, got %q", mapping.ReviewText)
	}
	if mapping.Rating != "" || mapping.Date != "" || mapping.VariationName != "" {
		t.Fatalf("expected other fields unset, got %+v", mapping)
	}
}

func TestClassifyMatchingIsNonExclusive(t *testing.T) {
	// One header can satisfy two logical fields; exclusivity is left to
	// the human confirmation step.
	headers := []string{"review_date"}

	mapping := Classify(headers)
	if mapping.ReviewText != "review_date" {
		t.Fatalf("expected reviewText -> review_date, got %q", mapping.ReviewText)
	}
	if mapping.Date != "review_date" {
		t.Fatalf("expected date -> review_date, got %q", mapping.Date)
	}
}

func TestClassifyDetectsVariation(t *testing.T) {
	headers := []string{"review", "rating", "date", "Color Name"}

	mapping := Classify(headers)
	if mapping.VariationName != "Color Name" {
		t.Fatalf("expected variation -> Color Name, got %q", mapping.VariationName)
	}
}

func TestClassifyEmptyHeaders(t *testing.T) {
	mapping := Classify(nil)
	if mapping.ReviewText != "" {
		t.Fatalf("expected empty mapping for no headers, got %+v", mapping)
	}
}
