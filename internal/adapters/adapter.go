package adapters

import (
	"context"
	"time"

	"print_shop_sync/internal/models"
)

// SourceAdapter translates one external platform's wire format into canonical
// orders. FetchOrders is a full refetch each call; the platforms offer no
// reliable change feed, and the store's upsert makes repetition safe. Retry
// policy belongs to the caller, never to the adapter.
type SourceAdapter interface {
	Platform() models.Platform
	FetchOrders(ctx context.Context) ([]models.Order, error)
	// TestConnection is a liveness probe for health reporting. It never
	// returns an error; any failure reads as false.
	TestConnection(ctx context.Context) bool
}

// parseDueDate accepts the date shapes the platforms emit. A zero time means
// the value was unparseable; the caller substitutes a fallback rather than
// dropping the record.
func parseDueDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
