package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"print_shop_sync/internal/models"
	"print_shop_sync/pkg/filemaker"
)

const (
	shopworksLayout = "Orders"
	// Each pass refetches the last 30 days in full; Shopworks has no change
	// feed and the keyed upsert makes the repetition harmless.
	shopworksWindow    = 30 * 24 * time.Hour
	shopworksFindLimit = 1000
)

var shopworksStatusMap = map[string]models.OrderStatus{
	"Pending":       models.StatusPending,
	"In Production": models.StatusPrinting,
	"Embroidering":  models.StatusEmbroidery,
	"QC":            models.StatusQC,
	"Packing":       models.StatusPacking,
	"Shipped":       models.StatusShipped,
	"Complete":      models.StatusCompleted,
}

var shopworksDecorationMap = map[string]models.DecorationMethod{
	"Screen Print":  models.DecorationScreenPrint,
	"Embroidery":    models.DecorationEmbroidery,
	"DTG":           models.DecorationDTG,
	"Sublimation":   models.DecorationSublimation,
	"Heat Transfer": models.DecorationHeatTransfer,
}

// ShopworksAdapter syncs from the in-house Shopworks FileMaker database. The
// filemaker client owns the session lifecycle; this adapter only shapes data.
type ShopworksAdapter struct {
	client *filemaker.Client
}

func NewShopworksAdapter(client *filemaker.Client) *ShopworksAdapter {
	return &ShopworksAdapter{client: client}
}

func (a *ShopworksAdapter) Platform() models.Platform {
	return models.PlatformShopworks
}

func (a *ShopworksAdapter) FetchOrders(ctx context.Context) ([]models.Order, error) {
	if !a.client.Configured() {
		log.Println("Warning: FileMaker credentials not configured")
		return nil, fmt.Errorf("shopworks: %w", ErrNotConfigured)
	}

	dueAfter := time.Now().Add(-shopworksWindow)
	records, err := a.client.FindOrders(ctx, shopworksLayout, dueAfter, shopworksFindLimit)
	if err != nil {
		return nil, fmt.Errorf("shopworks: %w", classifyFileMakerError(err))
	}

	orders := make([]models.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, normalizeShopworksRecord(record))
	}
	return orders, nil
}

// classifyFileMakerError folds client errors into the adapter taxonomy.
func classifyFileMakerError(err error) error {
	switch {
	case errors.Is(err, filemaker.ErrAuthentication):
		return fmt.Errorf("%w: %v", ErrAuthFailure, err)
	case errors.Is(err, filemaker.ErrBadResponse):
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	default:
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
}

func normalizeShopworksRecord(record filemaker.Record) models.Order {
	fields := record.FieldData

	status, ok := shopworksStatusMap[fields.Status]
	if !ok {
		status = models.StatusPending
	}
	decoration, ok := shopworksDecorationMap[fields.DecorationMethod]
	if !ok {
		decoration = models.DecorationOther
	}

	order := models.Order{
		OrderNumber:      fields.OrderNumber,
		Platform:         models.PlatformShopworks,
		CustomerName:     fields.CustomerName,
		Quantity:         fields.Quantity,
		DecorationMethod: decoration,
		DueDate:          parseDueDate(fields.DueDate),
		Status:           status,
	}
	if details, err := json.Marshal(fields); err == nil {
		order.OrderDetails = string(details)
	}
	return order
}

func (a *ShopworksAdapter) TestConnection(ctx context.Context) bool {
	if !a.client.Configured() {
		return false
	}
	_, err := a.client.Token(ctx)
	return err == nil
}
