package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"print_shop_sync/internal/models"
)

type fastPlatformOrder struct {
	OrderID        string `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	Quantity       int    `json:"quantity"`
	DecorationType string `json:"decoration_type"`
	DeliveryDate   string `json:"delivery_date"`
	Status         string `json:"status"`
	CustomerInfo   *struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	} `json:"customer_info,omitempty"`
}

type fastPlatformOrderList struct {
	Data []fastPlatformOrder `json:"data"`
}

var fastPlatformStatusMap = map[string]models.OrderStatus{
	"new":           models.StatusPending,
	"in_production": models.StatusPrinting,
	"quality_check": models.StatusQC,
	"packing":       models.StatusPacking,
	"shipped":       models.StatusShipped,
	"completed":     models.StatusCompleted,
}

var fastPlatformDecorationMap = map[string]models.DecorationMethod{
	"screen_printing": models.DecorationScreenPrint,
	"embroidery":      models.DecorationEmbroidery,
	"dtg":             models.DecorationDTG,
	"sublimation":     models.DecorationSublimation,
	"heat_transfer":   models.DecorationHeatTransfer,
}

// FastPlatformAdapter syncs from the Fast Platform REST API (X-API-Key).
type FastPlatformAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewFastPlatformAdapter(baseURL, apiKey string) *FastPlatformAdapter {
	return &FastPlatformAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *FastPlatformAdapter) Platform() models.Platform {
	return models.PlatformFastPlatform
}

func (a *FastPlatformAdapter) FetchOrders(ctx context.Context) ([]models.Order, error) {
	if a.apiKey == "" {
		log.Println("Warning: Fast Platform API key not configured")
		return nil, fmt.Errorf("fast platform: %w", ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("fast platform: failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fast platform: %w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("fast platform: %w: %s", ErrAuthFailure, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fast platform: %w: %s", ErrSourceUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fast platform: %w: %v", ErrSourceUnavailable, err)
	}

	var list fastPlatformOrderList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("fast platform: %w: %v", ErrMalformedPayload, err)
	}

	orders := make([]models.Order, 0, len(list.Data))
	for _, raw := range list.Data {
		orders = append(orders, normalizeFastPlatformOrder(raw))
	}
	return orders, nil
}

func normalizeFastPlatformOrder(raw fastPlatformOrder) models.Order {
	status, ok := fastPlatformStatusMap[raw.Status]
	if !ok {
		status = models.StatusPending
	}
	decoration, ok := fastPlatformDecorationMap[raw.DecorationType]
	if !ok {
		decoration = models.DecorationOther
	}

	order := models.Order{
		OrderNumber:      raw.OrderNumber,
		Platform:         models.PlatformFastPlatform,
		Quantity:         raw.Quantity,
		DecorationMethod: decoration,
		DueDate:          parseDueDate(raw.DeliveryDate),
		Status:           status,
	}
	if raw.CustomerInfo != nil {
		order.CustomerName = raw.CustomerInfo.Name
		order.CustomerEmail = raw.CustomerInfo.Email
	}
	if details, err := json.Marshal(raw); err == nil {
		order.OrderDetails = string(details)
	}
	return order
}

func (a *FastPlatformAdapter) TestConnection(ctx context.Context) bool {
	if a.apiKey == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/status", nil)
	if err != nil {
		return false
	}
	req.Header.Set("X-API-Key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
