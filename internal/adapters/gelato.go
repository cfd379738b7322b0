package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"print_shop_sync/internal/models"
)

type gelatoOrder struct {
	ID               string `json:"id"`
	OrderReferenceID string `json:"orderReferenceId"`
	Quantity         int    `json:"quantity"`
	DueDate          string `json:"dueDate"`
	Status           string `json:"status"`
	Customer         *struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
	} `json:"customer,omitempty"`
}

type gelatoOrderList struct {
	Orders []gelatoOrder `json:"orders"`
}

// gelatoStatusMap is the full vocabulary Gelato emits. Anything else falls
// back to pending by policy; unknown values never abort a sync.
var gelatoStatusMap = map[string]models.OrderStatus{
	"pending":    models.StatusPending,
	"processing": models.StatusPrinting,
	"shipped":    models.StatusShipped,
	"delivered":  models.StatusCompleted,
}

// GelatoAdapter syncs from the Gelato Connect API (Bearer API key).
type GelatoAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGelatoAdapter(baseURL, apiKey string) *GelatoAdapter {
	return &GelatoAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *GelatoAdapter) Platform() models.Platform {
	return models.PlatformGelato
}

func (a *GelatoAdapter) FetchOrders(ctx context.Context) ([]models.Order, error) {
	if a.apiKey == "" {
		log.Println("Warning: Gelato API key not configured")
		return nil, fmt.Errorf("gelato: %w", ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("gelato: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gelato: %w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("gelato: %w: %s", ErrAuthFailure, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("gelato: %w: %s", ErrSourceUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gelato: %w: %v", ErrSourceUnavailable, err)
	}

	var list gelatoOrderList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("gelato: %w: %v", ErrMalformedPayload, err)
	}

	orders := make([]models.Order, 0, len(list.Orders))
	for _, raw := range list.Orders {
		orders = append(orders, normalizeGelatoOrder(raw))
	}
	return orders, nil
}

// normalizeGelatoOrder maps one Gelato record onto the canonical shape. Pure;
// the raw record is kept verbatim on the order for audit.
func normalizeGelatoOrder(raw gelatoOrder) models.Order {
	status, ok := gelatoStatusMap[strings.ToLower(raw.Status)]
	if !ok {
		status = models.StatusPending
	}

	order := models.Order{
		OrderNumber: raw.OrderReferenceID,
		Platform:    models.PlatformGelato,
		Quantity:    raw.Quantity,
		// Gelato carries no decoration vocabulary; its catalogue is
		// screen-printed apparel.
		DecorationMethod: models.DecorationScreenPrint,
		DueDate:          parseDueDate(raw.DueDate),
		Status:           status,
	}
	if raw.Customer != nil {
		order.CustomerName = raw.Customer.Name
		order.CustomerEmail = raw.Customer.Email
	}
	if details, err := json.Marshal(raw); err == nil {
		order.OrderDetails = string(details)
	}
	return order
}

func (a *GelatoAdapter) TestConnection(ctx context.Context) bool {
	if a.apiKey == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
