package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"print_shop_sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFastPlatformOrder(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		decoration     string
		wantStatus     models.OrderStatus
		wantDecoration models.DecorationMethod
	}{
		{"new order", "new", "screen_printing", models.StatusPending, models.DecorationScreenPrint},
		{"in production", "in_production", "dtg", models.StatusPrinting, models.DecorationDTG},
		{"quality check", "quality_check", "embroidery", models.StatusQC, models.DecorationEmbroidery},
		{"packing", "packing", "sublimation", models.StatusPacking, models.DecorationSublimation},
		{"shipped", "shipped", "heat_transfer", models.StatusShipped, models.DecorationHeatTransfer},
		{"completed", "completed", "screen_printing", models.StatusCompleted, models.DecorationScreenPrint},
		{"unmapped values fall back", "awaiting_approval", "laser_etch", models.StatusPending, models.DecorationOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := normalizeFastPlatformOrder(fastPlatformOrder{
				OrderNumber:    "FP-9",
				Quantity:       3,
				Status:         tt.status,
				DecorationType: tt.decoration,
				DeliveryDate:   "2026-10-01",
			})

			assert.Equal(t, tt.wantStatus, order.Status)
			assert.Equal(t, tt.wantDecoration, order.DecorationMethod)
			assert.Equal(t, models.PlatformFastPlatform, order.Platform)
			assert.NotEmpty(t, order.OrderDetails)
		})
	}
}

func TestFastPlatformFetchOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		w.Write([]byte(`{"data":[
			{"order_id":"f1","order_number":"FP-100","quantity":50,"decoration_type":"embroidery","delivery_date":"2026-09-18","status":"in_production","customer_info":{"name":"Globex","email":"buy@globex.test"}}
		]}`))
	}))
	defer server.Close()

	adapter := NewFastPlatformAdapter(server.URL, "secret-key")
	orders, err := adapter.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "FP-100", order.OrderNumber)
	assert.Equal(t, models.StatusPrinting, order.Status)
	assert.Equal(t, models.DecorationEmbroidery, order.DecorationMethod)
	assert.Equal(t, "Globex", order.CustomerName)
	assert.Equal(t, 50, order.Quantity)
}

func TestFastPlatformNotConfigured(t *testing.T) {
	adapter := NewFastPlatformAdapter("http://unused.invalid", "")

	_, err := adapter.FetchOrders(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, adapter.TestConnection(context.Background()))
}
