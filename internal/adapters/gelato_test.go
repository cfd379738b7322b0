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

func TestGelatoFetchOrders(t *testing.T) {
	t.Run("normalizes records into canonical orders", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			w.Write([]byte(`{"orders":[
				{"id":"g1","orderReferenceId":"GEL-1001","quantity":25,"dueDate":"2026-09-20","status":"Processing","customer":{"name":"Acme Co","email":"ops@acme.test"}},
				{"id":"g2","orderReferenceId":"GEL-1002","quantity":5,"dueDate":"2026-09-22","status":"on_hold"}
			]}`))
		}))
		defer server.Close()

		adapter := NewGelatoAdapter(server.URL, "test-key")
		orders, err := adapter.FetchOrders(context.Background())
		require.NoError(t, err)
		require.Len(t, orders, 2)

		first := orders[0]
		assert.Equal(t, "GEL-1001", first.OrderNumber)
		assert.Equal(t, models.PlatformGelato, first.Platform)
		assert.Equal(t, models.StatusPrinting, first.Status)
		assert.Equal(t, models.DecorationScreenPrint, first.DecorationMethod)
		assert.Equal(t, "Acme Co", first.CustomerName)
		assert.Equal(t, "ops@acme.test", first.CustomerEmail)
		assert.Equal(t, 25, first.Quantity)
		assert.Contains(t, first.OrderDetails, `"orderReferenceId":"GEL-1001"`)

		// Unknown source status falls back to pending, never drops the record.
		assert.Equal(t, models.StatusPending, orders[1].Status)
	})

	t.Run("missing api key degrades without a request", func(t *testing.T) {
		adapter := NewGelatoAdapter("http://unused.invalid", "")

		_, err := adapter.FetchOrders(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("unauthorized response is an auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		adapter := NewGelatoAdapter(server.URL, "revoked")
		_, err := adapter.FetchOrders(context.Background())
		assert.ErrorIs(t, err, ErrAuthFailure)
	})

	t.Run("server error is source unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		adapter := NewGelatoAdapter(server.URL, "test-key")
		_, err := adapter.FetchOrders(context.Background())
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("unparseable body is a malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway timeout</html>`))
		}))
		defer server.Close()

		adapter := NewGelatoAdapter(server.URL, "test-key")
		_, err := adapter.FetchOrders(context.Background())
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

func TestGelatoTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.True(t, NewGelatoAdapter(server.URL, "test-key").TestConnection(context.Background()))
	assert.False(t, NewGelatoAdapter(server.URL, "").TestConnection(context.Background()))
	assert.False(t, NewGelatoAdapter("http://127.0.0.1:1", "test-key").TestConnection(context.Background()))
}
