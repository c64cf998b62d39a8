package orders_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dronefleet/internal/adapters/out/orders"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetDeliveryAddress_Success(t *testing.T) {
	// Arrange
	orderID := kernel.NewUUID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/"+orderID.String(), r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":               orderID.String(),
			"delivery_address": "45 Dong Khoi, District 1",
		})
	}))
	defer server.Close()

	client := orders.NewClient(server.URL, "secret-token", time.Second)

	// Act
	address, err := client.GetDeliveryAddress(t.Context(), orderID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "45 Dong Khoi, District 1", address)
}

func TestClient_GetDeliveryAddress_NotFound(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := orders.NewClient(server.URL, "", time.Second)

	// Act
	_, err := client.GetDeliveryAddress(t.Context(), kernel.NewUUID())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestClient_GetDeliveryAddress_ServerError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := orders.NewClient(server.URL, "", time.Second)

	// Act
	_, err := client.GetDeliveryAddress(t.Context(), kernel.NewUUID())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalLookupFailed)
}

func TestClient_GetDeliveryAddress_Unreachable(t *testing.T) {
	// Arrange
	client := orders.NewClient("http://127.0.0.1:1", "", 100*time.Millisecond)

	// Act
	_, err := client.GetDeliveryAddress(t.Context(), kernel.NewUUID())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalLookupFailed)
}

func TestClient_MarkFulfilled_Success(t *testing.T) {
	// Arrange
	orderID := kernel.NewUUID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/orders/"+orderID.String()+"/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fulfilled", body["status"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := orders.NewClient(server.URL, "", time.Second)

	// Act
	err := client.MarkFulfilled(t.Context(), orderID)

	// Assert
	require.NoError(t, err)
}

func TestClient_MarkFulfilled_NotFound(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := orders.NewClient(server.URL, "", time.Second)

	// Act
	err := client.MarkFulfilled(t.Context(), kernel.NewUUID())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
