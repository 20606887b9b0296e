package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPGatewayCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(25000), body["amount"])
		assert.Equal(t, "inr", body["currency"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id":            "pi_1",
			"client_secret": "pi_1_secret",
		})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "sk_test", 5*time.Second, zap.NewNop())
	intent, err := gw.CreateIntent(context.Background(), 25000, "inr")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
}

func TestHTTPGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "bad", 5*time.Second, zap.NewNop())
	_, err := gw.CreateIntent(context.Background(), 100, "inr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
