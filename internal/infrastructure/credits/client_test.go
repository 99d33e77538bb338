package credits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, logging.NewTestLogger())
}

func TestGetStatusPremiumUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/credits/status", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"userId":        "user_1",
			"isPremium":     true,
			"creditBalance": 0,
			"canSkipAds":    true,
		})
	})

	status, decision := client.GetStatus(context.Background(), "tok")
	require.Equal(t, ads.DecisionCanSkip, decision)
	require.True(t, status.IsPremium)
	require.True(t, status.CanSkipAds)
}

func TestGetStatusCanSkipDefaultsFromBalance(t *testing.T) {
	// canSkipAds absent from the response body: derive from premium/balance.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"userId":        "user_1",
			"isPremium":     false,
			"creditBalance": 7,
		})
	})

	status, decision := client.GetStatus(context.Background(), "tok")
	require.Equal(t, ads.DecisionCanSkip, decision)
	require.False(t, status.IsPremium)
	require.Equal(t, 7, status.CreditBalance)
}

func TestGetStatusMustSeeAds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"userId":        "user_1",
			"isPremium":     false,
			"creditBalance": 0,
		})
	})

	status, decision := client.GetStatus(context.Background(), "tok")
	require.Equal(t, ads.DecisionMustSeeAds, decision)
	require.False(t, status.CanSkipAds)
}

func TestGetStatusFailuresYieldUnknown(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		status, decision := client.GetStatus(context.Background(), "tok")
		require.Nil(t, status)
		require.Equal(t, ads.DecisionUnknown, decision)
	})

	t.Run("bad body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		status, decision := client.GetStatus(context.Background(), "tok")
		require.Nil(t, status)
		require.Equal(t, ads.DecisionUnknown, decision)
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second, logging.NewTestLogger())
		status, decision := client.GetStatus(context.Background(), "tok")
		require.Nil(t, status)
		require.Equal(t, ads.DecisionUnknown, decision)
	})
}

func TestRewardSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/credits/reward", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(3), body["amount"])
		require.Equal(t, "ad_click_reward", body["reason"])

		json.NewEncoder(w).Encode(map[string]any{"newBalance": 10})
	})

	result, err := client.Reward(context.Background(), "tok", 3, "")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 10, result.NewBalance)
}

func TestRewardServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"error": "account frozen"})
	})

	result, err := client.Reward(context.Background(), "tok", 3, "")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "account frozen", result.Error)
}

func TestDeductDefaultsReason(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/credits/deduct", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "skip_ad", body["reason"])

		json.NewEncoder(w).Encode(map[string]any{"amountDeducted": 1})
	})

	result, err := client.Deduct(context.Background(), "tok", 1, "")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, result.AmountDeducted)
}
