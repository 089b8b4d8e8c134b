package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"presale/internal/model"
)

func TestUSDPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "solana", r.URL.Query().Get("ids"))
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"solana":{"usd":150.25}}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	price, err := client.USDPrice(context.Background(), "solana")
	require.NoError(t, err)
	require.Equal(t, 150.25, price)
}

func TestUSDPriceMissingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.USDPrice(context.Background(), "solana")
	require.ErrorIs(t, err, model.ErrOracleUnavailable)
}

func TestUSDPriceFeedDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.USDPrice(context.Background(), "solana")
	require.ErrorIs(t, err, model.ErrOracleUnavailable)
}

func TestUSDPriceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.USDPrice(context.Background(), "solana")
	require.ErrorIs(t, err, model.ErrOracleUnavailable)
}
