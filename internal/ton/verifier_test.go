package ton

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"

	"presale/internal/model"
)

func newTestVerifier(baseURL string) *Verifier {
	return &Verifier{
		apiKey:   "test-key",
		baseURL:  baseURL,
		receiver: address.NewAddress(0, 0, make([]byte, 32)),
		http:     &http.Client{Timeout: time.Second},
	}
}

func stubTransactions(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getTransactions", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		fmt.Fprint(w, body)
	}))
}

func TestVerifyPositivePayment(t *testing.T) {
	srv := stubTransactions(t, `{"ok":true,"result":[
		{"utime":1700000000,"transaction_id":{"hash":"abc"},"in_msg":{"value":"2500000000","source":"payer"}},
		{"utime":1699999000,"transaction_id":{"hash":"xyz"},"in_msg":{"value":"1"}}
	]}`)
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	payment, err := v.Verify(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "ton", payment.Chain)
	require.Equal(t, "payer", payment.Payer)
	require.Equal(t, int64(2_500_000_000), payment.NativeAmount.Int64())
	require.Equal(t, time.Unix(1700000000, 0).UTC(), payment.ConfirmedAt)
}

func TestVerifyHashAbsent(t *testing.T) {
	srv := stubTransactions(t, `{"ok":true,"result":[
		{"utime":1700000000,"transaction_id":{"hash":"other"},"in_msg":{"value":"1"}}
	]}`)
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "abc")
	require.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestVerifyZeroValue(t *testing.T) {
	srv := stubTransactions(t, `{"ok":true,"result":[
		{"utime":1700000000,"transaction_id":{"hash":"abc"},"in_msg":{"value":"0"}}
	]}`)
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "abc")
	require.ErrorIs(t, err, model.ErrNoNetPayment)
}

func TestVerifyNotOK(t *testing.T) {
	srv := stubTransactions(t, `{"ok":false}`)
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "abc")
	require.Error(t, err)
}
