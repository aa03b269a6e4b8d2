package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	rz := NewRazorpayAdapter("rzp_test_key", "test_secret")

	orderID := "order_Nxp2abc123"
	paymentID := "pay_Nxp2def456"
	good := sign("test_secret", orderID, paymentID)

	t.Run("valid signature passes", func(t *testing.T) {
		assert.True(t, rz.VerifySignature(orderID, paymentID, good))
	})

	t.Run("tampered signature fails", func(t *testing.T) {
		bad := []byte(good)
		if bad[0] == 'a' {
			bad[0] = 'b'
		} else {
			bad[0] = 'a'
		}
		assert.False(t, rz.VerifySignature(orderID, paymentID, string(bad)))
	})

	t.Run("signature for a different payment fails", func(t *testing.T) {
		other := sign("test_secret", orderID, "pay_other")
		assert.False(t, rz.VerifySignature(orderID, paymentID, other))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		assert.False(t, rz.VerifySignature(orderID, paymentID, ""))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		otherAdapter := NewRazorpayAdapter("rzp_test_key", "another_secret")
		assert.False(t, otherAdapter.VerifySignature(orderID, paymentID, good))
	})
}

func TestCreateOrder(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "test_secret", pass)

		var body struct {
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Receipt  string            `json:"receipt"`
			Notes    map[string]string `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, int64(230000), body.Amount)
		require.Equal(t, "INR", body.Currency)

		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"order_test_%d","amount":%d,"currency":%q,"receipt":%q,"status":"created"}`,
			calls, body.Amount, body.Currency, body.Receipt)
	}))
	defer srv.Close()

	rz := NewRazorpayAdapter("rzp_test_key", "test_secret")
	rz.baseURL = srv.URL
	rz.httpClient = srv.Client()

	req := OrderRequest{
		AmountPaise: 230000,
		Currency:    "INR",
		Receipt:     "acc_guest_1700000000000",
		Notes:       map[string]string{"type": "accommodation", "nights": "2"},
	}

	first, err := rz.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", first.ID)
	assert.Equal(t, int64(230000), first.AmountPaise)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, "acc_guest_1700000000000", first.Receipt)
	assert.Equal(t, "created", first.Status)

	// retries of create-order mint a fresh order, they never reuse one
	second, err := rz.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateOrderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`)
	}))
	defer srv.Close()

	rz := NewRazorpayAdapter("bad_key", "bad_secret")
	rz.baseURL = srv.URL
	rz.httpClient = srv.Client()

	_, err := rz.CreateOrder(context.Background(), OrderRequest{AmountPaise: 1000, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http=401")
}
