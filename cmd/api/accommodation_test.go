package main

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synapse/internal/domain/accommodations"
	"synapse/internal/payments"
	"synapse/internal/store"
)

const testSecret = "test_secret"

// fakeGateway mints sequential order ids locally and verifies signatures
// with the same HMAC scheme as the real gateway.
type fakeGateway struct {
	orders    int
	createErr error
	lastReq   payments.OrderRequest
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payments.OrderRequest) (*payments.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.orders++
	g.lastReq = req
	return &payments.Order{
		ID:          fmt.Sprintf("order_fake_%d", g.orders),
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func testSign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeBookingStore struct {
	created   []*accommodations.Booking
	createErr error
	nextID    int64
}

func (s *fakeBookingStore) Create(_ context.Context, b *accommodations.Booking) (*accommodations.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.created {
		if existing.RazorpayOrderID == b.RazorpayOrderID {
			return nil, accommodations.ErrDuplicateOrder
		}
	}
	s.nextID++
	b.BookingID = s.nextID
	b.CreatedAt = time.Now()
	s.created = append(s.created, b)
	return b, nil
}

func (s *fakeBookingStore) GetByOrderID(_ context.Context, orderID string) (*accommodations.Booking, error) {
	for _, b := range s.created {
		if b.RazorpayOrderID == orderID {
			return b, nil
		}
	}
	return nil, nil
}

func (s *fakeBookingStore) List(_ context.Context, _ *time.Time, _, _ int) ([]*accommodations.Booking, int, error) {
	return s.created, len(s.created), nil
}

func newTestApp(gw payments.Gateway, bookings *fakeBookingStore) *application {
	app := &application{
		logger:   zap.NewNop().Sugar(),
		payments: gw,
		pricing:  accommodations.DefaultPricing(),
		store:    store.Storage{Accommodations: bookings},
	}
	app.config.razorpay.keyID = "rzp_test_key"
	app.config.razorpay.keySecret = testSecret
	return app
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestCreateAccommodationOrder(t *testing.T) {
	tests := []struct {
		nights     int
		checkIn    string
		wantPaise  float64
		wantRupees float64
	}{
		{2, "2026-02-27", 230000, 2300},
		{2, "2026-02-28", 230000, 2300},
		{3, "2026-02-27", 250000, 2500},
		{4, "2026-02-26", 280000, 2800},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d nights from %s", tt.nights, tt.checkIn), func(t *testing.T) {
			gw := &fakeGateway{}
			app := newTestApp(gw, &fakeBookingStore{})

			rr := postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order",
				map[string]any{"nights": tt.nights, "checkIn": tt.checkIn})

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			body := decodeBody(t, rr)
			assert.Equal(t, "order_fake_1", body["orderId"])
			assert.Equal(t, tt.wantPaise, body["amount"])
			assert.Equal(t, "INR", body["currency"])
			assert.Equal(t, tt.wantRupees, body["price"])
		})
	}
}

func TestCreateAccommodationOrderInvalidNights(t *testing.T) {
	gw := &fakeGateway{}
	app := newTestApp(gw, &fakeBookingStore{})

	rr := postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order",
		map[string]any{"nights": 5})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid night selection", body["error"])
	assert.Zero(t, gw.orders, "no gateway order for a rejected tier")
}

func TestCreateAccommodationOrderInvalidStartDay(t *testing.T) {
	gw := &fakeGateway{}
	app := newTestApp(gw, &fakeBookingStore{})

	rr := postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order",
		map[string]any{"nights": 2, "checkIn": "2026-02-25"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid start date for 2 nights. Allowed starts: 27, 28 Feb", body["error"])
	assert.Zero(t, gw.orders)
}

func TestCreateAccommodationOrderMissingCredentials(t *testing.T) {
	app := newTestApp(&fakeGateway{}, &fakeBookingStore{})
	app.config.razorpay.keySecret = ""

	rr := postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order",
		map[string]any{"nights": 2})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateAccommodationOrderRetryMintsFreshOrder(t *testing.T) {
	gw := &fakeGateway{}
	app := newTestApp(gw, &fakeBookingStore{})

	payload := map[string]any{"nights": 3, "checkIn": "2026-02-27"}

	first := decodeBody(t, postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order", payload))
	second := decodeBody(t, postJSON(t, app.createAccommodationOrderHandler, "/v1/accommodation/create-order", payload))

	assert.NotEqual(t, first["orderId"], second["orderId"])
}

func verifyPayload(orderID, paymentID, signature string) map[string]any {
	return map[string]any{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"booking_details": map[string]any{
			"nights":   2,
			"checkIn":  "2026-02-27",
			"checkOut": "2026-03-01",
		},
		"user_id": "",
		"amount":  230000,
	}
}

func TestVerifyAccommodationPayment(t *testing.T) {
	bookings := &fakeBookingStore{}
	app := newTestApp(&fakeGateway{}, bookings)

	sig := testSign("order_fake_1", "pay_abc")
	rr := postJSON(t, app.verifyAccommodationPaymentHandler, "/v1/accommodation/verify",
		verifyPayload("order_fake_1", "pay_abc", sig))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Accommodation booked successfully", body["message"])
	assert.Equal(t, float64(1), body["booking_id"])

	require.Len(t, bookings.created, 1)
	b := bookings.created[0]
	assert.Equal(t, "done", b.PaymentStatus)
	assert.InDelta(t, 2300.0, b.Amount, 1e-9) // paise converted to rupees
	assert.Nil(t, b.UserID)                   // guest checkout
	assert.Equal(t, "order_fake_1", b.RazorpayOrderID)
}

func TestVerifyAccommodationPaymentBadSignature(t *testing.T) {
	bookings := &fakeBookingStore{}
	app := newTestApp(&fakeGateway{}, bookings)

	sig := testSign("order_fake_1", "pay_abc")
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	rr := postJSON(t, app.verifyAccommodationPaymentHandler, "/v1/accommodation/verify",
		verifyPayload("order_fake_1", "pay_abc", string(tampered)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid signature", body["error"])
	assert.Empty(t, bookings.created, "no booking for an unverified payment")
}

func TestVerifyAccommodationPaymentDuplicate(t *testing.T) {
	bookings := &fakeBookingStore{}
	app := newTestApp(&fakeGateway{}, bookings)

	sig := testSign("order_fake_1", "pay_abc")
	payload := verifyPayload("order_fake_1", "pay_abc", sig)

	first := postJSON(t, app.verifyAccommodationPaymentHandler, "/v1/accommodation/verify", payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, app.verifyAccommodationPaymentHandler, "/v1/accommodation/verify", payload)
	require.Equal(t, http.StatusOK, second.Code)

	body := decodeBody(t, second)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Accommodation already booked for this payment", body["message"])
	assert.Equal(t, float64(1), body["booking_id"], "existing booking id is returned")
	assert.Len(t, bookings.created, 1, "second callback must not double-book")
}

func TestVerifyAccommodationPaymentInsertFailure(t *testing.T) {
	bookings := &fakeBookingStore{createErr: errors.New("connection refused")}
	app := newTestApp(&fakeGateway{}, bookings)

	sig := testSign("order_fake_1", "pay_abc")
	rr := postJSON(t, app.verifyAccommodationPaymentHandler, "/v1/accommodation/verify",
		verifyPayload("order_fake_1", "pay_abc", sig))

	// money has moved; the client must still see success, with a warning
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Payment successful but DB record failed. Contact support.", body["warning"])
	assert.Equal(t, "pay_abc", body["payment_id"])
	assert.NotContains(t, body, "booking_id")
}

func TestParseDayOfMonth(t *testing.T) {
	day, err := parseDayOfMonth("2026-02-27")
	require.NoError(t, err)
	assert.Equal(t, 27, day)

	day, err = parseDayOfMonth("2026-02-28T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 28, day)

	_, err = parseDayOfMonth("27/02/2026")
	assert.Error(t, err)
}
