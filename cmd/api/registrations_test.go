package main

import (
	"bytes"
	"context"
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
	"synapse/internal/domain/events"
	"synapse/internal/domain/registrations"
	"synapse/internal/payments"
	"synapse/internal/store"
)

type fakeEventsStore struct {
	event *events.Event
	fee   *events.Fee
}

func (s *fakeEventsStore) List(context.Context) ([]*events.Event, error) { return nil, nil }
func (s *fakeEventsStore) GetByID(_ context.Context, id int64) (*events.Event, error) {
	if s.event != nil && s.event.EventID == id {
		return s.event, nil
	}
	return nil, nil
}
func (s *fakeEventsStore) Create(context.Context, *events.Event) error { return nil }
func (s *fakeEventsStore) Update(context.Context, int64, map[string]any) error { return nil }
func (s *fakeEventsStore) Delete(context.Context, int64) error { return nil }
func (s *fakeEventsStore) FeeFor(_ context.Context, eventID int64, pt string) (*events.Fee, error) {
	if s.fee != nil && s.event != nil && s.event.EventID == eventID && s.fee.ParticipationType == pt {
		return s.fee, nil
	}
	return nil, nil
}
func (s *fakeEventsStore) ListCategories(context.Context) ([]*events.Category, error) {
	return nil, nil
}
func (s *fakeEventsStore) CreateCategory(context.Context, *events.Category) error { return nil }
func (s *fakeEventsStore) UpdateCategory(context.Context, *events.Category) error { return nil }
func (s *fakeEventsStore) DeleteCategory(context.Context, int64) error { return nil }
func (s *fakeEventsStore) GetCategoryImage(context.Context, int64) (*string, error) {
	return nil, nil
}

type fakeRegistrationsStore struct {
	created   []*registrations.Registration
	createErr error
	methods   []*registrations.PaymentMethod
	charges   map[string]float64
	nextID    int64
}

func (s *fakeRegistrationsStore) Create(_ context.Context, r *registrations.Registration) (*registrations.Registration, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.created {
		if existing.RazorpayOrderID == r.RazorpayOrderID {
			return nil, registrations.ErrDuplicateOrder
		}
	}
	s.nextID++
	r.RegistrationID = s.nextID
	r.TicketCode = fmt.Sprintf("SYN26-FAKE%d", s.nextID)
	s.created = append(s.created, r)
	return r, nil
}

func (s *fakeRegistrationsStore) List(context.Context, int64, string, *time.Time, int, int) ([]*registrations.Registration, int, error) {
	return s.created, len(s.created), nil
}

func (s *fakeRegistrationsStore) ListAllPaid(context.Context) ([]*registrations.Registration, error) {
	return s.created, nil
}

func (s *fakeRegistrationsStore) ListPaymentMethods(context.Context) ([]*registrations.PaymentMethod, error) {
	return s.methods, nil
}

func (s *fakeRegistrationsStore) SetGatewayCharge(_ context.Context, method string, pct float64) error {
	if s.charges == nil {
		s.charges = map[string]float64{}
	}
	s.charges[method] = pct
	return nil
}

func intp(n int) *int { return &n }

func patchJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func newRegistrationTestApp(gw payments.Gateway, evts *fakeEventsStore, regs *fakeRegistrationsStore) *application {
	app := &application{
		logger:   zap.NewNop().Sugar(),
		payments: gw,
		pricing:  accommodations.DefaultPricing(),
		store: store.Storage{
			Events:        evts,
			Registrations: regs,
		},
	}
	app.config.razorpay.keyID = "rzp_test_key"
	app.config.razorpay.keySecret = testSecret
	return app
}

func openEventWithFee() *fakeEventsStore {
	return &fakeEventsStore{
		event: &events.Event{
			EventID:            7,
			EventName:          "Step Up",
			IsRegistrationOpen: true,
		},
		fee: &events.Fee{
			FeeID:             3,
			ParticipationType: "group",
			Price:             1200,
			MinMembers:        intp(4),
			MaxMembers:        intp(8),
		},
	}
}

func TestCreateRegistrationOrder(t *testing.T) {
	gw := &fakeGateway{}
	app := newRegistrationTestApp(gw, openEventWithFee(), &fakeRegistrationsStore{})

	rr := postJSON(t, app.createRegistrationOrderHandler, "/v1/registrations/create-order",
		map[string]any{"event_id": 7, "participation_type": "group", "team_size": 5})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "order_fake_1", body["orderId"])
	assert.Equal(t, float64(120000), body["amount"], "fee is resolved server-side, in paise")
	assert.Equal(t, float64(3), body["fee_id"])

	// the client never supplies the price
	assert.Equal(t, int64(120000), gw.lastReq.AmountPaise)
}

func TestCreateRegistrationOrderClosedEvent(t *testing.T) {
	evts := openEventWithFee()
	evts.event.IsRegistrationOpen = false
	app := newRegistrationTestApp(&fakeGateway{}, evts, &fakeRegistrationsStore{})

	rr := postJSON(t, app.createRegistrationOrderHandler, "/v1/registrations/create-order",
		map[string]any{"event_id": 7, "participation_type": "group", "team_size": 5})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "closed")
}

func TestCreateRegistrationOrderUnknownTier(t *testing.T) {
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), &fakeRegistrationsStore{})

	rr := postJSON(t, app.createRegistrationOrderHandler, "/v1/registrations/create-order",
		map[string]any{"event_id": 7, "participation_type": "solo"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRegistrationOrderTeamSizeBounds(t *testing.T) {
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), &fakeRegistrationsStore{})

	tooSmall := postJSON(t, app.createRegistrationOrderHandler, "/v1/registrations/create-order",
		map[string]any{"event_id": 7, "participation_type": "group", "team_size": 2})
	assert.Equal(t, http.StatusBadRequest, tooSmall.Code)

	tooBig := postJSON(t, app.createRegistrationOrderHandler, "/v1/registrations/create-order",
		map[string]any{"event_id": 7, "participation_type": "group", "team_size": 9})
	assert.Equal(t, http.StatusBadRequest, tooBig.Code)
}

func TestVerifyRegistrationPayment(t *testing.T) {
	regs := &fakeRegistrationsStore{}
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), regs)

	sig := testSign("order_fake_1", "pay_reg")
	rr := postJSON(t, app.verifyRegistrationPaymentHandler, "/v1/registrations/verify", map[string]any{
		"razorpay_order_id":   "order_fake_1",
		"razorpay_payment_id": "pay_reg",
		"razorpay_signature":  sig,
		"registration_details": map[string]any{
			"event_id":  7,
			"fee_id":    3,
			"team_size": 5,
		},
		"payment_method": "Card",
		"amount":         120000,
	})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "SYN26-FAKE1", body["ticket_code"])

	require.Len(t, regs.created, 1)
	created := regs.created[0]
	assert.Equal(t, "paid", created.PaymentStatus)
	assert.InDelta(t, 1200.0, created.GrossAmount, 1e-9)
	assert.Equal(t, "Card", created.PaymentMethod)
}

func TestVerifyRegistrationPaymentBadSignature(t *testing.T) {
	regs := &fakeRegistrationsStore{}
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), regs)

	rr := postJSON(t, app.verifyRegistrationPaymentHandler, "/v1/registrations/verify", map[string]any{
		"razorpay_order_id":   "order_fake_1",
		"razorpay_payment_id": "pay_reg",
		"razorpay_signature":  "deadbeef",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, regs.created)
}

func TestVerifyRegistrationPaymentInsertFailure(t *testing.T) {
	regs := &fakeRegistrationsStore{createErr: errors.New("boom")}
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), regs)

	sig := testSign("order_fake_1", "pay_reg")
	rr := postJSON(t, app.verifyRegistrationPaymentHandler, "/v1/registrations/verify", map[string]any{
		"razorpay_order_id":   "order_fake_1",
		"razorpay_payment_id": "pay_reg",
		"razorpay_signature":  sig,
		"amount":              120000,
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Payment successful but DB record failed. Contact support.", body["warning"])
}

func TestUpdateGatewayCharges(t *testing.T) {
	regs := &fakeRegistrationsStore{}
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), regs)

	req := patchJSON(t, app.updateGatewayChargesHandler, "/v1/admin/registrations/gateway-charges",
		map[string]float64{"Card": 2.5, "UPI": 0})

	require.Equal(t, http.StatusOK, req.Code)
	assert.InDelta(t, 2.5, regs.charges["Card"], 1e-9)
	assert.InDelta(t, 0.0, regs.charges["UPI"], 1e-9)
}

func TestUpdateGatewayChargesRejectsBadPercentage(t *testing.T) {
	regs := &fakeRegistrationsStore{}
	app := newRegistrationTestApp(&fakeGateway{}, openEventWithFee(), regs)

	rr := patchJSON(t, app.updateGatewayChargesHandler, "/v1/admin/registrations/gateway-charges",
		map[string]float64{"Card": 120})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, regs.charges)
}
