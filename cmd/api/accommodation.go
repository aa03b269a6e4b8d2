package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"synapse/internal/domain/accommodations"
	"synapse/internal/mailer"
	"synapse/internal/params"
	"synapse/internal/payments"
	"synapse/internal/store"
)

type createAccommodationOrderRequest struct {
	Nights   int    `json:"nights"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	UserID   string `json:"user_id"`
}

type createAccommodationOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Nights   int    `json:"nights"`
	Price    int    `json:"price"` // rupees
}

// CreateAccommodationOrder godoc
//
//	@Summary		Create accommodation payment order
//	@Description	Validates the nights tier and check-in day, then mints a gateway order. Price is fixed server-side; nothing is persisted locally.
//	@Tags			Accommodation
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createAccommodationOrderRequest	true	"Order intent"
//	@Success		200		{object}	createAccommodationOrderResponse
//	@Failure		400		{object}	error	"Invalid night selection or start date"
//	@Failure		500		{object}	error	"Gateway not configured or order creation failed"
//	@Router			/accommodation/create-order [post]
func (app *application) createAccommodationOrderHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keyID == "" || app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay credentials not configured"))
		return
	}

	var payload createAccommodationOrderRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Price is always resolved from the table, never trusted from the client.
	price, err := app.pricing.Price(payload.Nights)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// A supplied check-in must exactly match one of the permitted starts.
	if payload.CheckIn != "" {
		startDay, err := parseDayOfMonth(payload.CheckIn)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid checkIn date: %w", err))
			return
		}
		if err := app.pricing.ValidateStart(payload.Nights, startDay); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	amountPaise := int64(price) * 100

	// Receipt ties the gateway order back to the buyer without exposing the
	// full user id; notes carry the business parameters so the gateway keeps
	// context independent of our database.
	order, err := app.payments.CreateOrder(r.Context(), payments.OrderRequest{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     fmt.Sprintf("acc_%s_%d", shortUserID(payload.UserID), time.Now().UnixMilli()),
		Notes: map[string]string{
			"type":     "accommodation",
			"nights":   strconv.Itoa(payload.Nights),
			"checkIn":  payload.CheckIn,
			"checkOut": payload.CheckOut,
			"user_id":  orGuest(payload.UserID),
		},
	})
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createAccommodationOrderResponse{
		OrderID:  order.ID,
		Amount:   amountPaise,
		Currency: "INR",
		Nights:   payload.Nights,
		Price:    price,
	})
}

type verifyAccommodationRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	BookingDetails    struct {
		Nights   int    `json:"nights"`
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
	} `json:"booking_details"`
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"` // paise, echoed from order creation
}

// VerifyAccommodationPayment godoc
//
//	@Summary		Verify accommodation payment callback
//	@Description	Checks the gateway HMAC signature, then records the booking. A verified payment whose insert fails still returns success with a warning: money has moved.
//	@Tags			Accommodation
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		verifyAccommodationRequest	true	"Gateway callback plus original intent"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any	"Signature mismatch"
//	@Failure		500		{object}	error			"Secret not configured"
//	@Router			/accommodation/verify [post]
func (app *application) verifyAccommodationPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay secret not configured"))
		return
	}

	var payload verifyAccommodationRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// The only gate against a forged success callback.
	if !app.payments.VerifySignature(payload.RazorpayOrderID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		app.logger.Warnw("accommodation payment signature mismatch",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid signature",
		})
		return
	}

	booking := &accommodations.Booking{
		UserID:            nilIfEmpty(payload.UserID),
		Nights:            payload.BookingDetails.Nights,
		CheckIn:           payload.BookingDetails.CheckIn,
		CheckOut:          payload.BookingDetails.CheckOut,
		Amount:            float64(payload.Amount) / 100, // store in rupees
		RazorpayOrderID:   payload.RazorpayOrderID,
		RazorpayPaymentID: payload.RazorpayPaymentID,
		PaymentStatus:     "done",
	}

	created, err := app.store.Accommodations.Create(r.Context(), booking)
	if err != nil {
		if errors.Is(err, accommodations.ErrDuplicateOrder) {
			// A concurrent (or repeated) callback already recorded this order.
			existing, lookupErr := app.store.Accommodations.GetByOrderID(r.Context(), payload.RazorpayOrderID)
			if lookupErr == nil && existing != nil {
				writeJSON(w, http.StatusOK, map[string]any{
					"success":    true,
					"booking_id": existing.BookingID,
					"message":    "Accommodation already booked for this payment",
				})
				return
			}
		}

		// Payment is verified and the money has moved: never report failure,
		// but never hide the gap either.
		app.logger.Errorw("accommodation booking insert failed after verified payment",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID, "error", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"warning":    "Payment successful but DB record failed. Contact support.",
			"payment_id": payload.RazorpayPaymentID,
		})
		return
	}

	app.sendBookingEmail(created)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"booking_id": created.BookingID,
		"message":    "Accommodation booked successfully",
	})
}

// sendBookingEmail is best-effort: a lost email never fails a paid booking.
func (app *application) sendBookingEmail(b *accommodations.Booking) {
	if b.UserID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), store.QueryTimeoutDuration)
	defer cancel()

	user, err := app.store.Users.GetByID(ctx, *b.UserID)
	if err != nil || user == nil {
		return
	}

	name := user.Email
	if user.FullName != nil {
		name = *user.FullName
	}

	vars := struct {
		Username  string
		Nights    int
		CheckIn   string
		CheckOut  string
		BookingID int64
		Amount    float64
	}{name, b.Nights, b.CheckIn, b.CheckOut, b.BookingID, b.Amount}

	if _, err := app.mailer.Send(mailer.AccommodationBookingTemplate, name, user.Email, vars); err != nil {
		app.logger.Warnw("booking confirmation email failed", "booking_id", b.BookingID, "error", err)
	}
}

// AdminListBookings godoc
//
//	@Summary		List accommodation bookings (admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			since	query		string	false	"RFC3339 timestamp; bookings created_at >= since"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Items per page"
//	@Success		200		{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/accommodation/bookings [get]
func (app *application) adminListBookingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()

	var since *time.Time
	if rawSince := strings.TrimSpace(q.Get("since")); rawSince != "" {
		t, parseErr := time.Parse(time.RFC3339, rawSince)
		if parseErr != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid since (must be RFC3339): %w", parseErr))
			return
		}
		since = &t
	}

	pg := params.ParsePagination(q)

	bookings, total, err := app.store.Accommodations.List(ctx, since, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"bookings":   bookings,
		"pagination": pg,
	})
}

// parseDayOfMonth pulls the day out of a submitted check-in date. The
// festival window sits inside one known month, so only the day is checked;
// both date-only and RFC3339 inputs are accepted.
func parseDayOfMonth(raw string) (int, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Day(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date format: %s", raw)
}

func shortUserID(userID string) string {
	if userID == "" {
		return "guest"
	}
	if len(userID) > 5 {
		return userID[:5]
	}
	return userID
}

func orGuest(userID string) string {
	if userID == "" {
		return "guest"
	}
	return userID
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
