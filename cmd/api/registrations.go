package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"synapse/internal/domain/registrations"
	"synapse/internal/mailer"
	"synapse/internal/params"
	"synapse/internal/payments"
	"synapse/internal/store"
)

// exportRowCap bounds a single CSV export; the festival sees a few thousand
// registrations at most.
const exportRowCap = 10000

type createRegistrationOrderRequest struct {
	EventID           int64  `json:"event_id" validate:"required"`
	ParticipationType string `json:"participation_type" validate:"required"`
	TeamSize          int    `json:"team_size"`
	UserID            string `json:"user_id"`
}

// CreateRegistrationOrder godoc
//
//	@Summary		Create event-registration payment order
//	@Description	Resolves the fee tier server-side from the event and participation type, then mints a gateway order.
//	@Tags			Registrations
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createRegistrationOrderRequest	true	"Registration intent"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/registrations/create-order [post]
func (app *application) createRegistrationOrderHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keyID == "" || app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay credentials not configured"))
		return
	}

	var payload createRegistrationOrderRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	event, err := app.store.Events.GetByID(ctx, payload.EventID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if event == nil {
		app.notFoundResponse(w, r, fmt.Errorf("event %d not found", payload.EventID))
		return
	}
	if !event.IsRegistrationOpen {
		app.badRequestResponse(w, r, fmt.Errorf("registration is closed for %s", event.EventName))
		return
	}

	// Fee is looked up, never accepted from the client.
	fee, err := app.store.Events.FeeFor(ctx, payload.EventID, payload.ParticipationType)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if fee == nil {
		app.badRequestResponse(w, r, fmt.Errorf("no %s tier for this event", payload.ParticipationType))
		return
	}

	teamSize := payload.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}
	if fee.MinMembers != nil && teamSize < *fee.MinMembers {
		app.badRequestResponse(w, r, fmt.Errorf("%s entries need at least %d members", fee.ParticipationType, *fee.MinMembers))
		return
	}
	if fee.MaxMembers != nil && teamSize > *fee.MaxMembers {
		app.badRequestResponse(w, r, fmt.Errorf("%s entries allow at most %d members", fee.ParticipationType, *fee.MaxMembers))
		return
	}

	amountPaise := int64(fee.Price) * 100

	order, err := app.payments.CreateOrder(ctx, payments.OrderRequest{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     fmt.Sprintf("reg_%s_%d", shortUserID(payload.UserID), time.Now().UnixMilli()),
		Notes: map[string]string{
			"type":               "registration",
			"event_id":           strconv.FormatInt(payload.EventID, 10),
			"fee_id":             strconv.FormatInt(fee.FeeID, 10),
			"participation_type": fee.ParticipationType,
			"team_size":          strconv.Itoa(teamSize),
			"user_id":            orGuest(payload.UserID),
		},
	})
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orderId":  order.ID,
		"amount":   amountPaise,
		"currency": "INR",
		"event_id": payload.EventID,
		"fee_id":   fee.FeeID,
		"price":    fee.Price,
	})
}

type verifyRegistrationRequest struct {
	RazorpayPaymentID   string `json:"razorpay_payment_id"`
	RazorpayOrderID     string `json:"razorpay_order_id"`
	RazorpaySignature   string `json:"razorpay_signature"`
	RegistrationDetails struct {
		EventID  int64 `json:"event_id"`
		FeeID    int64 `json:"fee_id"`
		TeamSize int   `json:"team_size"`
	} `json:"registration_details"`
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"` // paise
}

// VerifyRegistrationPayment godoc
//
//	@Summary		Verify event-registration payment callback
//	@Tags			Registrations
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		verifyRegistrationRequest	true	"Gateway callback plus original intent"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any	"Signature mismatch"
//	@Failure		500		{object}	error
//	@Router			/registrations/verify [post]
func (app *application) verifyRegistrationPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay secret not configured"))
		return
	}

	var payload verifyRegistrationRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.payments.VerifySignature(payload.RazorpayOrderID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		app.logger.Warnw("registration payment signature mismatch",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid signature",
		})
		return
	}

	method := payload.PaymentMethod
	if method == "" {
		method = "UPI"
	}

	reg := &registrations.Registration{
		UserID:            nilIfEmpty(payload.UserID),
		EventID:           payload.RegistrationDetails.EventID,
		FeeID:             payload.RegistrationDetails.FeeID,
		TeamSize:          max(payload.RegistrationDetails.TeamSize, 1),
		PaymentMethod:     method,
		PaymentStatus:     "paid",
		GrossAmount:       float64(payload.Amount) / 100,
		RazorpayOrderID:   payload.RazorpayOrderID,
		RazorpayPaymentID: payload.RazorpayPaymentID,
	}

	created, err := app.store.Registrations.Create(r.Context(), reg)
	if err != nil {
		if errors.Is(err, registrations.ErrDuplicateOrder) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Registration already recorded for this payment",
			})
			return
		}

		app.logger.Errorw("registration insert failed after verified payment",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID, "error", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"warning":    "Payment successful but DB record failed. Contact support.",
			"payment_id": payload.RazorpayPaymentID,
		})
		return
	}

	app.sendTicketEmail(created)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"registration_id": created.RegistrationID,
		"ticket_code":     created.TicketCode,
		"message":         "Registration confirmed",
	})
}

func (app *application) sendTicketEmail(reg *registrations.Registration) {
	if reg.UserID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), store.QueryTimeoutDuration)
	defer cancel()

	user, err := app.store.Users.GetByID(ctx, *reg.UserID)
	if err != nil || user == nil {
		return
	}

	event, err := app.store.Events.GetByID(ctx, reg.EventID)
	if err != nil || event == nil {
		return
	}

	name := user.Email
	if user.FullName != nil {
		name = *user.FullName
	}

	vars := struct {
		Username   string
		EventName  string
		TicketCode string
		Amount     float64
	}{name, event.EventName, reg.TicketCode, reg.GrossAmount}

	if _, err := app.mailer.Send(mailer.RegistrationTicketTemplate, name, user.Email, vars); err != nil {
		app.logger.Warnw("ticket email failed", "registration_id", reg.RegistrationID, "error", err)
	}
}

// AdminListRegistrations godoc
//
//	@Summary		List registrations (admin)
//	@Description	Paginated registrations with optional filters: event_id, status, since.
//	@Tags			Admin
//	@Produce		json
//	@Param			event_id	query		int		false	"Filter by event"
//	@Param			status		query		string	false	"payment_status filter: paid|pending"
//	@Param			since		query		string	false	"RFC3339 timestamp"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Items per page"
//	@Success		200			{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/registrations [get]
func (app *application) adminListRegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()

	var eventID int64
	if raw := strings.TrimSpace(q.Get("event_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid event_id: %w", err))
			return
		}
		eventID = id
	}

	status := strings.TrimSpace(q.Get("status"))

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

	regs, total, err := app.store.Registrations.List(ctx, eventID, status, since, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"registrations": regs,
		"pagination":    pg,
		"status":        status,
		"event_id":      eventID,
	})
}

// ExportRegistrations godoc
//
//	@Summary		Export registrations as CSV (admin)
//	@Description	Same filters as the list endpoint; returns all matching rows.
//	@Tags			Admin
//	@Produce		text/csv
//	@Param			event_id	query	int		false	"Filter by event"
//	@Param			status		query	string	false	"payment_status filter: paid|pending"
//	@Success		200
//	@Security		ApiKeyAuth
//	@Router			/admin/registrations/export [get]
func (app *application) exportRegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	q := r.URL.Query()

	var eventID int64
	if raw := strings.TrimSpace(q.Get("event_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid event_id: %w", err))
			return
		}
		eventID = id
	}

	status := strings.TrimSpace(q.Get("status"))

	regs, _, err := app.store.Registrations.List(ctx, eventID, status, nil, exportRowCap, 0)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=registrations_%s.csv", time.Now().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{
		"registration_id", "ticket_code", "event", "participation_type", "team_size",
		"payment_method", "payment_status", "gross_amount", "razorpay_order_id",
		"razorpay_payment_id", "created_at",
	})

	for _, reg := range regs {
		cw.Write([]string{
			strconv.FormatInt(reg.RegistrationID, 10),
			reg.TicketCode,
			reg.EventName,
			reg.ParticipationType,
			strconv.Itoa(reg.TeamSize),
			reg.PaymentMethod,
			reg.PaymentStatus,
			strconv.FormatFloat(reg.GrossAmount, 'f', 2, 64),
			reg.RazorpayOrderID,
			reg.RazorpayPaymentID,
			reg.CreatedAt.Format(time.RFC3339),
		})
	}
}

// AdminRevenueSummary godoc
//
//	@Summary		Revenue summary (admin)
//	@Description	Gross, gateway charges and net over paid registrations, computed from the CURRENT charge percentages.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	registrations.RevenueSummary
//	@Security		ApiKeyAuth
//	@Router			/admin/registrations/summary [get]
func (app *application) adminRevenueSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	regs, err := app.store.Registrations.ListAllPaid(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	methods, err := app.store.Registrations.ListPaymentMethods(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	rates := make(map[string]float64, len(methods))
	for _, m := range methods {
		rates[m.MethodName] = m.GatewayCharge
	}

	summary := registrations.ComputeRevenue(regs, rates)

	app.jsonResponse(w, http.StatusOK, summary)
}

// ListGatewayCharges godoc
//
//	@Summary		List gateway charge percentages (admin)
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}	registrations.PaymentMethod
//	@Security		ApiKeyAuth
//	@Router			/admin/registrations/gateway-charges [get]
func (app *application) listGatewayChargesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), store.QueryTimeoutDuration)
	defer cancel()

	methods, err := app.store.Registrations.ListPaymentMethods(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, methods)
}

// UpdateGatewayCharges godoc
//
//	@Summary		Update gateway charge percentages (admin)
//	@Description	Upserts per-method fee percentages. Historical net revenue is recomputed from the new rates.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		map[string]float64	true	"method name -> percentage"
//	@Success		200		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/admin/registrations/gateway-charges [patch]
func (app *application) updateGatewayChargesHandler(w http.ResponseWriter, r *http.Request) {
	var charges map[string]float64
	if err := readJSON(w, r, &charges); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(charges) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no charges supplied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	for method, pct := range charges {
		if pct < 0 || pct > 100 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid percentage for %s: %v", method, pct))
			return
		}
		if err := app.store.Registrations.SetGatewayCharge(ctx, method, pct); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "gateway charges updated"})
}
