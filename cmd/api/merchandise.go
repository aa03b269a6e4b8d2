package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"synapse/internal/domain/merch"
	"synapse/internal/params"
	"synapse/internal/payments"
)

// ListProducts godoc
//
//	@Summary		List merchandise
//	@Description	Public storefront listing: only available products.
//	@Tags			Merchandise
//	@Produce		json
//	@Success		200	{array}	merch.Product
//	@Router			/merchandise [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := app.store.Merch.ListProducts(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, products)
}

// GetProduct godoc
//
//	@Summary		Get a merchandise product
//	@Tags			Merchandise
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	merch.Product
//	@Failure		404			{object}	error
//	@Router			/merchandise/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id: %w", err))
		return
	}

	product, err := app.store.Merch.GetProduct(r.Context(), id, true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if product == nil {
		app.notFoundResponse(w, r, fmt.Errorf("product %d not found", id))
		return
	}

	app.jsonResponse(w, http.StatusOK, product)
}

// AdminListProducts godoc
//
//	@Summary	List all merchandise including unavailable (admin)
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}	merch.Product
//	@Security	ApiKeyAuth
//	@Router		/admin/merchandise [get]
func (app *application) adminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := app.store.Merch.ListProducts(r.Context(), false)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, products)
}

type productPayload struct {
	ProductName string   `json:"product_name" validate:"required,max=150"`
	Description *string  `json:"description"`
	Price       int      `json:"price" validate:"required,gt=0"`
	ImageURL    *string  `json:"image_url"`
	Sizes       []string `json:"sizes"`
	IsAvailable *bool    `json:"is_available"`
}

// CreateProduct godoc
//
//	@Summary	Create a merchandise product (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		productPayload	true	"Product"
//	@Success	201		{object}	merch.Product
//	@Security	ApiKeyAuth
//	@Router		/admin/merchandise [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	available := true
	if payload.IsAvailable != nil {
		available = *payload.IsAvailable
	}

	product := &merch.Product{
		ProductName: payload.ProductName,
		Description: payload.Description,
		Price:       payload.Price,
		ImageURL:    payload.ImageURL,
		Sizes:       payload.Sizes,
		IsAvailable: available,
	}

	if err := app.store.Merch.CreateProduct(r.Context(), product); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, product)
}

// UpdateProduct godoc
//
//	@Summary	Update a merchandise product (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		productID	path		int				true	"Product ID"
//	@Param		payload		body		productPayload	true	"Product"
//	@Success	200			{object}	merch.Product
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/merchandise/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id: %w", err))
		return
	}

	var payload productPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	available := true
	if payload.IsAvailable != nil {
		available = *payload.IsAvailable
	}

	product := &merch.Product{
		ProductID:   id,
		ProductName: payload.ProductName,
		Description: payload.Description,
		Price:       payload.Price,
		ImageURL:    payload.ImageURL,
		Sizes:       payload.Sizes,
		IsAvailable: available,
	}

	if err := app.store.Merch.UpdateProduct(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("product %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, product)
}

// DeleteProduct godoc
//
//	@Summary	Delete a merchandise product (admin)
//	@Tags		Admin
//	@Param		productID	path	int	true	"Product ID"
//	@Success	204
//	@Security	ApiKeyAuth
//	@Router		/admin/merchandise/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product id: %w", err))
		return
	}

	if err := app.store.Merch.DeleteProduct(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("product %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminListMerchOrders godoc
//
//	@Summary	List merchandise orders (admin)
//	@Tags		Admin
//	@Produce	json
//	@Param		page	query		int	false	"Page number"
//	@Param		limit	query		int	false	"Items per page"
//	@Success	200		{object}	map[string]any
//	@Security	ApiKeyAuth
//	@Router		/admin/merchandise/orders [get]
func (app *application) adminListMerchOrdersHandler(w http.ResponseWriter, r *http.Request) {
	pg := params.ParsePagination(r.URL.Query())

	orders, total, err := app.store.Merch.ListOrders(r.Context(), pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"orders":     orders,
		"pagination": pg,
	})
}

type createMerchOrderRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0,lte=10"`
	Size      *string `json:"size"`
	UserID    string  `json:"user_id"`
}

// CreateMerchOrder godoc
//
//	@Summary		Create merchandise payment order
//	@Description	Price is read from the catalog, never from the client.
//	@Tags			Merchandise
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createMerchOrderRequest	true	"Purchase intent"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/store/orders/create-order [post]
func (app *application) createMerchOrderHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keyID == "" || app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay credentials not configured"))
		return
	}

	var payload createMerchOrderRequest
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

	product, err := app.store.Merch.GetProduct(ctx, payload.ProductID, true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if product == nil {
		app.notFoundResponse(w, r, fmt.Errorf("product %d not found", payload.ProductID))
		return
	}

	if payload.Size != nil && len(product.Sizes) > 0 && !containsSize(product.Sizes, *payload.Size) {
		app.badRequestResponse(w, r, fmt.Errorf("size %s not offered for %s", *payload.Size, product.ProductName))
		return
	}

	amountPaise := int64(product.Price) * int64(payload.Quantity) * 100

	size := ""
	if payload.Size != nil {
		size = *payload.Size
	}

	order, err := app.payments.CreateOrder(ctx, payments.OrderRequest{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     fmt.Sprintf("merch_%s_%d", shortUserID(payload.UserID), time.Now().UnixMilli()),
		Notes: map[string]string{
			"type":       "merchandise",
			"product_id": strconv.FormatInt(payload.ProductID, 10),
			"quantity":   strconv.Itoa(payload.Quantity),
			"size":       size,
			"user_id":    orGuest(payload.UserID),
		},
	})
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orderId":    order.ID,
		"amount":     amountPaise,
		"currency":   "INR",
		"product_id": payload.ProductID,
		"quantity":   payload.Quantity,
	})
}

type verifyMerchRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderDetails      struct {
		ProductID int64   `json:"product_id"`
		Quantity  int     `json:"quantity"`
		Size      *string `json:"size"`
	} `json:"order_details"`
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"` // paise
}

// VerifyMerchPayment godoc
//
//	@Summary	Verify merchandise payment callback
//	@Tags		Merchandise
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		verifyMerchRequest	true	"Gateway callback plus original intent"
//	@Success	200		{object}	map[string]any
//	@Failure	400		{object}	map[string]any	"Signature mismatch"
//	@Failure	500		{object}	error
//	@Router		/store/orders/verify [post]
func (app *application) verifyMerchPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.razorpay.keySecret == "" {
		app.upstreamErrorResponse(w, r, errors.New("Razorpay secret not configured"))
		return
	}

	var payload verifyMerchRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.payments.VerifySignature(payload.RazorpayOrderID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		app.logger.Warnw("merch payment signature mismatch",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid signature",
		})
		return
	}

	order := &merch.Order{
		UserID:            nilIfEmpty(payload.UserID),
		ProductID:         payload.OrderDetails.ProductID,
		Quantity:          max(payload.OrderDetails.Quantity, 1),
		Size:              payload.OrderDetails.Size,
		Amount:            float64(payload.Amount) / 100,
		RazorpayOrderID:   payload.RazorpayOrderID,
		RazorpayPaymentID: payload.RazorpayPaymentID,
		PaymentStatus:     "done",
	}

	created, err := app.store.Merch.CreateOrder(r.Context(), order)
	if err != nil {
		if errors.Is(err, merch.ErrDuplicateOrder) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Order already recorded for this payment",
			})
			return
		}

		app.logger.Errorw("merch order insert failed after verified payment",
			"order_id", payload.RazorpayOrderID, "payment_id", payload.RazorpayPaymentID, "error", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"warning":    "Payment successful but DB record failed. Contact support.",
			"payment_id": payload.RazorpayPaymentID,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"order_id": created.OrderID,
		"message":  "Order placed successfully",
	})
}

func containsSize(sizes []string, want string) bool {
	for _, s := range sizes {
		if s == want {
			return true
		}
	}
	return false
}
