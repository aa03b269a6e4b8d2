package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://api.razorpay.com"

type RazorpayAdapter struct {
	KeyID     string
	KeySecret string

	baseURL    string
	httpClient *http.Client
}

func NewRazorpayAdapter(keyID, keySecret string) *RazorpayAdapter {
	return &RazorpayAdapter{
		KeyID:      keyID,
		KeySecret:  keySecret,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

// CreateOrder mints an order at Razorpay. Amount must already be in paise.
func (rz *RazorpayAdapter) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	payload := map[string]any{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    req.Notes,
	}

	body, _ := json.Marshal(payload)

	url := rz.baseURL + "/v1/orders"

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	httpReq.SetBasicAuth(rz.KeyID, rz.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := rz.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// return raw error for logging/support
		return nil, fmt.Errorf("razorpay order create failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}

	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("razorpay order create decode: %w body=%s", err, string(raw))
	}

	return &Order{
		ID:          res.ID,
		AmountPaise: res.Amount,
		Currency:    res.Currency,
		Receipt:     res.Receipt,
		Status:      res.Status,
	}, nil
}

// VerifySignature checks the checkout callback signature:
// hex(HMAC-SHA256(secret, order_id + "|" + payment_id)) must equal the
// signature Razorpay handed to the client. This is the only gate against
// a forged success callback.
func (rz *RazorpayAdapter) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(rz.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
