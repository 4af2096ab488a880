package payment

import "crypto/hmac"

// Invoice callback statuses Xendit delivers. Only PAID triggers fulfillment;
// EXPIRED reaps the pending order; everything else is acknowledged and
// ignored.
const (
	CallbackStatusPaid    = "PAID"
	CallbackStatusExpired = "EXPIRED"
)

// InvoiceCallback is the gateway's webhook payload for an invoice. ExternalID
// carries the order id handed over at session creation.
type InvoiceCallback struct {
	ID             string `json:"id"`
	ExternalID     string `json:"external_id"`
	Status         string `json:"status"`
	PaymentID      string `json:"payment_id"`
	PaymentMethod  string `json:"payment_method"`
	PaymentChannel string `json:"payment_channel"`
	PaidAmount     int64  `json:"paid_amount"`
	PaidAt         string `json:"paid_at"`
}

// PaymentIntentID returns the best available identifier for the completed
// payment behind this callback.
func (cb InvoiceCallback) PaymentIntentID() string {
	if cb.PaymentID != "" {
		return cb.PaymentID
	}
	return cb.ID
}

// VerifyCallbackToken checks the x-callback-token header against the shared
// secret in constant time.
func VerifyCallbackToken(token, secret string) bool {
	if secret == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(secret))
}
