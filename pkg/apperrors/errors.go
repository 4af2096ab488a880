package apperrors

import "errors"

// Sentinel errors for the fulfillment pipeline. Handlers map these onto the
// HTTP surface; services return them (possibly wrapped) and never touch gin.
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrNotFound              = errors.New("not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrPaymentGateway        = errors.New("payment gateway error")
	ErrPaymentGatewayTimeout = errors.New("payment gateway timeout")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrInvalidState          = errors.New("order is not in a valid state")
	ErrOversellConflict      = errors.New("inventory oversold at issuance")
	ErrTicketCodeExhausted   = errors.New("could not generate a unique ticket code")
)

// Code returns the stable error name exposed to API clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInsufficientInventory):
		return "InsufficientInventory"
	case errors.Is(err, ErrPaymentGatewayTimeout):
		return "PaymentGatewayTimeout"
	case errors.Is(err, ErrPaymentGateway):
		return "PaymentGatewayError"
	case errors.Is(err, ErrInvalidSignature):
		return "InvalidSignature"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrOversellConflict):
		return "OversellConflict"
	default:
		return "InternalError"
	}
}
