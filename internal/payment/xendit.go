package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/renaldyr/gigtix/pkg/apperrors"
	"github.com/xendit/xendit-go/v6"
	"github.com/xendit/xendit-go/v6/invoice"
)

// XenditGateway implements Gateway on top of Xendit invoices. One invoice is
// one hosted payment session; the buyer is redirected to the invoice URL and
// Xendit reports the outcome through invoice callbacks.
type XenditGateway struct {
	client *xendit.APIClient
}

func NewXenditGateway(client *xendit.APIClient) *XenditGateway {
	return &XenditGateway{client: client}
}

func (g *XenditGateway) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	items := make([]invoice.InvoiceItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		items = append(items, *invoice.NewInvoiceItem(
			line.Name,
			float32(line.UnitPriceCents)/100,
			float32(line.Quantity),
		))
	}

	req := invoice.NewCreateInvoiceRequest(input.ReferenceID, float64(input.TotalCents)/100)
	req.SetCurrency(input.Currency)
	req.SetItems(items)
	if input.FeeCents > 0 {
		req.SetFees([]invoice.InvoiceFee{
			*invoice.NewInvoiceFee("Service fee", float32(input.FeeCents)/100),
		})
	}
	if input.PayerEmail != "" {
		req.SetPayerEmail(input.PayerEmail)
	}
	if input.Description != "" {
		req.SetDescription(input.Description)
	}
	req.SetSuccessRedirectUrl(input.SuccessRedirectURL)
	req.SetFailureRedirectUrl(input.FailureRedirectURL)
	if input.ExpiresIn > 0 {
		req.SetInvoiceDuration(strconv.Itoa(int(input.ExpiresIn.Seconds())))
	}

	inv, _, sdkErr := g.client.InvoiceApi.CreateInvoice(ctx).CreateInvoiceRequest(*req).Execute()
	if sdkErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("create invoice: %w", apperrors.ErrPaymentGatewayTimeout)
		}
		return nil, fmt.Errorf("create invoice: %s: %w", sdkErr.Error(), apperrors.ErrPaymentGateway)
	}

	return &Session{ID: inv.GetId(), URL: inv.GetInvoiceUrl()}, nil
}
