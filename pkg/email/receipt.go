package email

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"
)

// Receipt carries the details rendered into a purchase receipt email.
type Receipt struct {
	Email       string
	ProductName string
	PurchasedAt time.Time
	SupportURL  string
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Thanks for your purchase!</h2>
  <p>Your payment for <strong>{{.ProductName}}</strong> went through on {{.PurchasedAt.Format "January 2, 2006"}}.</p>
  <p>Premium is now active on every device where you sign in with <strong>{{.Email}}</strong>. It's a one-time purchase, so there is nothing to renew and nothing to cancel.</p>
  {{if .SupportURL}}<p>Questions? Visit <a href="{{.SupportURL}}">our support page</a> or just reply to this email.</p>{{end}}
</body>
</html>`))

// SendReceipt renders and sends a purchase receipt to the buyer.
func SendReceipt(ctx context.Context, sender Sender, receipt Receipt) error {
	if sender == nil {
		return errors.Join(ErrSendFailed, errors.New("nil sender"))
	}

	var body bytes.Buffer
	if err := receiptTmpl.Execute(&body, receipt); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return sender.Send(ctx, Message{
		To:       receipt.Email,
		Subject:  "Your " + receipt.ProductName + " purchase receipt",
		BodyHTML: body.String(),
		Tag:      "purchase-receipt",
	})
}
