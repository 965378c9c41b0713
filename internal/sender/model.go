package sender

// EmailNotification is both the Kafka email job payload and the input to
// EmailSender. Template is a base name under the template dir ("order_placed").
type EmailNotification struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

const (
	TemplateOrderPlaced      = "order_placed"
	TemplatePaymentInitiated = "payment_initiated"
)
