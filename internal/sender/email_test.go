package sender

import (
	"bytes"
	"testing"

	"store-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender() *EmailSender {
	return NewEmailSender(config.SMTP{From: "shop@farm.test", TMPLDir: "../../templates"})
}

func TestBuild_OrderPlaced(t *testing.T) {
	m, err := testSender().Build(EmailNotification{
		To:       "buyer@farm.test",
		Subject:  "Order #7 placed",
		Template: TemplateOrderPlaced,
		Data: map[string]any{
			"OrderNumber": 7,
			"Items": []map[string]any{
				{"Name": "Product X", "Quantity": 2, "Price": "10.00", "Subtotal": "20.00"},
			},
			"Total":          "25.00",
			"Currency":       "USD",
			"TrackingNumber": "TRK7123",
			"LoyaltyPoints":  2,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"buyer@farm.test"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Product X x2 @ 10.00")
	assert.Contains(t, buf.String(), "TRK7123")
}

func TestBuild_EscapesHTML(t *testing.T) {
	html, err := testSender().renderHTML(TemplatePaymentInitiated, map[string]any{
		"OrderNumber": 1, "Method": "<script>", "Amount": "1.00", "Currency": "USD",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBuild_UnknownTemplate(t *testing.T) {
	_, err := testSender().Build(EmailNotification{To: "x@farm.test", Template: "nope"})
	assert.Error(t, err)
}
