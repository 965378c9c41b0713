package dto

type PaymentRequest struct {
	OrderID        *string `json:"order_id"`
	PaymentMethod  string  `json:"payment_method" binding:"required"`
	CardNumber     string  `json:"card_number"`
	CardExpiry     string  `json:"card_expiry"`
	CardCVC        string  `json:"card_cvc"`
	IBAN           string  `json:"iban"`
	MandateConsent bool    `json:"mandate_consent"`
}

type PayResponse struct {
	Payment PaymentResponse `json:"payment"`
	Order   OrderResponse   `json:"order"`
}
