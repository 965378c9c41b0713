package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"store-service/internal/middleware"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPayments struct {
	calls int
	last  service.PaymentInput
}

func (s *stubPayments) Pay(_ context.Context, _ uuid.UUID, in service.PaymentInput) (*service.PaymentResult, error) {
	s.calls++
	s.last = in
	return nil, service.ErrOrderNotFound
}

func payRouter(p service.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payments", func(c *gin.Context) {
		c.Set(middleware.CtxUserID, uuid.New())
		c.Next()
	}, NewPaymentHandler(p, zap.NewNop()).Pay)
	return r
}

func postPay(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPay_OrderIDParsing(t *testing.T) {
	stub := &stubPayments{}
	r := payRouter(stub)

	w := postPay(r, `{"payment_method":"bank_transfer","iban":"DE89370400440532013000","order_id":""}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 1, stub.calls)
	assert.Nil(t, stub.last.OrderID, "blank order_id must fall back to the latest order")

	w = postPay(r, `{"payment_method":"bank_transfer","iban":"DE89370400440532013000","order_id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "order_id")
	assert.Equal(t, 1, stub.calls, "service must not run on a malformed order_id")

	id := uuid.New()
	postPay(r, `{"payment_method":"stripe","order_id":"`+id.String()+`"}`)
	require.Equal(t, 2, stub.calls)
	require.NotNil(t, stub.last.OrderID)
	assert.Equal(t, id, *stub.last.OrderID)
}
