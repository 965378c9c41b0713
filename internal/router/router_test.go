package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store-service/internal/dto"
	"store-service/internal/handlers"
	"store-service/internal/migrate"
	"store-service/internal/realtime"
	"store-service/internal/repository"
	"store-service/internal/router"
	"store-service/internal/service"
	"store-service/internal/testutil"
	"store-service/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
	tokens *token.HSProvider
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestPostgres(t)
	require.NoError(t, migrate.MigrateStoreDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()))

	log := zap.NewNop()
	repo := repository.New(db)
	settings := service.StoreSettings{Currency: "USD", Carrier: "Farm Express"}
	hub := realtime.NewHub(log)
	fx := service.SideEffects{Pusher: hub}
	tokens := token.NewHSProvider("s3cret", "farm-auth", "store-api")

	engine := router.Router(router.Deps{
		Catalog:       handlers.NewCatalogHandler(service.NewCatalogService(repo), log),
		Cart:          handlers.NewCartHandler(service.NewCartService(repo, settings, nil, log), log),
		Orders:        handlers.NewOrderHandler(service.NewOrderService(repo, settings, fx, log), log),
		Payments:      handlers.NewPaymentHandler(service.NewPaymentService(repo, service.DefaultGateways(), settings, fx, log), log),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(repo), hub, log),
		Inventory:     handlers.NewInventoryHandler(service.NewInventoryService(repo), log),
		Reviews:       handlers.NewReviewHandler(service.NewReviewService(repo, fx, log), log),
		Tokens:        tokens,
	}, log)

	return &api{t: t, engine: engine, tokens: tokens}
}

func (a *api) token(uid uuid.UUID, role string) string {
	tok, _, err := a.tokens.SignAccess(context.Background(), uid, role, time.Hour)
	require.NoError(a.t, err)
	return tok
}

func (a *api) do(method, path, tok string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil, nil))
}

func TestCheckoutOverHTTP(t *testing.T) {
	a := newAPI(t)
	admin := a.token(uuid.New(), token.RoleAdmin)
	buyer := a.token(uuid.New(), token.RoleUser)

	var eggs dto.ProductResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/admin/products", admin,
		dto.CreateProductRequest{Name: "Eggs", PriceCents: 450, Stock: 3}, &eggs))
	assert.Equal(t, "4.50", eggs.Price)
	assert.True(t, eggs.IsActive)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/admin/products", buyer,
		dto.CreateProductRequest{Name: "Nope", PriceCents: 1}, nil))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/v1/cart/items", buyer,
		dto.AddToCartRequest{ProductID: eggs.ID, Quantity: 2}, nil))

	var errBody dto.BaseError
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/cart/items", buyer,
		dto.AddToCartRequest{ProductID: eggs.ID, Quantity: 2}, &errBody))
	assert.Equal(t, "insufficient_stock", errBody.Code)

	var cart dto.CartResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/cart", buyer, nil, &cart))
	assert.Equal(t, "9.00", cart.Total)

	errBody = dto.BaseError{}
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/orders", buyer,
		dto.PlaceOrderRequest{}, &errBody))
	assert.Equal(t, "validation_error", errBody.Code)

	var ord dto.OrderResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/orders", buyer,
		dto.PlaceOrderRequest{ShippingRequest: dto.ShippingRequest{
			ShippingAddress: "1 Farm Lane", ShippingCity: "Springfield", ShippingCountry: "US",
		}}, &ord))
	assert.Equal(t, "pending", ord.Status)
	assert.Equal(t, "9.00", ord.TotalPrice)
	require.NotNil(t, ord.Tracking)
	assert.Equal(t, "preparing", ord.Tracking.Status)

	var paid dto.PayResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/payments", buyer,
		dto.PaymentRequest{PaymentMethod: "paypal", CardNumber: "4111111111111111", CardExpiry: "12/99", CardCVC: "123"}, &paid))
	assert.Equal(t, "completed", paid.Payment.Status)
	assert.Equal(t, "processing", paid.Order.Status)

	errBody = dto.BaseError{}
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/payments", buyer,
		dto.PaymentRequest{PaymentMethod: "bank_transfer", IBAN: "DE89370400440532013000"}, &errBody))
	assert.Equal(t, "order_not_payable", errBody.Code)

	var count dto.UnreadCountResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/notifications/unread-count", buyer, nil, &count))
	assert.EqualValues(t, 2, count.Unread)

	other := a.token(uuid.New(), token.RoleUser)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/orders/"+ord.ID, other, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/orders/"+ord.ID, "", nil, nil))
}

func TestCategoriesAndReviewsOverHTTP(t *testing.T) {
	a := newAPI(t)
	admin := a.token(uuid.New(), token.RoleAdmin)
	buyer := a.token(uuid.New(), token.RoleUser)

	var dairy dto.CategoryResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/admin/categories", admin,
		dto.CreateCategoryRequest{Name: "Dairy Goods"}, &dairy))
	assert.Equal(t, "dairy-goods", dairy.Slug)

	var errBody dto.BaseError
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/admin/categories", admin,
		dto.CreateCategoryRequest{Name: "Dairy Goods"}, &errBody))
	assert.Equal(t, "category_exists", errBody.Code)

	var cats []dto.CategoryResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/categories", "", nil, &cats))
	require.Len(t, cats, 1)

	var milk dto.ProductResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/admin/products", admin,
		dto.CreateProductRequest{Name: "Milk", PriceCents: 250, Stock: 5, CategoryID: &dairy.ID}, &milk))
	assert.Equal(t, dairy.ID, milk.CategoryID)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/admin/products", admin,
		dto.CreateProductRequest{Name: "Carrots", PriceCents: 120, Stock: 5}, nil))

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/products?category_id="+dairy.ID, "", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, milk.ID, list.Items[0].ID)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/products?category_id=dairy", "", nil, nil))

	reviews := "/api/v1/products/" + milk.ID + "/reviews"
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, reviews, "",
		dto.SubmitReviewRequest{Rating: 5}, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, reviews, buyer,
		dto.SubmitReviewRequest{Rating: 9}, nil))

	var rv dto.ReviewResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, reviews, buyer,
		dto.SubmitReviewRequest{Rating: 4, Comment: "fresh"}, &rv))
	assert.False(t, rv.IsApproved)

	errBody = dto.BaseError{}
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, reviews, buyer,
		dto.SubmitReviewRequest{Rating: 2}, &errBody))
	assert.Equal(t, "already_reviewed", errBody.Code)

	var page dto.ReviewListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, reviews, "", nil, &page))
	assert.Empty(t, page.Items)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPatch, "/api/v1/admin/reviews/"+rv.ID+"/approve", buyer, nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, "/api/v1/admin/reviews/"+rv.ID+"/approve", admin, nil, &rv))
	assert.True(t, rv.IsApproved)

	page = dto.ReviewListResponse{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, reviews, "", nil, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "fresh", page.Items[0].Comment)

	var count dto.UnreadCountResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/notifications/unread-count", buyer, nil, &count))
	assert.EqualValues(t, 1, count.Unread)
}
