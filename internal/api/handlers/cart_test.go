package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/domain"
)

type stubLoader struct {
	items   []domain.CartItem
	cleared []string
}

func (s *stubLoader) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, Items: s.items}, nil
}

func (s *stubLoader) ClearCart(ctx context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

func newCartRouter(loader *stubLoader) *gin.Engine {
	svc := cart.NewService(loader, nil, cart.ShippingPolicy{FreeShippingThreshold: 600, FlatFee: 30}, nil)
	r := gin.New()
	r.GET("/v1/cart", HandleGetCart(svc, zap.NewNop()))
	r.DELETE("/v1/cart", HandleClearCart(svc, zap.NewNop()))
	r.GET("/v1/cart/badge", HandleCartBadge(svc, zap.NewNop()))
	return r
}

func TestGetCart_ReturnsTotals(t *testing.T) {
	router := newCartRouter(&stubLoader{items: []domain.CartItem{
		{ProductID: 1, Name: "Av Yeleği", Price: 400, Quantity: 1},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart?userId=u1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 400.0, resp.Totals.Subtotal)
	assert.Equal(t, 30.0, resp.Totals.Shipping)
	assert.Equal(t, 430.0, resp.Totals.Total)
}

func TestGetCart_PickupQueryShipsFree(t *testing.T) {
	router := newCartRouter(&stubLoader{items: []domain.CartItem{
		{ProductID: 1, Price: 100, Quantity: 1},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart?userId=u1&deliveryMethod=pickup", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Totals.Shipping)
}

func TestGetCart_RequiresUserID(t *testing.T) {
	router := newCartRouter(&stubLoader{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearCart(t *testing.T) {
	loader := &stubLoader{}
	router := newCartRouter(loader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/cart?userId=u1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"u1"}, loader.cleared)
}

func TestCartBadge(t *testing.T) {
	router := newCartRouter(&stubLoader{items: []domain.CartItem{
		{ProductID: 1, Price: 100, Quantity: 2},
		{ProductID: 2, Price: 50, Quantity: 3},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart/badge?userId=u1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":5`)
}
