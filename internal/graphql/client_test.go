package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rugurujane/storefront/internal/order"
)

func newServer(t *testing.T, handler func(t *testing.T, req Request) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))
		status, resp := handler(t, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Products(t *testing.T) {
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		assert.Equal(t, "GetProducts", req.OperationName)
		assert.Contains(t, req.Query, "attributes")
		return http.StatusOK, `{"data":{"products":[
			{"id":"ps-5","name":"PlayStation 5","inStock":true,"category":"tech",
			 "gallery":["g1"],"prices":[{"amount":844.02,"currency":{"label":"USD","symbol":"$"}}],
			 "attributes":[{"id":"Color","name":"Color","type":"swatch","items":[{"id":"Green","displayValue":"Green","value":"#44FF03"}]}]}
		]}}`
	})

	products, err := NewClient(srv.URL).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "ps-5", p.ID)
	assert.True(t, p.InStock)
	assert.Equal(t, 844.02, p.Prices[0].Amount)
	assert.Equal(t, "$", p.Prices[0].Currency.Symbol)
	assert.Equal(t, "#44FF03", p.Attributes[0].Items[0].Value)
}

func TestClient_CreateOrder(t *testing.T) {
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		assert.Equal(t, "CreateOrder", req.OperationName)
		products, ok := req.Variables["products"].([]any)
		require.True(t, ok)
		require.Len(t, products, 1)
		assert.Equal(t, map[string]any{"productId": "a", "quantity": float64(2), "totalPrice": 5.0}, products[0])
		return http.StatusOK, `{"data":{"createOrder":{"id":"42","products":[{"productId":"a","quantity":2,"totalPrice":5}],"totalPrice":5}}}`
	})

	conf, err := NewClient(srv.URL).CreateOrder(context.Background(), order.Request{
		Products: []order.ProductInput{{ProductID: "a", Quantity: 2, TotalPrice: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", conf.ID)
	assert.Equal(t, 5.0, conf.TotalPrice)
	require.Len(t, conf.Products, 1)
}

func TestClient_GraphQLErrors(t *testing.T) {
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		return http.StatusOK, `{"data":null,"errors":[{"message":"out of stock"},{"message":"bad input"}]}`
	})

	_, err := NewClient(srv.URL).CreateOrder(context.Background(), order.Request{})
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Len(t, respErr.Errors, 2)
	assert.EqualError(t, respErr, "graphql: out of stock; bad input")
}

func TestClient_HTTPStatus(t *testing.T) {
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		return http.StatusBadGateway, `upstream down`
	})

	_, err := NewClient(srv.URL).Products(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestClient_HTTPStatusBodyKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("a", 199) + "é" + strings.Repeat("b", 50)
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		return http.StatusServiceUnavailable, body
	})

	_, err := NewClient(srv.URL).Products(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, utf8.ValidString(statusErr.Body))
	assert.Equal(t, strings.Repeat("a", 199)+"...", statusErr.Body)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "...", truncate("日本", 2))
	assert.Equal(t, "日...", truncate("日本", 4))
}

func TestClient_MissingData(t *testing.T) {
	srv := newServer(t, func(t *testing.T, req Request) (int, string) {
		return http.StatusOK, `{"data":{"createOrder":null}}`
	})

	_, err := NewClient(srv.URL).CreateOrder(context.Background(), order.Request{})
	assert.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, WithTimeout(5*time.Second)).Products(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
