package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"github.com/smallbiznis/telco360/internal/orders/mocks"
	"go.uber.org/zap"
)

func newOrdersTestServer(t *testing.T, svc domain.Service) *Server {
	t.Helper()
	srv := &Server{
		engine: newTestRouter(t),
		cfg: config.Config{
			DBHost: "db.internal",
			DBPort: "5432",
			DBUser: "admin",
			DBName: "orders",
		},
		log:       zap.NewNop(),
		ordersSvc: svc,
	}
	srv.RegisterOrdersRoutes()
	return srv
}

func sampleOrder() domain.Order {
	return domain.Order{
		OrderID:     7,
		CustomerID:  "C-100",
		MfgPlantID:  "PLANT-2",
		OrderDate:   time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		OrderStatus: "SHIPPED",
		ProductID:   "P-9",
		Quantity:    3,
		TotalPrice:  29.97,
		UnitPrice:   9.99,
	}
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	srv.engine.ServeHTTP(resp, req)
	return resp
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestListOrdersReturnsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Fetch(gomock.Any(), domain.FetchRequest{Limit: 5}).
		Return(domain.FetchResponse{Orders: []domain.Order{sampleOrder()}, Limit: 5}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/api/orders?limit=5", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"order_id":7`) {
		t.Fatalf("expected order 7 in body, got %s", resp.Body.String())
	}
}

func TestListOrdersRejectsLimitOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newOrdersTestServer(t, mocks.NewMockService(ctrl))

	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/api/orders?limit=500", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"invalid_limit"`) {
		t.Fatalf("expected invalid_limit code, got %s", resp.Body.String())
	}
}

func TestGetOrderNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Get(gomock.Any(), int64(404)).Return(domain.Order{}, domain.ErrNotFound)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/api/orders/404", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestGetOrderRejectsNonIntegerID(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newOrdersTestServer(t, mocks.NewMockService(ctrl))

	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Order ID must be an integer.") {
		t.Fatalf("expected order id message, got %s", resp.Body.String())
	}
}

func TestPutOrderTakesIDFromPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	var got domain.UpsertRequest
	svc.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.UpsertRequest) (domain.Order, error) {
			got = req
			return domain.Order{OrderID: req.OrderID, CustomerID: req.CustomerID}, nil
		})

	srv := newOrdersTestServer(t, svc)
	body := `{"customer_id":" C-1 ","order_date":"2026-01-01 00:00:00","quantity":2,"total_price":10,"unit_price":5}`
	req := httptest.NewRequest(http.MethodPut, "/api/orders/42", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(srv, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.OrderID != 42 {
		t.Fatalf("expected order id 42, got %d", got.OrderID)
	}
	if got.CustomerID != "C-1" {
		t.Fatalf("expected trimmed customer id, got %q", got.CustomerID)
	}
	if got.Channel != domain.ChannelAPI {
		t.Fatalf("expected api channel, got %q", got.Channel)
	}
}

func TestPutOrderRejectsMismatchedBodyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newOrdersTestServer(t, mocks.NewMockService(ctrl))

	req := httptest.NewRequest(http.MethodPut, "/api/orders/42", bytes.NewBufferString(`{"order_id":43}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(srv, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreateOrderSurfacesValidationMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(domain.Order{}, domain.ErrInvalidOrderDate)

	srv := newOrdersTestServer(t, svc)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{"order_id":1,"order_date":"yesterday"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(srv, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"field":"order_date"`) {
		t.Fatalf("expected order_date field, got %s", resp.Body.String())
	}
}

func TestDeleteOrderMissingIDIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Delete(gomock.Any(), domain.DeleteRequest{OrderID: 9, Channel: domain.ChannelAPI}).
		Return(domain.DeleteResponse{OrderID: 9, Deleted: false}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, httptest.NewRequest(http.MethodDelete, "/api/orders/9", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"deleted":false`) {
		t.Fatalf("expected deleted false, got %s", resp.Body.String())
	}
}

func TestOrdersPageRendersResultsAndForms(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Fetch(gomock.Any(), domain.FetchRequest{Limit: domain.DefaultLimit}).
		Return(domain.FetchResponse{Orders: []domain.Order{sampleOrder()}, Limit: domain.DefaultLimit}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		"Orders Admin",
		"db.internal",
		"2026-02-03 04:05:06",
		"29.97",
		`value="2026-01-01 00:00:00"`,
		"Delete Order",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestOrdersPageInvalidSearchID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Fetch(gomock.Any(), domain.FetchRequest{OrderID: "ten", Limit: domain.DefaultLimit}).
		Return(domain.FetchResponse{}, domain.ErrInvalidOrderID)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/admin/orders?order_id=ten", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Order ID must be an integer.") {
		t.Fatal("expected integer error message")
	}
	if !strings.Contains(body, "No records found.") {
		t.Fatal("expected empty results notice")
	}
}

func TestSubmitOrderFormSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	var got domain.UpsertRequest
	svc.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.UpsertRequest) (domain.Order, error) {
			got = req
			return sampleOrder(), nil
		})
	svc.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(domain.FetchResponse{Orders: []domain.Order{sampleOrder()}}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, postForm("/admin/orders", url.Values{
		"order_id":     {"7"},
		"customer_id":  {"C-100"},
		"order_date":   {"2026-02-03 04:05:06"},
		"order_status": {"SHIPPED"},
		"quantity":     {"3"},
		"total_price":  {"29.97"},
		"unit_price":   {"9.99"},
	}))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Order saved.") {
		t.Fatal("expected success message")
	}
	if got.OrderID != 7 || got.Quantity != 3 || got.TotalPrice != 29.97 || got.UnitPrice != 9.99 {
		t.Fatalf("unexpected upsert request: %+v", got)
	}
	if got.Channel != domain.ChannelForm {
		t.Fatalf("expected form channel, got %q", got.Channel)
	}
}

func TestSubmitOrderFormKeepsInputOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(domain.FetchResponse{}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, postForm("/admin/orders", url.Values{
		"order_id":    {"7"},
		"customer_id": {"C-keep"},
		"quantity":    {"-1"},
	}))

	body := resp.Body.String()
	if !strings.Contains(body, "Failed to save order: Quantity must be a whole number of at least 0.") {
		t.Fatalf("expected quantity error, got %s", body)
	}
	if !strings.Contains(body, `value="C-keep"`) {
		t.Fatal("expected submitted customer id to be kept")
	}
}

func TestSubmitDeleteFormReportsDatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Delete(gomock.Any(), domain.DeleteRequest{OrderID: 5, Channel: domain.ChannelForm}).
		Return(domain.DeleteResponse{}, errors.New("connection refused"))
	svc.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(domain.FetchResponse{}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, postForm("/admin/orders/delete", url.Values{"order_id": {"5"}}))

	if !strings.Contains(resp.Body.String(), "Failed to delete order: connection refused") {
		t.Fatalf("expected delete error, got %s", resp.Body.String())
	}
}

func TestSubmitDeleteFormSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Delete(gomock.Any(), domain.DeleteRequest{OrderID: 5, Channel: domain.ChannelForm}).
		Return(domain.DeleteResponse{OrderID: 5, Deleted: true}, nil)
	svc.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return(domain.FetchResponse{}, nil)

	srv := newOrdersTestServer(t, svc)
	resp := serve(srv, postForm("/admin/orders/delete", url.Values{"order_id": {"5"}}))

	if !strings.Contains(resp.Body.String(), "Order deleted.") {
		t.Fatal("expected delete success message")
	}
}
