package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/telco360/internal/observability/logger"
	"github.com/smallbiznis/telco360/internal/orders/domain"
	"github.com/smallbiznis/telco360/pkg/db"
	"go.uber.org/zap"
)

type flash struct {
	Kind string
	Text string
}

type connectionInfo struct {
	Host     string
	Port     string
	User     string
	Database string
}

type orderRow struct {
	OrderID     int64
	CustomerID  string
	MfgPlantID  string
	OrderDate   string
	OrderStatus string
	ProductID   string
	Quantity    int64
	TotalPrice  string
	UnitPrice   string
}

// orderForm holds the raw upsert inputs so a rejected submit keeps them.
type orderForm struct {
	OrderID     string
	CustomerID  string
	MfgPlantID  string
	OrderDate   string
	OrderStatus string
	ProductID   string
	Quantity    string
	TotalPrice  string
	UnitPrice   string
}

type ordersPage struct {
	Connection  connectionInfo
	SearchID    string
	Limit       int
	MaxLimit    int
	SearchError string
	Orders      []orderRow
	Flash       *flash
	Form        orderForm
	DeleteID    string
}

func defaultOrderForm() orderForm {
	return orderForm{
		OrderDate:  domain.DefaultOrderDate.Format(domain.OrderDateLayout),
		Quantity:   "0",
		TotalPrice: "0.00",
		UnitPrice:  "0.00",
	}
}

func (s *Server) newOrdersPage() *ordersPage {
	return &ordersPage{
		Connection: connectionInfo{
			Host:     s.cfg.DBHost,
			Port:     s.cfg.DBPort,
			User:     s.cfg.DBUser,
			Database: s.cfg.DBName,
		},
		Limit:    domain.DefaultLimit,
		MaxLimit: domain.MaxLimit,
		Form:     defaultOrderForm(),
	}
}

// OrdersPage renders the search results with the upsert and delete forms.
func (s *Server) OrdersPage(c *gin.Context) {
	page := s.newOrdersPage()
	page.SearchID = strings.TrimSpace(c.Query("order_id"))

	if raw := c.Query("limit"); raw != "" {
		limit, err := domain.ParseLimit(raw)
		if err != nil {
			page.SearchError = domain.Message(err)
		} else {
			page.Limit = limit
		}
	}

	s.renderOrdersPage(c, page)
}

func (s *Server) SubmitOrderForm(c *gin.Context) {
	page := s.newOrdersPage()
	page.Form = orderForm{
		OrderID:     strings.TrimSpace(c.PostForm("order_id")),
		CustomerID:  strings.TrimSpace(c.PostForm("customer_id")),
		MfgPlantID:  strings.TrimSpace(c.PostForm("mfg_plant_id")),
		OrderDate:   strings.TrimSpace(c.PostForm("order_date")),
		OrderStatus: strings.TrimSpace(c.PostForm("order_status")),
		ProductID:   strings.TrimSpace(c.PostForm("product_id")),
		Quantity:    strings.TrimSpace(c.PostForm("quantity")),
		TotalPrice:  strings.TrimSpace(c.PostForm("total_price")),
		UnitPrice:   strings.TrimSpace(c.PostForm("unit_price")),
	}

	req, err := page.Form.toUpsert()
	if err == nil {
		_, err = s.ordersSvc.Upsert(c.Request.Context(), req)
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("order form rejected", zap.Error(err))
		page.Flash = &flash{Kind: "error", Text: "Failed to save order: " + describeOrderError(err)}
	} else {
		page.Flash = &flash{Kind: "success", Text: "Order saved."}
		page.Form = defaultOrderForm()
	}

	s.renderOrdersPage(c, page)
}

func (s *Server) SubmitDeleteForm(c *gin.Context) {
	page := s.newOrdersPage()
	page.DeleteID = strings.TrimSpace(c.PostForm("order_id"))

	id, err := domain.ParseOrderID(page.DeleteID)
	if err == nil {
		_, err = s.ordersSvc.Delete(c.Request.Context(), domain.DeleteRequest{
			OrderID: id,
			Channel: domain.ChannelForm,
		})
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("order delete rejected", zap.Error(err))
		page.Flash = &flash{Kind: "error", Text: "Failed to delete order: " + describeOrderError(err)}
	} else {
		page.Flash = &flash{Kind: "success", Text: "Order deleted."}
		page.DeleteID = ""
	}

	s.renderOrdersPage(c, page)
}

// renderOrdersPage loads the result table. Search failures render inline.
func (s *Server) renderOrdersPage(c *gin.Context, page *ordersPage) {
	resp, err := s.ordersSvc.Fetch(c.Request.Context(), domain.FetchRequest{
		OrderID: page.SearchID,
		Limit:   page.Limit,
	})
	switch {
	case err == nil:
		page.Orders = toOrderRows(resp.Orders)
	case errors.Is(err, domain.ErrInvalidOrderID), errors.Is(err, domain.ErrInvalidLimit):
		page.SearchError = domain.Message(err)
	default:
		logger.FromContext(c.Request.Context()).Warn("order search failed", zap.Error(err))
		page.SearchError = "Failed to load orders: " + describeOrderError(err)
	}

	c.HTML(http.StatusOK, tmplOrders, page)
}

func (f orderForm) toUpsert() (domain.UpsertRequest, error) {
	id, err := domain.ParseOrderID(f.OrderID)
	if err != nil {
		return domain.UpsertRequest{}, err
	}
	quantity, err := domain.ParseQuantity(f.Quantity)
	if err != nil {
		return domain.UpsertRequest{}, err
	}
	total, err := domain.ParseAmount(f.TotalPrice, domain.ErrInvalidTotalPrice)
	if err != nil {
		return domain.UpsertRequest{}, err
	}
	unit, err := domain.ParseAmount(f.UnitPrice, domain.ErrInvalidUnitPrice)
	if err != nil {
		return domain.UpsertRequest{}, err
	}
	return domain.UpsertRequest{
		OrderID:     id,
		CustomerID:  f.CustomerID,
		MfgPlantID:  f.MfgPlantID,
		OrderDate:   f.OrderDate,
		OrderStatus: f.OrderStatus,
		ProductID:   f.ProductID,
		Quantity:    quantity,
		TotalPrice:  total,
		UnitPrice:   unit,
		Channel:     domain.ChannelForm,
	}, nil
}

func toOrderRows(orders []domain.Order) []orderRow {
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow{
			OrderID:     o.OrderID,
			CustomerID:  o.CustomerID,
			MfgPlantID:  o.MfgPlantID,
			OrderDate:   o.OrderDate.UTC().Format(domain.OrderDateLayout),
			OrderStatus: o.OrderStatus,
			ProductID:   o.ProductID,
			Quantity:    o.Quantity,
			TotalPrice:  strconv.FormatFloat(o.TotalPrice, 'f', 2, 64),
			UnitPrice:   strconv.FormatFloat(o.UnitPrice, 'f', 2, 64),
		})
	}
	return rows
}

func describeOrderError(err error) string {
	if msg := domain.Message(err); msg != "" {
		return msg
	}
	return db.Describe(err)
}
