package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/telco360/internal/orders/domain"
)

type orderRequest struct {
	OrderID     int64   `json:"order_id"`
	CustomerID  string  `json:"customer_id"`
	MfgPlantID  string  `json:"mfg_plant_id"`
	OrderDate   string  `json:"order_date"`
	OrderStatus string  `json:"order_status"`
	ProductID   string  `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	UnitPrice   float64 `json:"unit_price"`
}

func (r orderRequest) toUpsert() domain.UpsertRequest {
	return domain.UpsertRequest{
		OrderID:     r.OrderID,
		CustomerID:  strings.TrimSpace(r.CustomerID),
		MfgPlantID:  strings.TrimSpace(r.MfgPlantID),
		OrderDate:   strings.TrimSpace(r.OrderDate),
		OrderStatus: strings.TrimSpace(r.OrderStatus),
		ProductID:   strings.TrimSpace(r.ProductID),
		Quantity:    r.Quantity,
		TotalPrice:  r.TotalPrice,
		UnitPrice:   r.UnitPrice,
		Channel:     domain.ChannelAPI,
	}
}

func (s *Server) ListOrders(c *gin.Context) {
	limit, err := domain.ParseLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ordersSvc.Fetch(c.Request.Context(), domain.FetchRequest{
		OrderID: c.Query("order_id"),
		Limit:   limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id, err := domain.ParseOrderID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("order_id", strconv.FormatInt(id, 10))

	order, err := s.ordersSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.OrderID <= 0 {
		AbortWithError(c, domain.ErrInvalidOrderID)
		return
	}

	s.upsertOrder(c, req)
}

// PutOrder takes the id from the path. A body order_id that disagrees is
// rejected.
func (s *Server) PutOrder(c *gin.Context) {
	id, err := domain.ParseOrderID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("order_id", strconv.FormatInt(id, 10))

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.OrderID != 0 && req.OrderID != id {
		AbortWithError(c, newValidationError("order_id", "order_id_mismatch", "order_id does not match the path"))
		return
	}
	req.OrderID = id

	s.upsertOrder(c, req)
}

func (s *Server) upsertOrder(c *gin.Context, req orderRequest) {
	order, err := s.ordersSvc.Upsert(c.Request.Context(), req.toUpsert())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id, err := domain.ParseOrderID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("order_id", strconv.FormatInt(id, 10))

	resp, err := s.ordersSvc.Delete(c.Request.Context(), domain.DeleteRequest{
		OrderID: id,
		Channel: domain.ChannelAPI,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
