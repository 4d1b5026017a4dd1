package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/telco360/internal/dashboard"
	"github.com/smallbiznis/telco360/internal/observability/logger"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/zap"
)

type dashboardPage struct {
	Pages      []dashboard.Page
	Active     dashboard.Page
	Query      string
	Matches    []dashboard.Match
	CustomerID string
	View       *dashboard.View
	Summary    dashboard.Summary
	ReportURL  string
}

type errorPage struct {
	Status  int
	Title   string
	Message string
	Back    string
}

type customerResponse struct {
	Customer domain.Customer      `json:"customer"`
	Usage    []domain.UsageRecord `json:"usage_history"`
}

func (s *Server) DashboardIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard/"+dashboard.Pages[0].Key)
}

// DashboardPage renders one page with the customer lookup sidebar. The
// customer query parameter switches to the single customer view.
func (s *Server) DashboardPage(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("page")
	customerID := strings.TrimSpace(c.Query("customer"))
	query := strings.TrimSpace(c.Query("q"))
	c.Set("dashboard_page", key)
	c.Set("customer_id", customerID)

	view, err := s.dashboardSvc.Render(ctx, key, customerID)
	if err != nil {
		s.renderErrorPage(c, err, "/dashboard")
		return
	}

	matches, err := s.dashboardSvc.Search(ctx, query)
	if err != nil {
		s.renderErrorPage(c, err, "/dashboard")
		return
	}
	summary, err := s.dashboardSvc.Summary(ctx)
	if err != nil {
		s.renderErrorPage(c, err, "/dashboard")
		return
	}

	page := dashboardPage{
		Pages:      s.dashboardSvc.Pages(),
		Active:     view.Page,
		Query:      query,
		Matches:    matches,
		CustomerID: customerID,
		View:       view,
		Summary:    summary,
	}
	if customerID != "" && s.pdf != nil {
		page.ReportURL = fmt.Sprintf("/dashboard/customers/%s/report.pdf", customerID)
	}

	c.HTML(http.StatusOK, tmplDashboard, page)
}

// renderErrorPage answers HTML routes with a page instead of the JSON payload.
// The error is still recorded for the request log.
func (s *Server) renderErrorPage(c *gin.Context, err error, back string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("dashboard render failed", zap.Error(err))
	}
	c.HTML(status, tmplError, errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: payload.Message,
		Back:    back,
	})
	_ = c.Error(err)
	c.Abort()
}

func (s *Server) CustomerReport(c *gin.Context) {
	if s.pdf == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))
	c.Set("customer_id", id)

	report, err := s.dashboardSvc.Report(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.CustomerReport(ctx, report)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s.pdf"`, report.CustomerID),
	})
}

func (s *Server) ListDashboardPages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.dashboardSvc.Pages()})
}

func (s *Server) GetDashboardPage(c *gin.Context) {
	key := c.Param("page")
	customerID := strings.TrimSpace(c.Query("customer"))
	c.Set("dashboard_page", key)
	c.Set("customer_id", customerID)

	view, err := s.dashboardSvc.Render(c.Request.Context(), key, customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) SearchCustomers(c *gin.Context) {
	matches, err := s.dashboardSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": matches})
}

func (s *Server) GetDashboardCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("customer_id", id)

	customer, usage, err := s.dashboardSvc.Customer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if usage == nil {
		usage = []domain.UsageRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"data": customerResponse{Customer: customer, Usage: usage}})
}

func (s *Server) DatasetSummary(c *gin.Context) {
	summary, err := s.dashboardSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) ReloadDataset(c *gin.Context) {
	summary, err := s.dashboardSvc.Reload(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
