package handlers

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/kpi"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/pipeline"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/repository/postgres"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/service"
)

const maxUploadBytes = 64 << 20 // 64 MiB

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// parseStringList reads a multi-valued query parameter, accepting both
// repeated params and comma-separated values:
//
//	?location=A&location=B
//	?location=A,B
//
// Values are de-duplicated and sorted so equal selections hit the same cache
// entry.
func parseStringList(c *gin.Context, param string) []string {
	raw := c.QueryArray(param)
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query(param)); single != "" {
			raw = []string{single}
		}
	}
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var values []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	sort.Strings(values)
	return values
}

func parseDateParam(c *gin.Context, param string) *time.Time {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

func (h *DashboardHandler) parseFilter(c *gin.Context) domain.Filter {
	return domain.Filter{
		StartDate:  parseDateParam(c, "start_date"),
		EndDate:    parseDateParam(c, "end_date"),
		Categories: parseStringList(c, "category"),
		Locations:  parseStringList(c, "location"),
		Statuses:   parseStringList(c, "status"),
		SKUs:       parseStringList(c, "sku"),
		SKUNames:   parseStringList(c, "sku_name"),
		CreatedBy:  parseStringList(c, "created_by"),
		References: parseStringList(c, "reference"),
	}
}

func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDataUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no dashboard data loaded; upload a moves export or refresh from the spreadsheet",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Upload accepts a moves CSV export, runs the pipeline and publishes the new
// tables.
func (h *DashboardHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field in multipart form"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ProcessUpload(c.Request.Context(), fileHeader.Filename, content, c.ClientIP())
	if err != nil {
		var schemaErr *pipeline.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missingColumns": schemaErr.Missing})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rawRows":      result.RawRows,
		"legRows":      result.LegRows,
		"pivotRows":    len(result.Pivot),
		"movesRows":    len(result.MovesHistory),
		"inboundRows":  len(result.Inbound),
		"outboundRows": len(result.Outbound),
	})
}

// Refresh re-reads the spreadsheet into memory.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.service.Status())
}

func (h *DashboardHandler) GetPivot(c *gin.Context) {
	rows, err := h.service.Pivot(h.parseFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

func (h *DashboardHandler) GetMoves(c *gin.Context) {
	legs, err := h.service.Moves(h.parseFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": legs, "count": len(legs)})
}

func (h *DashboardHandler) GetInbound(c *gin.Context) {
	legs, err := h.service.Inbound(h.parseFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": legs, "count": len(legs)})
}

func (h *DashboardHandler) GetOutbound(c *gin.Context) {
	legs, err := h.service.Outbound(h.parseFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": legs, "count": len(legs)})
}

// GetCards evaluates the five KPI cards for the requested filter and period.
func (h *DashboardHandler) GetCards(c *gin.Context) {
	filter := h.parseFilter(c)
	period := kpi.Period(c.DefaultQuery("period", string(kpi.PeriodAll)))

	cards, label, err := h.service.Cards(c.Request.Context(), filter, period, filter.StartDate, filter.EndDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": label, "cards": cards})
}

func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.service.FilterOptions()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *DashboardHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

// GetRuns lists the most recent pipeline runs from the audit table.
func (h *DashboardHandler) GetRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = make([]*postgres.PipelineRun, 0)
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}
