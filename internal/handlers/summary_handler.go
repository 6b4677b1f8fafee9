package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/gridworks/plotregistry/api/internal/errors"
	"github.com/gridworks/plotregistry/api/internal/services"
)

// SummaryHandler handles the aggregate report HTTP requests.
type SummaryHandler struct {
	service services.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler instance.
func NewSummaryHandler(service services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		service: service,
	}
}

// ByPlotUse handles GET /api/summary?node=&sector=.
func (h *SummaryHandler) ByPlotUse(c *gin.Context) {
	h.summarize(c, services.GroupPlotUse)
}

// ByDepartment handles GET /api/summary/department?node=&sector=.
func (h *SummaryHandler) ByDepartment(c *gin.Context) {
	h.summarize(c, services.GroupDepartment)
}

// summarize runs the report for a fixed group column. The column is chosen
// by the route, never by request input.
func (h *SummaryHandler) summarize(c *gin.Context, groupColumn string) {
	rows, err := h.service.Summarize(c.Request.Context(), groupColumn, c.Query("node"), c.Query("sector"))
	if err != nil {
		apierrors.InternalServerError(c, "Failed to compute summary", err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
