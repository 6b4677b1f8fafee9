package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/gridworks/plotregistry/api/internal/errors"
	"github.com/gridworks/plotregistry/api/internal/services"
)

// RecordHandler handles single-record HTTP requests.
type RecordHandler struct {
	records services.RecordService
	plots   services.PlotService
}

// NewRecordHandler creates a new RecordHandler instance.
func NewRecordHandler(records services.RecordService, plots services.PlotService) *RecordHandler {
	return &RecordHandler{
		records: records,
		plots:   plots,
	}
}

// Detail handles GET /api/record/:id.
// Returns the full row plus signed URLs for its stored images and PDF.
func (h *RecordHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Record id must be an integer", nil)
		return
	}

	detail, err := h.records.GetRecordDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			apierrors.NotFound(c, "Record not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load record", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /api/record/:id.
// The body is a map of column name to new value; any subset of the
// updatable columns may be sent. The updated row is returned.
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Record id must be an integer", nil)
		return
	}

	var fields map[string]*string
	if err := c.ShouldBindJSON(&fields); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	record, err := h.plots.UpdateRecord(c.Request.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			apierrors.BadRequest(c, "No fields to update", nil)
		case errors.Is(err, services.ErrUnknownField):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrRecordNotFound):
			apierrors.NotFound(c, "Record not found")
		default:
			apierrors.InternalServerError(c, "Failed to update record", err)
		}
		return
	}

	c.JSON(http.StatusOK, record)
}
