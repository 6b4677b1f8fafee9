package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/gridworks/plotregistry/api/internal/errors"
	"github.com/gridworks/plotregistry/api/internal/services"
)

// LookupHandler handles the dropdown and search HTTP requests.
type LookupHandler struct {
	service services.PlotService
}

// NewLookupHandler creates a new LookupHandler instance.
func NewLookupHandler(service services.PlotService) *LookupHandler {
	return &LookupHandler{
		service: service,
	}
}

// SearchRequest represents the search request body. Only node is required;
// the remaining filters narrow the result when provided.
type SearchRequest struct {
	Node   string `json:"node"`
	Sector string `json:"sector"`
	Block  string `json:"block"`
	Plot   string `json:"plot"`
}

// Nodes handles GET /api/nodes.
func (h *LookupHandler) Nodes(c *gin.Context) {
	nodes, err := h.service.ListNodes(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load nodes", err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

// Sectors handles GET /api/sectors?node=.
func (h *LookupHandler) Sectors(c *gin.Context) {
	sectors, err := h.service.ListSectors(c.Request.Context(), c.Query("node"))
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load sectors", err)
		return
	}
	c.JSON(http.StatusOK, sectors)
}

// Blocks handles GET /api/blocks?node=&sector=.
func (h *LookupHandler) Blocks(c *gin.Context) {
	blocks, err := h.service.ListBlocks(c.Request.Context(), c.Query("node"), c.Query("sector"))
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load blocks", err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// Plots handles GET /api/plots?node=&sector=&block=.
func (h *LookupHandler) Plots(c *gin.Context) {
	plots, err := h.service.ListPlots(c.Request.Context(), c.Query("node"), c.Query("sector"), c.Query("block"))
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load plots", err)
		return
	}
	c.JSON(http.StatusOK, plots)
}

// Search handles POST /api/search.
func (h *LookupHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	rows, err := h.service.Search(c.Request.Context(), req.Node, req.Sector, req.Block, req.Plot)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search plot records", err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
