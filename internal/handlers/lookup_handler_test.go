package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupLookupRoutes(t *testing.T, service *MockPlotService) *gin.Engine {
	t.Helper()
	router := newTestRouter(t)
	handler := NewLookupHandler(service)
	api := router.Group("/api")
	{
		api.GET("/nodes", handler.Nodes)
		api.GET("/sectors", handler.Sectors)
		api.GET("/blocks", handler.Blocks)
		api.GET("/plots", handler.Plots)
		api.POST("/search", handler.Search)
	}
	return router
}

func TestNodesEndpoint_Success(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	mockService.On("ListNodes", mock.Anything).Return([]string{"Node-A", "Node-B"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/nodes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"Node-A", "Node-B"}, got)
	mockService.AssertExpectations(t)
}

func TestNodesEndpoint_ServiceError(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	mockService.On("ListNodes", mock.Anything).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/nodes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestSectorsEndpoint_PassesNode(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	mockService.On("ListSectors", mock.Anything, "Node-A").Return([]string{"1", "2"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sectors?node=Node-A", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestPlotsEndpoint_PassesAllFilters(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	mockService.On("ListPlots", mock.Anything, "Node-A", "12", "B").
		Return([]string{"101", "102"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/plots?node=Node-A&sector=12&block=B", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSearchEndpoint_Success(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	node := "Node-A"
	plotNo := "101"
	rows := []models.PlotSearchRow{
		{ID: 1, NameOfNode: &node, PlotNo: &plotNo},
	}
	mockService.On("Search", mock.Anything, "Node-A", "12", "", "").Return(rows, nil)

	w := postJSON(t, router, "/api/search", gin.H{
		"node":   "Node-A",
		"sector": "12",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.PlotSearchRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	mockService.AssertExpectations(t)
}

// An empty body is a valid search: every filter is optional and the
// service receives four empty strings.
func TestSearchEndpoint_NoFilters(t *testing.T) {
	mockService := new(MockPlotService)
	router := setupLookupRoutes(t, mockService)

	mockService.On("Search", mock.Anything, "", "", "", "").
		Return([]models.PlotSearchRow{}, nil)

	w := postJSON(t, router, "/api/search", gin.H{})

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
