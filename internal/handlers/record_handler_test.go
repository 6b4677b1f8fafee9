package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRecordRoutes(t *testing.T, records *MockRecordService, plots *MockPlotService) *gin.Engine {
	t.Helper()
	router := newTestRouter(t)
	handler := NewRecordHandler(records, plots)
	api := router.Group("/api")
	{
		api.GET("/record/:id", handler.Detail)
		api.PUT("/record/:id", handler.Update)
	}
	return router
}

func TestRecordDetailEndpoint_Success(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	pdf := "https://files/42.pdf?sig=c"
	detail := &services.RecordDetail{
		PlotRecord: models.PlotRecord{ID: 42},
		Images:     []string{"https://files/front.jpg?sig=a"},
		PDF:        &pdf,
		HasPDF:     true,
	}
	mockRecords.On("GetRecordDetail", mock.Anything, 42).Return(detail, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/record/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(42), got["ID"])
	assert.Equal(t, true, got["has_pdf"])
	mockRecords.AssertExpectations(t)
}

func TestRecordDetailEndpoint_NotFound(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	mockRecords.On("GetRecordDetail", mock.Anything, 404).
		Return(nil, services.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/record/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordDetailEndpoint_NonNumericID(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	req := httptest.NewRequest(http.MethodGet, "/api/record/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRecords.AssertNotCalled(t, "GetRecordDetail")
}

func TestRecordUpdateEndpoint_Success(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	remark := "verified on site"
	updated := &models.PlotRecord{ID: 42, SurveyRemarks: &remark}
	mockPlots.On("UpdateRecord", mock.Anything, 42,
		map[string]*string{"SURVEY_REMARKS": &remark}).Return(updated, nil)

	w := putJSON(t, router, "/api/record/42", gin.H{"SURVEY_REMARKS": remark})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "verified on site")
	mockPlots.AssertExpectations(t)
}

func TestRecordUpdateEndpoint_UnknownField(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	v := "x"
	mockPlots.On("UpdateRecord", mock.Anything, 42,
		map[string]*string{"NOT_A_COLUMN": &v}).Return(nil, services.ErrUnknownField)

	w := putJSON(t, router, "/api/record/42", gin.H{"NOT_A_COLUMN": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordUpdateEndpoint_EmptyBody(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	mockPlots.On("UpdateRecord", mock.Anything, 42, map[string]*string{}).
		Return(nil, services.ErrNoFieldsToUpdate)

	w := putJSON(t, router, "/api/record/42", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No fields to update")
}

func TestRecordUpdateEndpoint_NotFound(t *testing.T) {
	mockRecords := new(MockRecordService)
	mockPlots := new(MockPlotService)
	router := setupRecordRoutes(t, mockRecords, mockPlots)

	v := "x"
	mockPlots.On("UpdateRecord", mock.Anything, 404,
		map[string]*string{"SURVEY_REMARKS": &v}).Return(nil, services.ErrRecordNotFound)

	w := putJSON(t, router, "/api/record/404", gin.H{"SURVEY_REMARKS": "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func putJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
