package handlers

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/middleware"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/services"
	"github.com/stretchr/testify/mock"
)

func init() {
	// Set Gin to test mode to reduce noise in tests
	gin.SetMode(gin.TestMode)
}

// newTestRouter creates a router with the standard middleware chain.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log := logger.New("test")
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	return router
}

// MockAuthService is a mock implementation of services.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, username, password string, email, name *string, role string) error {
	args := m.Called(ctx, username, password, email, name, role)
	return args.Error(0)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID int, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

// MockPlotService is a mock implementation of services.PlotService
type MockPlotService struct {
	mock.Mock
}

func (m *MockPlotService) ListNodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPlotService) ListSectors(ctx context.Context, node string) ([]string, error) {
	args := m.Called(ctx, node)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPlotService) ListBlocks(ctx context.Context, node, sector string) ([]string, error) {
	args := m.Called(ctx, node, sector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPlotService) ListPlots(ctx context.Context, node, sector, block string) ([]string, error) {
	args := m.Called(ctx, node, sector, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPlotService) Search(ctx context.Context, node, sector, block, plot string) ([]models.PlotSearchRow, error) {
	args := m.Called(ctx, node, sector, block, plot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlotSearchRow), args.Error(1)
}

func (m *MockPlotService) UpdateRecord(ctx context.Context, id int, fields map[string]*string) (*models.PlotRecord, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlotRecord), args.Error(1)
}

// MockRecordService is a mock implementation of services.RecordService
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) GetRecordDetail(ctx context.Context, id int) (*services.RecordDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecordDetail), args.Error(1)
}

// MockSummaryService is a mock implementation of services.SummaryService
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summarize(ctx context.Context, groupColumn, node, sector string) ([]models.SummaryRow, error) {
	args := m.Called(ctx, groupColumn, node, sector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SummaryRow), args.Error(1)
}
