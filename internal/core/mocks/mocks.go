package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// MockCalendarRepository is a mock implementation of ports.CalendarRepository
type MockCalendarRepository struct {
	mock.Mock
}

func NewMockCalendarRepository() *MockCalendarRepository {
	return &MockCalendarRepository{}
}

func (m *MockCalendarRepository) GetBusinessHours(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCalendarRepository) SaveBusinessHours(ctx context.Context, hours map[string]string) error {
	args := m.Called(ctx, hours)
	return args.Error(0)
}

func (m *MockCalendarRepository) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

func (m *MockCalendarRepository) UpsertHolidays(ctx context.Context, holidays []domain.Holiday) error {
	args := m.Called(ctx, holidays)
	return args.Error(0)
}

func (m *MockCalendarRepository) DeleteHoliday(ctx context.Context, date domain.Date) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

// MockAnalysisRepository is a mock implementation of ports.AnalysisRepository
type MockAnalysisRepository struct {
	mock.Mock
}

func NewMockAnalysisRepository() *MockAnalysisRepository {
	return &MockAnalysisRepository{}
}

func (m *MockAnalysisRepository) SaveJob(ctx context.Context, job *domain.AnalysisJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisRepository) GetClassificationOverrides(ctx context.Context, ticketID string) (map[string]domain.Classification, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Classification), args.Error(1)
}

func (m *MockAnalysisRepository) SetClassificationOverrides(ctx context.Context, ticketID string, overrides map[string]domain.Classification) error {
	args := m.Called(ctx, ticketID, overrides)
	return args.Error(0)
}

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.TicketSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketSummary), args.Error(1)
}

func (m *MockTicketSource) GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketDetail), args.Error(1)
}

// MockTicketCache is a mock implementation of ports.TicketCache
type MockTicketCache struct {
	mock.Mock
}

func NewMockTicketCache() *MockTicketCache {
	return &MockTicketCache{}
}

func (m *MockTicketCache) GetDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketDetail), args.Error(1)
}

func (m *MockTicketCache) SetDetail(ctx context.Context, detail *domain.TicketDetail, ttl time.Duration) error {
	args := m.Called(ctx, detail, ttl)
	return args.Error(0)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) BroadcastEvent(event domain.Event) {
	m.Called(event)
}

// MockCalendarService is a mock implementation of ports.CalendarService
type MockCalendarService struct {
	mock.Mock
}

func NewMockCalendarService() *MockCalendarService {
	return &MockCalendarService{}
}

func (m *MockCalendarService) GetBusinessHours(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCalendarService) UpdateBusinessHours(ctx context.Context, params ports.UpdateBusinessHoursParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCalendarService) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

func (m *MockCalendarService) AddHoliday(ctx context.Context, holiday domain.Holiday) error {
	args := m.Called(ctx, holiday)
	return args.Error(0)
}

func (m *MockCalendarService) RemoveHoliday(ctx context.Context, date domain.Date) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockCalendarService) ImportHolidays(ctx context.Context, params ports.ImportHolidaysParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockCalendarService) Calendar(ctx context.Context) (*domain.BusinessCalendar, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessCalendar), args.Error(1)
}

// MockAnalysisService is a mock implementation of ports.AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func NewMockAnalysisService() *MockAnalysisService {
	return &MockAnalysisService{}
}

func (m *MockAnalysisService) StartAnalysis(ctx context.Context, params ports.StartAnalysisParams) (*domain.AnalysisJob, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisService) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisService) SetClassifications(ctx context.Context, params ports.SetClassificationsParams) (*domain.TicketAnalysis, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketAnalysis), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeTicket(ctx context.Context, ticketID string) (*domain.TicketAnalysis, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Shutdown() {
	m.Called()
}

// MockTicketQueryService is a mock implementation of ports.TicketQueryService
type MockTicketQueryService struct {
	mock.Mock
}

func NewMockTicketQueryService() *MockTicketQueryService {
	return &MockTicketQueryService{}
}

func (m *MockTicketQueryService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.TicketSummary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketSummary), args.Error(1)
}

func (m *MockTicketQueryService) GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketDetail), args.Error(1)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}
