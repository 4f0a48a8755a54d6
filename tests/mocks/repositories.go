package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
)

// MockMasterRepository mocks repositories.MasterRepository
type MockMasterRepository struct {
	mock.Mock
}

var _ repositories.MasterRepository = (*MockMasterRepository)(nil)

func (m *MockMasterRepository) CreateApplication(ctx context.Context, app *entities.MasterApplication) (int64, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMasterRepository) GetByID(ctx context.Context, id int64) (*entities.Master, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Master), args.Error(1)
}

func (m *MockMasterRepository) ListApproved(ctx context.Context, filter repositories.MasterFilter) ([]*entities.Master, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Master), args.Error(1)
}

func (m *MockMasterRepository) Search(ctx context.Context, text string, limit int) ([]*entities.Master, error) {
	args := m.Called(ctx, text, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Master), args.Error(1)
}

func (m *MockMasterRepository) ListByStatus(ctx context.Context, status entities.MasterStatus) ([]*entities.Master, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Master), args.Error(1)
}

func (m *MockMasterRepository) ListAll(ctx context.Context, category string) ([]*entities.Master, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Master), args.Error(1)
}

func (m *MockMasterRepository) SetStatus(ctx context.Context, id int64, status entities.MasterStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockReviewRepository mocks repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

var _ repositories.ReviewRepository = (*MockReviewRepository)(nil)

func (m *MockReviewRepository) Submit(ctx context.Context, review *entities.Review) (*entities.RatingAggregate, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RatingAggregate), args.Error(1)
}

func (m *MockReviewRepository) ListRecent(ctx context.Context, masterID int64, limit int) ([]*entities.Review, error) {
	args := m.Called(ctx, masterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

// MockInfoRepository mocks repositories.InfoRepository
type MockInfoRepository struct {
	mock.Mock
}

var _ repositories.InfoRepository = (*MockInfoRepository)(nil)

func (m *MockInfoRepository) GetPage(ctx context.Context, slug string) (*entities.InfoPage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InfoPage), args.Error(1)
}

func (m *MockInfoRepository) UpsertPage(ctx context.Context, page *entities.InfoPage) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockInfoRepository) ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FAQEntry), args.Error(1)
}

func (m *MockInfoRepository) AddFAQ(ctx context.Context, entry *entities.FAQEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Touch(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}
