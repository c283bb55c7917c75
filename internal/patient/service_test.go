package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-frontdesk/internal/logging"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, p *Patient) (*Patient, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockStore) GetByCardNumber(ctx context.Context, cardNumber string) (*Patient, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]*Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Patient), args.Error(1)
}

func (m *MockStore) Search(ctx context.Context, query string) ([]*Patient, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Patient), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, p *Patient) (*Patient, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestService wires the service with a nil redis client, so every cache
// call degrades to a miss
func newTestService(store Store) *Service {
	return NewService(store, NewCache(nil), logging.NewLogger(true))
}

func samplePatient() *Patient {
	return &Patient{
		ID:          "MRN-1001",
		CardNumber:  "CARD-7781",
		Name:        "Fatima Noor",
		Age:         34,
		PhoneNumber: "0300-1234567",
		CNIC:        "35202-1234567-1",
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name          string
		patient       *Patient
		setupMock     func(*MockStore)
		expectedError error
	}{
		{
			name:    "successful create",
			patient: samplePatient(),
			setupMock: func(m *MockStore) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*patient.Patient")).
					Return(samplePatient(), nil)
			},
		},
		{
			name:          "missing id",
			patient:       &Patient{Name: "Fatima Noor", Age: 34},
			setupMock:     func(m *MockStore) {},
			expectedError: ErrIDRequired,
		},
		{
			name:          "blank id",
			patient:       &Patient{ID: "   ", Name: "Fatima Noor", Age: 34},
			setupMock:     func(m *MockStore) {},
			expectedError: ErrIDRequired,
		},
		{
			name:          "missing name",
			patient:       &Patient{ID: "MRN-1001", Age: 34},
			setupMock:     func(m *MockStore) {},
			expectedError: ErrNameRequired,
		},
		{
			name:          "negative age",
			patient:       &Patient{ID: "MRN-1001", Name: "Fatima Noor", Age: -1},
			setupMock:     func(m *MockStore) {},
			expectedError: ErrInvalidAge,
		},
		{
			name:          "age too large",
			patient:       &Patient{ID: "MRN-1001", Name: "Fatima Noor", Age: 151},
			setupMock:     func(m *MockStore) {},
			expectedError: ErrInvalidAge,
		},
		{
			name:    "duplicate id",
			patient: samplePatient(),
			setupMock: func(m *MockStore) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*patient.Patient")).
					Return(nil, ErrDuplicateID)
			},
			expectedError: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			tt.setupMock(mockStore)

			created, err := newTestService(mockStore).Create(context.Background(), tt.patient)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.patient.ID, created.ID)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestService_Get(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("GetByID", mock.Anything, "MRN-1001").Return(samplePatient(), nil)

	got, err := newTestService(mockStore).Get(context.Background(), "MRN-1001")
	require.NoError(t, err)
	assert.Equal(t, "MRN-1001", got.ID)

	mockStore.AssertExpectations(t)
}

func TestService_GetByCard(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("GetByCardNumber", mock.Anything, "CARD-7781").Return(samplePatient(), nil)

	got, err := newTestService(mockStore).GetByCard(context.Background(), "CARD-7781")
	require.NoError(t, err)
	assert.Equal(t, "MRN-1001", got.ID)

	mockStore.AssertExpectations(t)
}

func TestService_GetByCard_NotFound(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("GetByCardNumber", mock.Anything, "CARD-0000").Return(nil, ErrNotFound)

	_, err := newTestService(mockStore).GetByCard(context.Background(), "CARD-0000")
	assert.ErrorIs(t, err, ErrNotFound)

	mockStore.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		setupMock func(*MockStore)
	}{
		{
			name:  "no query lists everything",
			query: "",
			setupMock: func(m *MockStore) {
				m.On("List", mock.Anything).Return([]*Patient{samplePatient()}, nil)
			},
		},
		{
			name:  "blank query lists everything",
			query: "   ",
			setupMock: func(m *MockStore) {
				m.On("List", mock.Anything).Return([]*Patient{samplePatient()}, nil)
			},
		},
		{
			name:  "query searches",
			query: "Fatima",
			setupMock: func(m *MockStore) {
				m.On("Search", mock.Anything, "Fatima").Return([]*Patient{samplePatient()}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			tt.setupMock(mockStore)

			got, err := newTestService(mockStore).List(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Len(t, got, 1)

			mockStore.AssertExpectations(t)
		})
	}
}

func TestService_Update(t *testing.T) {
	mockStore := new(MockStore)
	updated := samplePatient()
	updated.Comments = "follow-up scheduled"

	mockStore.On("GetByID", mock.Anything, "MRN-1001").Return(samplePatient(), nil)
	mockStore.On("Update", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(updated, nil)

	got, err := newTestService(mockStore).Update(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, "follow-up scheduled", got.Comments)

	mockStore.AssertExpectations(t)
}

func TestService_Update_ValidationRejectsBeforeStore(t *testing.T) {
	mockStore := new(MockStore)

	_, err := newTestService(mockStore).Update(context.Background(), &Patient{ID: "MRN-1001", Age: 200, Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidAge)

	mockStore.AssertNotCalled(t, "Update")
}

func TestService_Delete(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("GetByID", mock.Anything, "MRN-1001").Return(samplePatient(), nil)
	mockStore.On("Delete", mock.Anything, "MRN-1001").Return(nil)

	require.NoError(t, newTestService(mockStore).Delete(context.Background(), "MRN-1001"))

	mockStore.AssertExpectations(t)
}

func TestService_Delete_NotFound(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("GetByID", mock.Anything, "MRN-0000").Return(nil, ErrNotFound)
	mockStore.On("Delete", mock.Anything, "MRN-0000").Return(ErrNotFound)

	err := newTestService(mockStore).Delete(context.Background(), "MRN-0000")
	assert.ErrorIs(t, err, ErrNotFound)

	mockStore.AssertExpectations(t)
}

func TestCache_NilSafe(t *testing.T) {
	// a disabled cache behaves like a permanent miss
	var c *Cache
	assert.Nil(t, c.GetByCard(context.Background(), "CARD-7781"))
	c.SetByCard(context.Background(), samplePatient())
	c.InvalidateCard(context.Background(), "CARD-7781")

	c = NewCache(nil)
	assert.Nil(t, c.GetByCard(context.Background(), "CARD-7781"))
	c.SetByCard(context.Background(), samplePatient())
	c.InvalidateCard(context.Background(), "CARD-7781")
}
