package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campusmate/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(u *domain.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(offset, limit int, keyword string) ([]domain.User, int64, error) {
	args := m.Called(offset, limit, keyword)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(u *domain.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestResolve_EmptyIDIsNotFound(t *testing.T) {
	users := new(MockUserRepository)
	r := NewStoreResolver(users, zap.NewNop())

	_, err := r.Resolve("")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	users.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestResolve_KnownUserPassthrough(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", "u1").Return(&domain.User{ID: "u1"}, nil)
	r := NewStoreResolver(users, zap.NewNop())

	u, err := r.Resolve("u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestResolveOrProvision_KnownUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", "u1").Return(&domain.User{ID: "u1"}, nil)
	r := NewStoreResolver(users, zap.NewNop())

	u, err := r.ResolveOrProvision("u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything)
}

func TestResolveOrProvision_UnknownIDProvisionsAnonymous(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", "ghost").Return(nil, domain.ErrNotFound)
	users.On("FindByEmail", domain.AnonymousEmail).Return(nil, domain.ErrNotFound)
	users.On("Create", mock.AnythingOfType("*domain.User")).Return(nil)
	r := NewStoreResolver(users, zap.NewNop())

	u, err := r.ResolveOrProvision("ghost")

	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousEmail, u.Email)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, u.ID)
	users.AssertExpectations(t)
}

func TestResolveOrProvision_ReusesExistingAnonymous(t *testing.T) {
	users := new(MockUserRepository)
	existing := &domain.User{ID: "anon-1", Email: domain.AnonymousEmail}
	users.On("FindByEmail", domain.AnonymousEmail).Return(existing, nil)
	r := NewStoreResolver(users, zap.NewNop())

	u, err := r.ResolveOrProvision("")

	require.NoError(t, err)
	assert.Equal(t, "anon-1", u.ID)
	users.AssertNotCalled(t, "Create", mock.Anything)
}
