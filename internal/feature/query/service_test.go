package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"campusmate/internal/domain"
)

// MockQueryRepository is a mock type for the domain.QueryRepository interface
type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) Create(q *domain.Query) error {
	args := m.Called(q)
	return args.Error(0)
}

func (m *MockQueryRepository) FindByID(id string) (*domain.Query, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Query), args.Error(1)
}

func (m *MockQueryRepository) List(offset, limit int) ([]domain.Query, error) {
	args := m.Called(offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByCategory(category string) ([]domain.Query, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByAuthor(authorID string) ([]domain.Query, error) {
	args := m.Called(authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByStatus(status domain.QueryStatus) ([]domain.Query, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) Search(term string, offset, limit int) ([]domain.Query, error) {
	args := m.Called(term, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) Update(q *domain.Query) error {
	args := m.Called(q)
	return args.Error(0)
}

func (m *MockQueryRepository) DeleteCascade(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueryRepository) IncrementVote(id string, kind domain.VoteKind) (*domain.Query, error) {
	args := m.Called(id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Query), args.Error(1)
}

func (m *MockQueryRepository) MarkSolved(id, solvedByID string) (*domain.Query, error) {
	args := m.Called(id, solvedByID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Query), args.Error(1)
}

func (m *MockQueryRepository) CountByStatus() (map[domain.QueryStatus]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.QueryStatus]int64), args.Error(1)
}

// MockResolver is a mock type for the identity.Resolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(userID string) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockResolver) ResolveOrProvision(userID string) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestService(repo *MockQueryRepository, res *MockResolver) Service {
	return NewService(repo, res, domain.OwnerOnlyPolicy{}, zap.NewNop())
}

func TestCreate_SetsDefaults(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	res.On("ResolveOrProvision", "u1").Return(&domain.User{ID: "u1"}, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Query")).Return(nil)

	q, err := newTestService(repo, res).Create("  Midterm help  ", "Need notes for exam 2", "CS101", []string{"exam"}, "u1")

	assert.NoError(t, err)
	assert.Equal(t, "Midterm help", q.Title)
	assert.Equal(t, domain.StatusOpen, q.Status)
	assert.False(t, q.IsSolved)
	assert.Zero(t, q.Upvotes)
	assert.Zero(t, q.Downvotes)
	assert.Zero(t, q.ResponseCount)
	assert.Equal(t, "u1", q.AuthorID)
	assert.NotEmpty(t, q.ID)
	repo.AssertExpectations(t)
}

func TestCreate_EmptyFieldsRejected(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	svc := newTestService(repo, res)

	cases := []struct {
		name                      string
		title, content, category string
	}{
		{"empty title", "   ", "content", "CS101"},
		{"empty content", "title", "", "CS101"},
		{"empty category", "title", "content", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.title, tc.content, tc.category, nil, "u1")
			assert.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdate_NonAuthorRejected(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	existing := &domain.Query{ID: "q1", AuthorID: "u1", Title: "orig"}
	repo.On("FindByID", "q1").Return(existing, nil)
	res.On("Resolve", "u2").Return(&domain.User{ID: "u2", Role: domain.RoleStudent}, nil)

	_, err := newTestService(repo, res).Update("q1", domain.QueryUpdate{Title: "x", Content: "y", Category: "z"}, "u2")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdate_UnknownActorRejected(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("FindByID", "q1").Return(&domain.Query{ID: "q1", AuthorID: "u1"}, nil)
	res.On("Resolve", "ghost").Return(nil, domain.ErrNotFound)

	_, err := newTestService(repo, res).Update("q1", domain.QueryUpdate{}, "ghost")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdate_ByAuthorReplacesFields(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	existing := &domain.Query{ID: "q1", AuthorID: "u1", Title: "orig", Status: domain.StatusOpen, Upvotes: 3}
	repo.On("FindByID", "q1").Return(existing, nil)
	res.On("Resolve", "u1").Return(&domain.User{ID: "u1"}, nil)
	repo.On("Update", mock.AnythingOfType("*domain.Query")).Return(nil)

	q, err := newTestService(repo, res).Update("q1", domain.QueryUpdate{
		Title: " new title ", Content: "new content", Category: "CS102", Tags: []string{"a"},
	}, "u1")

	assert.NoError(t, err)
	assert.Equal(t, "new title", q.Title)
	assert.Equal(t, "CS102", q.Category)
	// 状态和计数不受更新影响
	assert.Equal(t, domain.StatusOpen, q.Status)
	assert.Equal(t, 3, q.Upvotes)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("FindByID", "missing").Return(nil, domain.ErrNotFound)

	_, err := newTestService(repo, res).Update("missing", domain.QueryUpdate{}, "u1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_UnknownIDIsFalseNotError(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("FindByID", "missing").Return(nil, domain.ErrNotFound)

	ok, err := newTestService(repo, res).Delete("missing", "u1")

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_NonAuthorRejected(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("FindByID", "q1").Return(&domain.Query{ID: "q1", AuthorID: "u1"}, nil)
	res.On("Resolve", "u2").Return(&domain.User{ID: "u2"}, nil)

	ok, err := newTestService(repo, res).Delete("q1", "u2")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, ok)
	repo.AssertNotCalled(t, "DeleteCascade", mock.Anything)
}

func TestMarkSolved_UsesResolvedPrincipal(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	res.On("ResolveOrProvision", "u1").Return(&domain.User{ID: "u1"}, nil)
	solved := &domain.Query{ID: "q1", IsSolved: true, Status: domain.StatusAnswered}
	repo.On("MarkSolved", "q1", "u1").Return(solved, nil)

	q, err := newTestService(repo, res).MarkSolved("q1", "u1")

	assert.NoError(t, err)
	assert.True(t, q.IsSolved)
	assert.Equal(t, domain.StatusAnswered, q.Status)
}

func TestVotes_DelegateToAtomicIncrement(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("IncrementVote", "q1", domain.VoteUp).Return(&domain.Query{ID: "q1", Upvotes: 1}, nil)
	repo.On("IncrementVote", "q1", domain.VoteDown).Return(&domain.Query{ID: "q1", Downvotes: 1}, nil)
	svc := newTestService(repo, res)

	up, err := svc.Upvote("q1")
	assert.NoError(t, err)
	assert.Equal(t, 1, up.Upvotes)

	down, err := svc.Downvote("q1")
	assert.NoError(t, err)
	assert.Equal(t, 1, down.Downvotes)
	repo.AssertExpectations(t)
}

func TestList_NormalizesPagination(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	// 负页归零，非法页大小落回默认值
	repo.On("List", 0, 20).Return([]domain.Query{}, nil)

	qs, err := newTestService(repo, res).List(-3, 0)

	assert.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
	repo.AssertExpectations(t)
}

func TestList_CapsPageSize(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("List", 200, 100).Return([]domain.Query{}, nil)

	_, err := newTestService(repo, res).List(2, 5000)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSearch_PassesThroughPaging(t *testing.T) {
	repo := new(MockQueryRepository)
	res := new(MockResolver)
	repo.On("Search", "exam", 0, 10).Return([]domain.Query{{ID: "q1"}}, nil)

	qs, err := newTestService(repo, res).Search("exam", 0, 10)

	assert.NoError(t, err)
	assert.Len(t, qs, 1)
}
