package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"campusmate/internal/domain"
)

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(r *domain.Response) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockResponseRepository) FindByID(id string) (*domain.Response, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

func (m *MockResponseRepository) ListByQuery(queryID string) ([]domain.Response, error) {
	args := m.Called(queryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Response), args.Error(1)
}

func (m *MockResponseRepository) Update(r *domain.Response) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockResponseRepository) Delete(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockResponseRepository) Accept(id, queryID string) error {
	args := m.Called(id, queryID)
	return args.Error(0)
}

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
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByCategory(category string) ([]domain.Query, error) {
	args := m.Called(category)
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByAuthor(authorID string) ([]domain.Query, error) {
	args := m.Called(authorID)
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) FindByStatus(status domain.QueryStatus) ([]domain.Query, error) {
	args := m.Called(status)
	return args.Get(0).([]domain.Query), args.Error(1)
}

func (m *MockQueryRepository) Search(term string, offset, limit int) ([]domain.Query, error) {
	args := m.Called(term, offset, limit)
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

func newTestService(resps *MockResponseRepository, queries *MockQueryRepository, res *MockResolver) Service {
	return NewService(resps, queries, res, domain.OwnerOnlyPolicy{}, zap.NewNop())
}

func TestCreate_EmptyContentRejected(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)

	_, err := newTestService(resps, queries, res).Create("q1", "   ", "u1")

	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	queries.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestCreate_UnknownQuery(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	queries.On("FindByID", "missing").Return(nil, domain.ErrNotFound)

	_, err := newTestService(resps, queries, res).Create("missing", "an answer", "u1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	resps.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreate_ClosedQueryRejected(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	queries.On("FindByID", "q1").Return(&domain.Query{ID: "q1", Status: domain.StatusClosed}, nil)

	_, err := newTestService(resps, queries, res).Create("q1", "an answer", "u1")

	assert.ErrorIs(t, err, domain.ErrQueryClosed)
	resps.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreate_AnsweredQueryStillAcceptsResponses(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	queries.On("FindByID", "q1").Return(&domain.Query{ID: "q1", Status: domain.StatusAnswered}, nil)
	res.On("ResolveOrProvision", "u1").Return(&domain.User{ID: "u1"}, nil)
	resps.On("Create", mock.AnythingOfType("*domain.Response")).Return(nil)

	r, err := newTestService(resps, queries, res).Create("q1", "  late but useful  ", "u1")

	assert.NoError(t, err)
	assert.Equal(t, "late but useful", r.Content)
	assert.Equal(t, "q1", r.QueryID)
	assert.Equal(t, "u1", r.AuthorID)
	assert.False(t, r.IsAccepted)
	assert.NotEmpty(t, r.ID)
	resps.AssertExpectations(t)
}

func TestListByQuery_EmptyIsNotNil(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	resps.On("ListByQuery", "q1").Return([]domain.Response{}, nil)

	out, err := newTestService(resps, queries, res).ListByQuery("q1")

	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestUpdate_EmptyContentRejected(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)

	_, err := newTestService(resps, queries, res).Update("r1", "")

	assert.True(t, domain.IsValidation(err))
	resps.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDelete_UnknownIDIsFalseNotError(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	resps.On("Delete", "missing").Return(false, nil)

	ok, err := newTestService(resps, queries, res).Delete("missing")

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAccept_OnlyQueryAuthor(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	resps.On("FindByID", "r1").Return(&domain.Response{ID: "r1", QueryID: "q1"}, nil)
	queries.On("FindByID", "q1").Return(&domain.Query{ID: "q1", AuthorID: "owner"}, nil)
	res.On("Resolve", "someone-else").Return(&domain.User{ID: "someone-else"}, nil)

	_, err := newTestService(resps, queries, res).Accept("r1", "someone-else")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	resps.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
}

func TestAccept_UnknownActorRejected(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	resps.On("FindByID", "r1").Return(&domain.Response{ID: "r1", QueryID: "q1"}, nil)
	queries.On("FindByID", "q1").Return(&domain.Query{ID: "q1", AuthorID: "owner"}, nil)
	res.On("Resolve", "ghost").Return(nil, domain.ErrNotFound)

	_, err := newTestService(resps, queries, res).Accept("r1", "ghost")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAccept_ByAuthorMarksAndRereads(t *testing.T) {
	resps := new(MockResponseRepository)
	queries := new(MockQueryRepository)
	res := new(MockResolver)
	pending := &domain.Response{ID: "r1", QueryID: "q1"}
	accepted := &domain.Response{ID: "r1", QueryID: "q1", IsAccepted: true}
	resps.On("FindByID", "r1").Return(pending, nil).Once()
	queries.On("FindByID", "q1").Return(&domain.Query{ID: "q1", AuthorID: "owner"}, nil)
	res.On("Resolve", "owner").Return(&domain.User{ID: "owner"}, nil)
	resps.On("Accept", "r1", "q1").Return(nil)
	resps.On("FindByID", "r1").Return(accepted, nil).Once()

	out, err := newTestService(resps, queries, res).Accept("r1", "owner")

	assert.NoError(t, err)
	assert.True(t, out.IsAccepted)
	resps.AssertExpectations(t)
}
