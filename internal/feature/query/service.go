package query

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"campusmate/internal/domain"
	"campusmate/internal/identity"
	"campusmate/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service 是提问的生命周期引擎：创建、作者限定的改删、
// 投票计数、标记解决，以及读侧的分页/搜索/过滤。
type Service interface {
	Create(title, content, category string, tags []string, authorID string) (*domain.Query, error)
	Get(id string) (*domain.Query, error)
	List(page, size int) ([]domain.Query, error)
	Update(id string, upd domain.QueryUpdate, actingUserID string) (*domain.Query, error)
	Delete(id, actingUserID string) (bool, error)
	MarkSolved(id, solvedByID string) (*domain.Query, error)
	Upvote(id string) (*domain.Query, error)
	Downvote(id string) (*domain.Query, error)
	Search(term string, page, size int) ([]domain.Query, error)
	ByCategory(category string) ([]domain.Query, error)
	ByAuthor(authorID string) ([]domain.Query, error)
	ByStatus(status domain.QueryStatus) ([]domain.Query, error)
	Stats() (map[domain.QueryStatus]int64, error)
}

type service struct {
	queries  domain.QueryRepository
	resolver identity.Resolver
	policy   domain.AuthorizationPolicy
	log      *zap.Logger
}

func NewService(queries domain.QueryRepository, resolver identity.Resolver, policy domain.AuthorizationPolicy, log *zap.Logger) Service {
	return &service{queries: queries, resolver: resolver, policy: policy, log: log}
}

func (s *service) Create(title, content, category string, tags []string, authorID string) (*domain.Query, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	category = strings.TrimSpace(category)
	if title == "" {
		return nil, domain.Invalid("title", "must not be empty")
	}
	if content == "" {
		return nil, domain.Invalid("content", "must not be empty")
	}
	if category == "" {
		return nil, domain.Invalid("category", "must not be empty")
	}

	author, err := s.resolver.ResolveOrProvision(authorID)
	if err != nil {
		return nil, err
	}

	q := &domain.Query{
		ID:       utils.NewID(),
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     tags,
		AuthorID: author.ID,
		Status:   domain.StatusOpen,
	}
	if err := s.queries.Create(q); err != nil {
		return nil, err
	}
	s.log.Info("query created",
		zap.String("query_id", q.ID),
		zap.String("author_id", q.AuthorID),
		zap.String("category", q.Category),
	)
	return q, nil
}

func (s *service) Get(id string) (*domain.Query, error) {
	return s.queries.FindByID(id)
}

func (s *service) List(page, size int) ([]domain.Query, error) {
	offset, limit := normalizePage(page, size)
	qs, err := s.queries.List(offset, limit)
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []domain.Query{}
	}
	return qs, nil
}

func (s *service) Update(id string, upd domain.QueryUpdate, actingUserID string) (*domain.Query, error) {
	q, err := s.queries.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actingUserID, q.AuthorID); err != nil {
		return nil, err
	}

	q.Title = strings.TrimSpace(upd.Title)
	q.Content = strings.TrimSpace(upd.Content)
	q.Category = strings.TrimSpace(upd.Category)
	q.Tags = upd.Tags
	if err := s.queries.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *service) Delete(id, actingUserID string) (bool, error) {
	q, err := s.queries.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.authorize(actingUserID, q.AuthorID); err != nil {
		return false, err
	}
	ok, err := s.queries.DeleteCascade(id)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("query deleted", zap.String("query_id", id), zap.String("acting_user", actingUserID))
	}
	return ok, nil
}

func (s *service) MarkSolved(id, solvedByID string) (*domain.Query, error) {
	solver, err := s.resolver.ResolveOrProvision(solvedByID)
	if err != nil {
		return nil, err
	}
	q, err := s.queries.MarkSolved(id, solver.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("query marked solved", zap.String("query_id", id), zap.String("solved_by", solver.ID))
	return q, nil
}

func (s *service) Upvote(id string) (*domain.Query, error) {
	return s.queries.IncrementVote(id, domain.VoteUp)
}

func (s *service) Downvote(id string) (*domain.Query, error) {
	return s.queries.IncrementVote(id, domain.VoteDown)
}

func (s *service) Search(term string, page, size int) ([]domain.Query, error) {
	offset, limit := normalizePage(page, size)
	qs, err := s.queries.Search(term, offset, limit)
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []domain.Query{}
	}
	return qs, nil
}

func (s *service) ByCategory(category string) ([]domain.Query, error) {
	return s.queries.FindByCategory(category)
}

func (s *service) ByAuthor(authorID string) ([]domain.Query, error) {
	return s.queries.FindByAuthor(authorID)
}

func (s *service) ByStatus(status domain.QueryStatus) ([]domain.Query, error) {
	return s.queries.FindByStatus(status)
}

func (s *service) Stats() (map[domain.QueryStatus]int64, error) {
	return s.queries.CountByStatus()
}

// authorize 用严格解析拿到行为主体再过能力检查；
// 解析不到的主体一律视为未授权，而不是兜底成匿名用户。
func (s *service) authorize(actingUserID, ownerID string) error {
	actor, err := s.resolver.Resolve(actingUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if !s.policy.CanModify(actor, ownerID) {
		s.log.Warn("mutation rejected",
			zap.String("acting_user", actingUserID),
			zap.String("owner", ownerID),
		)
		return domain.ErrUnauthorized
	}
	return nil
}

// normalizePage 把零基页码换算成 offset/limit：
// 负页归零，非法页大小回落到默认值并封顶。
func normalizePage(page, size int) (offset, limit int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page * size, size
}
