package response

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"campusmate/internal/domain"
	"campusmate/internal/identity"
	"campusmate/pkg/utils"
)

// Service 管理挂在提问下的回复，并维护父提问的计数与采纳标记。
type Service interface {
	Create(queryID, content, authorID string) (*domain.Response, error)
	ListByQuery(queryID string) ([]domain.Response, error)
	Update(id, content string) (*domain.Response, error)
	Delete(id string) (bool, error)
	Accept(id, actingUserID string) (*domain.Response, error)
}

type service struct {
	responses domain.ResponseRepository
	queries   domain.QueryRepository
	resolver  identity.Resolver
	policy    domain.AuthorizationPolicy
	log       *zap.Logger
}

func NewService(responses domain.ResponseRepository, queries domain.QueryRepository, resolver identity.Resolver, policy domain.AuthorizationPolicy, log *zap.Logger) Service {
	return &service{responses: responses, queries: queries, resolver: resolver, policy: policy, log: log}
}

func (s *service) Create(queryID, content, authorID string) (*domain.Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("content", "must not be empty")
	}

	q, err := s.queries.FindByID(queryID)
	if err != nil {
		return nil, err
	}
	// CLOSED 是终态，不再收新回复；OPEN/ANSWERED 都可以
	if q.Status == domain.StatusClosed {
		return nil, domain.ErrQueryClosed
	}

	author, err := s.resolver.ResolveOrProvision(authorID)
	if err != nil {
		return nil, err
	}

	resp := &domain.Response{
		ID:         utils.NewID(),
		QueryID:    q.ID,
		AuthorID:   author.ID,
		Content:    content,
		IsAccepted: false,
	}
	if err := s.responses.Create(resp); err != nil {
		return nil, err
	}
	s.log.Info("response created",
		zap.String("response_id", resp.ID),
		zap.String("query_id", q.ID),
		zap.String("author_id", resp.AuthorID),
	)
	return resp, nil
}

func (s *service) ListByQuery(queryID string) ([]domain.Response, error) {
	resps, err := s.responses.ListByQuery(queryID)
	if err != nil {
		return nil, err
	}
	if resps == nil {
		resps = []domain.Response{}
	}
	return resps, nil
}

func (s *service) Update(id, content string) (*domain.Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("content", "must not be empty")
	}
	resp, err := s.responses.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp.Content = content
	if err := s.responses.Update(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) Delete(id string) (bool, error) {
	ok, err := s.responses.Delete(id)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("response deleted", zap.String("response_id", id))
	}
	return ok, nil
}

// Accept 只有父提问的作者（按当前策略）可以采纳回复。
func (s *service) Accept(id, actingUserID string) (*domain.Response, error) {
	resp, err := s.responses.FindByID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.queries.FindByID(resp.QueryID)
	if err != nil {
		return nil, err
	}

	actor, err := s.resolver.Resolve(actingUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(actor, q.AuthorID) {
		return nil, domain.ErrUnauthorized
	}

	if err := s.responses.Accept(resp.ID, q.ID); err != nil {
		return nil, err
	}
	return s.responses.FindByID(resp.ID)
}
