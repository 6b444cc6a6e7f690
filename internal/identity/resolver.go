package identity

import (
	"errors"

	"go.uber.org/zap"

	"campusmate/internal/domain"
	"campusmate/pkg/utils"
)

// Resolver 把请求携带的用户 id 解析成可用的主体。
// Resolve 是严格版：查不到就报错，授权检查用它。
// ResolveOrProvision 保留旧系统的兼容行为：拿不到身份时
// 归属到占位的匿名用户（必要时现场建一个）。这不是安全机制，
// 生产身份必须来自已认证会话。
type Resolver interface {
	Resolve(userID string) (*domain.User, error)
	ResolveOrProvision(userID string) (*domain.User, error)
}

type StoreResolver struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewStoreResolver(users domain.UserRepository, log *zap.Logger) *StoreResolver {
	return &StoreResolver{users: users, log: log}
}

func (r *StoreResolver) Resolve(userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrNotFound
	}
	return r.users.FindByID(userID)
}

func (r *StoreResolver) ResolveOrProvision(userID string) (*domain.User, error) {
	if userID != "" {
		u, err := r.users.FindByID(userID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return r.anonymous()
}

func (r *StoreResolver) anonymous() (*domain.User, error) {
	u, err := r.users.FindByEmail(domain.AnonymousEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	anon := &domain.User{
		ID:       utils.NewID(),
		Email:    domain.AnonymousEmail,
		Name:     "Anonymous",
		Role:     domain.RoleStudent,
		IsActive: true,
	}
	if err := r.users.Create(anon); err != nil {
		return nil, err
	}
	r.log.Info("provisioned anonymous fallback principal", zap.String("user_id", anon.ID))
	return anon, nil
}

// Static 是测试替身：总是返回固定主体。
type Static struct{ User *domain.User }

func (s Static) Resolve(string) (*domain.User, error)            { return s.User, nil }
func (s Static) ResolveOrProvision(string) (*domain.User, error) { return s.User, nil }
