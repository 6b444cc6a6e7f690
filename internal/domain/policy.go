package domain

// AuthorizationPolicy 决定某个主体能否修改一条归属资源。
// 作为可插拔的能力检查存在：默认只允许作者本人，
// 需要管理员旁路时换成 OwnerOrAdminPolicy，不动引擎本身。
type AuthorizationPolicy interface {
	CanModify(actor *User, ownerID string) bool
}

// OwnerOnlyPolicy 只认作者本人（沿用原始行为）。
type OwnerOnlyPolicy struct{}

func (OwnerOnlyPolicy) CanModify(actor *User, ownerID string) bool {
	return actor != nil && actor.ID == ownerID
}

// OwnerOrAdminPolicy 在作者之外放行 admin 角色。
type OwnerOrAdminPolicy struct{}

func (OwnerOrAdminPolicy) CanModify(actor *User, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.Role == RoleAdmin
}
