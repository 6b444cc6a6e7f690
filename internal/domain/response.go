package domain

import "time"

// Response 是挂在 Query 下的一条回复。
type Response struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	QueryID    string    `gorm:"size:36;not null;index" json:"queryId"`
	AuthorID   string    `gorm:"size:36;not null;index" json:"authorId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsAccepted bool      `gorm:"not null;default:false" json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Response) TableName() string { return "responses" }

type ResponseRepository interface {
	// Create 在同一事务里落库并把父 Query 的 responseCount 加一；
	// 父提问不存在时返回 ErrNotFound，已 CLOSED 时返回 ErrQueryClosed，
	// 不留下半程状态。
	Create(r *Response) error
	FindByID(id string) (*Response, error)
	// ListByQuery 按创建顺序返回。
	ListByQuery(queryID string) ([]Response, error)
	Update(r *Response) error
	// Delete 同事务递减父 Query 的 responseCount（下限 0）；未知 id 返回 (false, nil)。
	Delete(id string) (bool, error)
	// Accept 将该回复标记为采纳，并取消同一提问下其他已采纳回复，
	// 保证每个提问至多一条被采纳。
	Accept(id, queryID string) error
}
