package domain

import "time"

// QueryStatus 是提问的生命周期状态：OPEN → ANSWERED（→ CLOSED，终态）。
// CLOSED 只能由管理侧设置，本服务没有离开 CLOSED 的操作。
type QueryStatus string

const (
	StatusOpen     QueryStatus = "OPEN"
	StatusAnswered QueryStatus = "ANSWERED"
	StatusClosed   QueryStatus = "CLOSED"
)

// VoteKind 区分两个只增不减的计数器。
type VoteKind string

const (
	VoteUp   VoteKind = "upvotes"
	VoteDown VoteKind = "downvotes"
)

// Query 是一条讨论提问。
// 不变式：IsSolved == true 时 Status 必为 ANSWERED，且 SolvedAt/SolvedByID 非空；
// ResponseCount 与引用该提问的存活 Response 数保持一致（由 repo 层事务维护）。
type Query struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	Title         string      `gorm:"size:255;not null" json:"title"`
	Content       string      `gorm:"type:text;not null" json:"content"`
	Category      string      `gorm:"size:64;not null;index" json:"category"`
	Tags          []string    `gorm:"serializer:json" json:"tags"`
	AuthorID      string      `gorm:"size:36;not null;index" json:"authorId"`
	Status        QueryStatus `gorm:"size:16;not null;index" json:"status"`
	Upvotes       int         `gorm:"not null;default:0" json:"upvotes"`
	Downvotes     int         `gorm:"not null;default:0" json:"downvotes"`
	ResponseCount int         `gorm:"not null;default:0" json:"responseCount"`
	IsSolved      bool        `gorm:"not null;default:false" json:"isSolved"`
	SolvedAt      *time.Time  `json:"solvedAt,omitempty"`
	SolvedByID    *string     `gorm:"size:36" json:"solvedById,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (Query) TableName() string { return "queries" }

// QueryUpdate 是 UpdateQuery 可替换的字段集；状态与计数器不在其中。
type QueryUpdate struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

type QueryRepository interface {
	Create(q *Query) error
	FindByID(id string) (*Query, error)
	// List 按 createdAt 倒序分页；越界页返回空切片而非错误。
	List(offset, limit int) ([]Query, error)
	FindByCategory(category string) ([]Query, error)
	FindByAuthor(authorID string) ([]Query, error)
	FindByStatus(status QueryStatus) ([]Query, error)
	// Search 对 title/content 做大小写不敏感的子串匹配，createdAt 倒序。
	Search(term string, offset, limit int) ([]Query, error)
	// Update 只持久化 title/content/category/tags；计数器与状态列不回写。
	Update(q *Query) error
	// DeleteCascade 连同其全部 Response 一起删除；id 不存在时返回 (false, nil)。
	DeleteCascade(id string) (bool, error)
	// IncrementVote 以单条 UPDATE 原子加一并刷新 updatedAt，返回最新实体。
	IncrementVote(id string, kind VoteKind) (*Query, error)
	// MarkSolved 幂等：已解决的提问不重写 solvedAt/solvedBy。
	// CLOSED 的提问返回 ErrQueryClosed，终态不被拉回 ANSWERED。
	MarkSolved(id, solvedByID string) (*Query, error)
	CountByStatus() (map[QueryStatus]int64, error)
}
