package repo

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"campusmate/internal/domain"
)

type QueryRepo struct{ db *gorm.DB }

func NewQueryRepo(db *gorm.DB) *QueryRepo { return &QueryRepo{db: db} }

func (r *QueryRepo) Create(q *domain.Query) error { return r.db.Create(q).Error }

func (r *QueryRepo) FindByID(id string) (*domain.Query, error) {
	var q domain.Query
	err := r.db.First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QueryRepo) List(offset, limit int) ([]domain.Query, error) {
	var qs []domain.Query
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, err
}

func (r *QueryRepo) FindByCategory(category string) ([]domain.Query, error) {
	var qs []domain.Query
	// 分类是精确、大小写敏感匹配；与 Search 的不敏感匹配是两个独立契约
	err := r.db.Where("category = ?", category).Order("created_at DESC").Find(&qs).Error
	return qs, err
}

func (r *QueryRepo) FindByAuthor(authorID string) ([]domain.Query, error) {
	var qs []domain.Query
	err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&qs).Error
	return qs, err
}

func (r *QueryRepo) FindByStatus(status domain.QueryStatus) ([]domain.Query, error) {
	var qs []domain.Query
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&qs).Error
	return qs, err
}

func (r *QueryRepo) Search(term string, offset, limit int) ([]domain.Query, error) {
	like := "%" + strings.ToLower(term) + "%"
	var qs []domain.Query
	err := r.db.
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&qs).Error
	return qs, err
}

// Update 只写可替换的列。计数器、状态和 solved 字段由各自的
// 原子操作维护，整行回写会把读取后发生的并发投票冲掉。
func (r *QueryRepo) Update(q *domain.Query) error {
	return r.db.Model(&domain.Query{}).
		Where("id = ?", q.ID).
		Select("title", "content", "category", "tags", "updated_at").
		Updates(q).Error
}

// DeleteCascade 在一个事务里先清掉该提问的全部回复，再删提问本身。
func (r *QueryRepo) DeleteCascade(id string) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("query_id = ?", id).Delete(&domain.Response{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Query{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// IncrementVote 用单条 UPDATE 完成 +1，串行化交给数据库；
// 并发调用同一 id 不会丢更新。
func (r *QueryRepo) IncrementVote(id string, kind domain.VoteKind) (*domain.Query, error) {
	col := string(kind)
	res := r.db.Model(&domain.Query{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			col:          gorm.Expr(col + " + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(id)
}

// MarkSolved 的 WHERE is_solved = false 让第二次调用空转：
// 原始解决时间不会被覆盖。CLOSED 是终态，不允许被拉回 ANSWERED。
func (r *QueryRepo) MarkSolved(id, solvedByID string) (*domain.Query, error) {
	now := time.Now()
	res := r.db.Model(&domain.Query{}).
		Where("id = ? AND is_solved = ? AND status <> ?", id, false, domain.StatusClosed).
		UpdateColumns(map[string]interface{}{
			"is_solved":    true,
			"solved_at":    now,
			"solved_by_id": solvedByID,
			"status":       domain.StatusAnswered,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	q, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.StatusClosed {
		return nil, domain.ErrQueryClosed
	}
	return q, nil
}

func (r *QueryRepo) CountByStatus() (map[domain.QueryStatus]int64, error) {
	type row struct {
		Status domain.QueryStatus
		N      int64
	}
	var rows []row
	err := r.db.Model(&domain.Query{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.QueryStatus]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
