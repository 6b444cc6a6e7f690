package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"campusmate/internal/domain"
)

type ResponseRepo struct{ db *gorm.DB }

func NewResponseRepo(db *gorm.DB) *ResponseRepo { return &ResponseRepo{db: db} }

// Create 把插入和父提问的计数维护放进同一个事务；
// 计数更新同时充当存在性和状态检查：提问不存在报 ErrNotFound，
// 已经 CLOSED 的提问在同一条 UPDATE 里被拦下，没有先查后插的窗口。
func (r *ResponseRepo) Create(resp *domain.Response) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Query{}).
			Where("id = ? AND status <> ?", resp.QueryID, domain.StatusClosed).
			UpdateColumns(map[string]interface{}{
				"response_count": gorm.Expr("response_count + 1"),
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&domain.Query{}).Where("id = ?", resp.QueryID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrQueryClosed
		}
		return tx.Create(resp).Error
	})
}

func (r *ResponseRepo) FindByID(id string) (*domain.Response, error) {
	var resp domain.Response
	err := r.db.First(&resp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepo) ListByQuery(queryID string) ([]domain.Response, error) {
	var resps []domain.Response
	err := r.db.Where("query_id = ?", queryID).Order("created_at ASC").Find(&resps).Error
	return resps, err
}

func (r *ResponseRepo) Update(resp *domain.Response) error { return r.db.Save(resp).Error }

// Delete 递减父计数时用 CASE 把下限钉在 0，防止历史脏数据变负。
func (r *ResponseRepo) Delete(id string) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var resp domain.Response
		if err := tx.First(&resp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&resp).Error; err != nil {
			return err
		}
		err := tx.Model(&domain.Query{}).
			Where("id = ?", resp.QueryID).
			UpdateColumns(map[string]interface{}{
				"response_count": gorm.Expr("CASE WHEN response_count > 0 THEN response_count - 1 ELSE 0 END"),
				"updated_at":     time.Now(),
			}).Error
		if err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// Accept 先取消同一提问下已采纳的回复，再标记目标回复，
// 保证"每个提问至多一条被采纳"。
func (r *ResponseRepo) Accept(id, queryID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Response{}).
			Where("query_id = ? AND is_accepted = ? AND id <> ?", queryID, true, id).
			UpdateColumn("is_accepted", false).Error
		if err != nil {
			return err
		}
		res := tx.Model(&domain.Response{}).
			Where("id = ? AND query_id = ?", id, queryID).
			UpdateColumns(map[string]interface{}{
				"is_accepted": true,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
