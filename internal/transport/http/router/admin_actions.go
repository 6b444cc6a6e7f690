package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusmate/internal/domain"
	httpez "campusmate/internal/transport/http/ez"
)

// mountAdminActions 管理端接口：用户管理 + 提问关闭。
// 关闭提问是管理动作，是 CLOSED 终态的唯一入口。
func mountAdminActions(admin *gin.RouterGroup, db *gorm.DB) {
	ezAdmin := httpez.New(admin)

	// --- 用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 email/name 模糊搜
	}
	type row struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		IsActive  bool      `json:"isActive"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ezAdmin, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.Q != "" {
				like := "%" + in.Q + "%"
				q = q.Where("email LIKE ? OR name LIKE ?", like, like)
			}
			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, httpez.Internal("count users failed", err)
			}
			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
					IsActive: u.IsActive, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- 停用账号 ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/deactivate",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			res := tx.Model(&domain.User{}).
				Where("id = ?", id).
				UpdateColumns(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
			if res.Error != nil {
				return nil, httpez.Internal("deactivate user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- 关闭提问（进入终态，之后不再接受新回复） ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/queries/:id/close",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			res := tx.Model(&domain.Query{}).
				Where("id = ?", id).
				UpdateColumns(map[string]interface{}{
					"status":     domain.StatusClosed,
					"updated_at": time.Now(),
				})
			if res.Error != nil {
				return nil, httpez.Internal("close query failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("query not found")
			}
			return gin.H{"id": id, "status": domain.StatusClosed}, nil
		},
	})
}
