package ez

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	resp "campusmate/internal/transport/http/response"
	"campusmate/pkg/utils"
)

// CrudHooks 给单个模型的 CRUD 留出定制点。
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB
}

// CrudConfig 在已鉴权分组上注册 owner 维度的增删改查，
// 模型无需实现任何接口，ID/Owner 字段按名字反射定位。
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 必须已注入 userId
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	IDField    string // 默认 "ID"
	OwnerField string // 默认 "OwnerID"
	OrderBy    string // 为空按 created_at DESC
}

func Crud[T any](cfg CrudConfig[T]) {
	idFields := []string{"ID", "Id"}
	if cfg.IDField != "" {
		idFields = append([]string{cfg.IDField}, idFields...)
	}
	ownerFields := []string{"OwnerID", "UserID"}
	if cfg.OwnerField != "" {
		ownerFields = append([]string{cfg.OwnerField}, ownerFields...)
	}

	_ = cfg.DB.AutoMigrate(cfg.New())

	requireUID := func(c *gin.Context) (string, bool) {
		uid := c.GetString("userId")
		if uid == "" {
			c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return "", false
		}
		return uid, true
	}

	// Create
	cfg.Group.POST(cfg.Path, func(c *gin.Context) {
		uid, ok := requireUID(c)
		if !ok {
			return
		}
		m := cfg.New()
		if err := c.ShouldBindJSON(m); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		if id, ok := readStringField(m, idFields); ok && strings.TrimSpace(id) == "" {
			_ = writeStringField(m, idFields, utils.NewID())
		}
		if !writeStringField(m, ownerFields, uid) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
			return
		}
		if cfg.Hooks.BeforeCreate != nil {
			if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
		}
		if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(m))
	})

	// List（只列自己的）
	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid, ok := requireUID(c)
		if !ok {
			return
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)
		if size > 100 {
			size = 20
		}

		ownerFilter := cfg.New()
		if !writeStringField(ownerFilter, ownerFields, uid) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
			return
		}
		q := cfg.DB.WithContext(c).Model(cfg.New()).Where(ownerFilter)
		if cfg.Hooks.ScopeList != nil {
			q = cfg.Hooks.ScopeList(c, q)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		if cfg.OrderBy != "" {
			q = q.Order(cfg.OrderBy)
		} else {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
		}
		var items []T
		if err := q.Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"list": items, "total": total, "page": page, "size": size}))
	})

	// Get
	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := requireUID(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = writeStringField(filter, idFields, c.Param("id"))
		_ = writeStringField(filter, ownerFields, uid)

		m := cfg.New()
		if err := cfg.DB.WithContext(c).Where(filter).First(m).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(m))
	})

	// Update
	cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := requireUID(c)
		if !ok {
			return
		}
		id := c.Param("id")

		check := cfg.New()
		_ = writeStringField(check, idFields, id)
		_ = writeStringField(check, ownerFields, uid)
		if err := cfg.DB.WithContext(c).Where(check).First(check).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}

		in := cfg.New()
		if err := c.ShouldBindJSON(in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		_ = writeStringField(in, idFields, id)
		_ = writeStringField(in, ownerFields, uid)
		if cfg.Hooks.BeforeUpdate != nil {
			if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
		}
		if err := cfg.DB.WithContext(c).Model(cfg.New()).Where(check).Updates(in).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
	})

	// Delete
	cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := requireUID(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = writeStringField(filter, idFields, c.Param("id"))
		_ = writeStringField(filter, ownerFields, uid)

		res := cfg.DB.WithContext(c).Where(filter).Delete(cfg.New())
		if res.Error != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, res.Error.Error()))
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
	})
}

func getStringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // 未导出字段跳过
			continue
		}
		for _, cand := range candidates {
			if f.Name == cand {
				fv := v.Field(i)
				if fv.Kind() == reflect.String && fv.CanSet() {
					return fv.Addr().Interface().(*string), true
				}
			}
		}
	}
	return nil, false
}

func readStringField(obj any, candidates []string) (string, bool) {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return "", false
	}
	return *p, true
}

func writeStringField(obj any, candidates []string, val string) bool {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
