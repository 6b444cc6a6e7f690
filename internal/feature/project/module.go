package project

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusmate/internal/core/auth"
	"campusmate/internal/transport/http/ez"
	mdw "campusmate/internal/transport/http/middleware"
)

// Module 通过路由注册表挂载，见 router.Register。
type Module struct {
	db    *gorm.DB
	jwter *auth.JWTer
}

func NewModule(db *gorm.DB, jwter *auth.JWTer) *Module {
	return &Module{db: db, jwter: jwter}
}

func (m *Module) MountAPI(g *gin.RouterGroup) {
	authed := g.Group("")
	authed.Use(mdw.AuthJWT(m.jwter, ""))

	ez.Crud(ez.CrudConfig[Model]{
		DB:    m.db,
		Group: authed,
		Path:  "/projects",
		New:   func() *Model { return &Model{} },
		Hooks: ez.CrudHooks[Model]{
			BeforeCreate: func(c *gin.Context, p *Model) error {
				if strings.TrimSpace(p.Title) == "" {
					return ez.BadRequest("title is required")
				}
				return nil
			},
		},
	})
}
