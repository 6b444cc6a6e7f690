package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campusmate/internal/core/auth"
	"campusmate/internal/domain"
	httpez "campusmate/internal/transport/http/ez"
	mdw "campusmate/internal/transport/http/middleware"
	"campusmate/pkg/utils"
)

// mountAuthActions 挂 /auth/register、/auth/login（公开）和 /me（需登录）。
// JWT 只是给传输层一个稳定的"当前用户"，协议设计不在本服务范围内。
func mountAuthActions(api *gin.RouterGroup, db *gorm.DB, jwter *auth.JWTer) {
	ezPublic := httpez.New(api)

	type registerIn struct {
		Email      string `json:"email"    binding:"required,email"`
		Password   string `json:"password" binding:"required,min=6"`
		Name       string `json:"name"     binding:"omitempty,max=64"`
		Department string `json:"department" binding:"omitempty,max=64"`
	}
	type authOut struct {
		Token string      `json:"token"`
		User  interface{} `json:"user"`
	}

	httpez.RegisterAction[registerIn, authOut](ezPublic, db, httpez.Action[registerIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *registerIn) (authOut, error) {
			email := strings.TrimSpace(in.Email)

			var existing domain.User
			err := tx.Where("email = ?", email).First(&existing).Error
			if err == nil {
				return authOut{}, httpez.Conflict("email already registered")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return authOut{}, httpez.Internal("db error", err)
			}

			name := strings.TrimSpace(in.Name)
			if name == "" {
				if at := strings.IndexByte(email, '@'); at > 0 {
					name = email[:at]
				} else {
					name = "student"
				}
			}
			u := domain.User{
				ID:           utils.NewID(),
				Email:        email,
				Name:         name,
				PasswordHash: utils.HashPassword(in.Password),
				Role:         domain.RoleStudent,
				IsActive:     true,
				Department:   strings.TrimSpace(in.Department),
			}
			if e := tx.Create(&u).Error; e != nil {
				return authOut{}, httpez.Internal("register failed", e)
			}
			tok, e := jwter.Issue(u.ID, u.Role)
			if e != nil || tok == "" {
				return authOut{}, httpez.Internal("issue token failed", e)
			}
			return authOut{Token: tok, User: publicUser(&u)}, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	httpez.RegisterAction[loginIn, authOut](ezPublic, db, httpez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (authOut, error) {
			var u domain.User
			err := tx.Where("email = ?", strings.TrimSpace(in.Email)).First(&u).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authOut{}, httpez.Unauthorized("invalid email or password")
			}
			if err != nil {
				return authOut{}, httpez.Internal("db error", err)
			}
			if !utils.CheckPassword(in.Password, u.PasswordHash) {
				return authOut{}, httpez.Unauthorized("invalid email or password")
			}
			if !u.IsActive {
				return authOut{}, httpez.Forbidden("account is deactivated")
			}
			tok, e := jwter.Issue(u.ID, u.Role)
			if e != nil || tok == "" {
				return authOut{}, httpez.Internal("issue token failed", e)
			}
			return authOut{Token: tok, User: publicUser(&u)}, nil
		},
	})

	// /me 必须挂在强制鉴权的分组
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))
	ezAuth := httpez.New(authUser)

	httpez.RegisterAction[struct{}, gin.H](ezAuth, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			var u domain.User
			err := tx.Where("id = ?", c.GetString("userId")).First(&u).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httpez.NotFound("user not found")
			}
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			return publicUser(&u), nil
		},
	})
}

func publicUser(u *domain.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"department": u.Department,
	}
}
