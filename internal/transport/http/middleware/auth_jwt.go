package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusmate/internal/core/auth"
	resp "campusmate/internal/transport/http/response"
)

// AuthJWT 强制鉴权；requireRole 非空时再校验角色。
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AuthOptional 带了合法 token 就注入身份，没带照样放行。
// 讨论区的写路径靠它兼容匿名发帖（服务层再做兜底归属）。
func AuthOptional(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer ")); err == nil {
				c.Set("userId", claims.UID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}
