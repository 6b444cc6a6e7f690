package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AccessLog(l *zap.Logger) gin.HandlerFunc {
	// query 里的敏感 key 统一打码
	sensitive := map[string]struct{}{
		"password": {}, "pwd": {}, "token": {}, "authorization": {}, "secret": {},
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		q := map[string][]string{}
		for k, v := range c.Request.URL.Query() {
			if _, ok := sensitive[strings.ToLower(k)]; ok {
				q[k] = []string{"****"}
			} else {
				q[k] = v
			}
		}

		l.Info("HTTP",
			zap.String("rid", c.GetString("rid")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.Any("query", q),
		)
	}
}
