package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize はリクエストボディを limit バイトに制限する
// 超過した読み取りは *http.MaxBytesError になり、ハンドラーで 413 に変換する
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
