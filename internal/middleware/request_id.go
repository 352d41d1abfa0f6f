package middleware

import (
	"TripPlanner-App/internal/domain/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダー
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength を超える受信IDは信用せず振り直す
const maxRequestIDLength = 128

// RequestID はリクエストIDをコンテキストとレスポンスヘッダーに設定する
// 受信したIDがあればそれを使い、なければ UUID を生成する
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}

		c.Set(RequestIDHeader, id)
		c.Request = c.Request.WithContext(model.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
