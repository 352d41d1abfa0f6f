package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler は許可したオリジンからのブラウザアクセスにCORSヘッダーを付与する
// gin.Engine 全体を包むので、プリフライトもルーティング前に処理される
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "X-Plan-Provenance"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
