package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// APIKeyHeader - заголовок с ключом доступа
const APIKeyHeader = "X-Api-Key"

// APIKeyMiddleware пропускает только запросы с ключом, совпадающим с apiKey.
// Пустой apiKey отклоняет все запросы.
func APIKeyMiddleware(apiKey string, logger *zap.Logger) func(next http.Handler) http.Handler {
	expected := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(APIKeyHeader))

			if len(expected) == 0 || provided == "" ||
				subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				logger.Warn("Rejected request with missing or invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				writeError(w, logger, http.StatusUnauthorized, "Unauthorized", "Missing or invalid API key.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
