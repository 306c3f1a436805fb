// Package middleware содержит HTTP middleware сервиса: аутентификацию по ключу,
// сжатие, логирование и метрики запросов.
package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/models"
)

// writeError отвечает ошибкой в общем JSON формате
func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Error writing JSON response", zap.Int("status", status), zap.Error(err))
	}
}
