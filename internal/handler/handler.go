package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/config"
	"github.com/InQaaaaGit/usi_gateway.git/internal/models"
	"github.com/InQaaaaGit/usi_gateway.git/internal/service"
	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

const (
	contentTypeJSON = "application/json"

	invalidBodyMessage      = "Invalid request body"
	unsupportedMediaMessage = "Unsupported media type"
	validationFailedMessage = "Validation failed"

	invalidNameMessage = "Invalid name fields"
	invalidNameDetails = "Must provide either SingleName OR both FirstName and FamilyName"
	emptyResultMessage = "No verification response received"
	emptyResultDetails = "The USI service did not return a verification result"

	verifyFailedMessage    = "USI verification failed"
	bulkFailedMessage      = "Bulk USI verification failed"
	countriesFailedMessage = "Failed to fetch country data"
	internalErrorMessage   = "Internal server error"
	healthyStatus          = "Healthy"
	serviceName            = "USI Web API"
)

// Handler обрабатывает HTTP запросы к API проверки USI
type Handler struct {
	service   service.VerificationService
	cfg       *config.Config
	logger    *zap.Logger
	validator *models.Validator
	version   string
	now       func() time.Time
}

// NewHandler создает обработчик. version попадает в ответ /health.
func NewHandler(service service.VerificationService, cfg *config.Config, logger *zap.Logger, version string) *Handler {
	return &Handler{
		service:   service,
		cfg:       cfg,
		logger:    logger,
		validator: models.NewValidator(),
		version:   version,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// decodeJSON проверяет Content-Type, разбирает тело запроса в dst и валидирует его.
// При ошибке ответ уже записан и возвращается false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeJSON) {
		h.writeError(w, http.StatusUnsupportedMediaType, unsupportedMediaMessage, "")
		return false
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.logger.Error("Error closing request body", zap.Error(err))
		}
	}()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, invalidBodyMessage, err.Error())
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, validationFailedMessage, err.Error())
		return false
	}
	return true
}

// writeServiceError переводит ошибку сервиса в HTTP ответ.
// label - текст ошибки операции для сбоев внешнего сервиса и конфигурации.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, label string) {
	switch {
	case errors.Is(err, verification.ErrInvalidArgument):
		h.writeError(w, http.StatusBadRequest, invalidNameMessage, invalidNameDetails)
	case errors.Is(err, verification.ErrUpstreamEmptyResponse):
		h.writeError(w, http.StatusInternalServerError, emptyResultMessage, emptyResultDetails)
	case errors.Is(err, verification.ErrMisconfiguration), errors.Is(err, verification.ErrUpstreamFailure):
		h.writeError(w, http.StatusInternalServerError, label, err.Error())
	default:
		h.logger.Error("Unexpected service error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, internalErrorMessage, "")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, details string) {
	h.writeJSON(w, status, models.ErrorResponse{
		Error:     message,
		Details:   details,
		Timestamp: h.now(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error writing JSON response", zap.Error(err))
	}
}
