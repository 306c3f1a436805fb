package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/models"
	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

// HandleVerifyUSI обрабатывает POST /api/usi/verify
func (h *Handler) HandleVerifyUSI(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Verify(r.Context(), toVerificationRequest(req))
	if err != nil {
		h.writeServiceError(w, err, verifyFailedMessage)
		return
	}

	h.writeJSON(w, http.StatusOK, toVerifyResponse(result))
}

// HandleBulkVerifyUSI обрабатывает POST /api/usi/bulk-verify
func (h *Handler) HandleBulkVerifyUSI(w http.ResponseWriter, r *http.Request) {
	var req models.BulkVerifyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	reqs := make([]verification.Request, 0, len(req.Verifications))
	for _, v := range req.Verifications {
		reqs = append(reqs, toVerificationRequest(v))
	}

	summary, err := h.service.BulkVerify(r.Context(), reqs)
	if err != nil {
		h.writeServiceError(w, err, bulkFailedMessage)
		return
	}

	resp := models.BulkVerifyResponse{
		TotalRequested: summary.TotalRequested,
		ValidCount:     summary.ValidCount,
		InvalidCount:   summary.InvalidCount,
		Results:        make([]models.VerifyResponse, 0, len(summary.Results)),
	}
	for _, res := range summary.Results {
		resp.Results = append(resp.Results, toVerifyResponse(res))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleCountries обрабатывает GET /api/usi/countries
func (h *Handler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		h.writeServiceError(w, err, countriesFailedMessage)
		return
	}

	resp := make([]models.Country, 0, len(countries))
	for _, c := range countries {
		resp = append(resp, models.Country{Code: c.Code, Name: c.Name})
	}

	h.logger.Debug("Countries response", zap.Int("count", len(resp)))
	h.writeJSON(w, http.StatusOK, resp)
}

func toVerificationRequest(req models.VerifyRequest) verification.Request {
	return verification.Request{
		USI:         req.USI,
		DateOfBirth: req.DateOfBirth.Time,
		FirstName:   req.FirstName,
		FamilyName:  req.FamilyName,
		SingleName:  req.SingleName,
	}
}

// toVerifyResponse: Message всегда null, внешний сервис не возвращает текст
func toVerifyResponse(res verification.Result) models.VerifyResponse {
	return models.VerifyResponse{
		IsValid:            res.Valid,
		USI:                res.USI,
		VerificationStatus: string(res.Status),
		Message:            nil,
		RecordID:           res.RecordID,
	}
}
