package models

// BulkVerifyRequest представляет запрос на пакетную проверку USI
type BulkVerifyRequest struct {
	Verifications []VerifyRequest `json:"verifications" validate:"required,min=1,dive"`
}

// BulkVerifyResponse представляет ответ на пакетную проверку USI.
// TotalRequested - количество записей в запросе, включая пропущенные
// из-за некорректных имён.
type BulkVerifyResponse struct {
	TotalRequested int              `json:"totalRequested"`
	ValidCount     int              `json:"validCount"`
	InvalidCount   int              `json:"invalidCount"`
	Results        []VerifyResponse `json:"results"`
}
