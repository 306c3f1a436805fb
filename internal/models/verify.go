package models

// VerifyRequest представляет запрос на проверку одного USI.
// Нужно указать либо SingleName, либо FirstName вместе с FamilyName.
type VerifyRequest struct {
	USI         string `json:"usi" validate:"required,len=10"`
	DateOfBirth Date   `json:"dateOfBirth" validate:"required"`
	FirstName   string `json:"firstName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
	SingleName  string `json:"singleName,omitempty"`
}

// VerifyResponse представляет результат проверки одного USI
type VerifyResponse struct {
	IsValid            bool    `json:"isValid"`
	USI                string  `json:"usi"`
	VerificationStatus string  `json:"verificationStatus"`
	Message            *string `json:"message"`
	RecordID           int     `json:"recordId"`
}
