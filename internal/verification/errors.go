package verification

import "errors"

// ErrInvalidArgument возвращается, когда в одиночном запросе не указано ни
// SingleName, ни пара FirstName + FamilyName
var ErrInvalidArgument = errors.New("invalid name fields")

// ErrUpstreamEmptyResponse возвращается, когда внешний сервис ответил без результатов
var ErrUpstreamEmptyResponse = errors.New("no verification response received")

// ErrUpstreamFailure - общий признак ошибки вызова внешнего сервиса.
// Конкретные ошибки оборачиваются в UpstreamError.
var ErrUpstreamFailure = errors.New("upstream failure")

// ErrMisconfiguration возвращается, когда в конфигурации нет кода организации
var ErrMisconfiguration = errors.New("organization code not configured")

// UpstreamError оборачивает ошибку внешнего сервиса, сохраняя её текст без изменений.
type UpstreamError struct {
	Op  string
	Err error
}

// Error возвращает текст исходной ошибки
func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

// Unwrap позволяет добраться до исходной ошибки
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is делает UpstreamError сравнимой с ErrUpstreamFailure через errors.Is
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}

// NewUpstreamError оборачивает ошибку операции op. nil остаётся nil.
func NewUpstreamError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
