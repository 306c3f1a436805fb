// Package usiclient реализует обращения к внешнему сервису проверки USI.
//
// SOAPClient работает с настоящим SOAP сервисом, MemoryClient хранит
// записи в памяти и используется для разработки и тестов.
package usiclient

import (
	"context"

	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

// Режимы работы клиента
const (
	ModeSOAP   = "soap"
	ModeMemory = "memory"
)

// Country - запись справочника стран внешнего сервиса
type Country struct {
	Code string
	Name string
}

// Client определяет операции внешнего сервиса проверки USI
type Client interface {
	// BulkVerify отправляет пакет записей одним вызовом и возвращает результаты
	// в том порядке, в котором их вернул сервис
	BulkVerify(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error)

	// Countries возвращает справочник стран
	Countries(ctx context.Context, orgCode string) ([]Country, error)
}
