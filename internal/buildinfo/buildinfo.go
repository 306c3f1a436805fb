// Package buildinfo хранит версию, дату и коммит сборки.
// Значения передаются в main через -ldflags "-X main.buildVersion=...".
package buildinfo

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// NotAvailable подставляется вместо значений, не заданных при сборке
const NotAvailable = "N/A"

// Info содержит информацию о сборке приложения
type Info struct {
	Version string
	Date    string
	Commit  string
}

// NewInfo создает информацию о сборке. Пустые значения заменяются на NotAvailable.
func NewInfo(version, date, commit string) Info {
	return Info{
		Version: orNotAvailable(version),
		Date:    orNotAvailable(date),
		Commit:  orNotAvailable(commit),
	}
}

// Print выводит информацию о сборке в w
func (info Info) Print(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}

// String возвращает строковое представление информации о сборке
func (info Info) String() string {
	return fmt.Sprintf("Version: %s, Date: %s, Commit: %s", info.Version, info.Date, info.Commit)
}

// Fields возвращает поля для структурированного лога
func (info Info) Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", info.Version),
		zap.String("build_date", info.Date),
		zap.String("commit", info.Commit),
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
