// Package verification содержит логику нормализации запросов на проверку USI
// и агрегации ответов внешнего сервиса.
//
// Пакет не выполняет сетевых вызовов: построитель (BuildSingle, BuildBulk)
// превращает входящие запросы в пакет для удалённого сервиса, а агрегатор
// (AggregateSingle, AggregateBulk) превращает ответ сервиса в результат API.
package verification

import "time"

// Request представляет один входящий запрос на проверку USI.
type Request struct {
	USI         string
	DateOfBirth time.Time
	FirstName   string
	FamilyName  string
	SingleName  string
}

// NameKind определяет способ кодирования имени в записи пакета.
type NameKind int

const (
	// NameSingle - единственное имя (SingleName)
	NameSingle NameKind = iota + 1
	// NameFirstLast - пара имя + фамилия
	NameFirstLast
)

// String возвращает название способа кодирования
func (k NameKind) String() string {
	switch k {
	case NameSingle:
		return "SingleName"
	case NameFirstLast:
		return "FirstName+FamilyName"
	default:
		return "Unknown"
	}
}

// NameEncoding хранит выбранное представление имени.
// Для NameSingle заполнено только поле Single, для NameFirstLast - First и Family.
type NameEncoding struct {
	Kind   NameKind
	Single string
	First  string
	Family string
}

// Entry - нормализованная запись пакета, отправляемая во внешний сервис.
type Entry struct {
	RecordID    int
	USI         string
	DateOfBirth time.Time
	Name        NameEncoding
}

// Batch - пакет записей для одного вызова внешнего сервиса.
// Count всегда равен len(Entries).
type Batch struct {
	OrgCode string
	Count   int
	Entries []Entry
}

// Status - статус USI, возвращаемый внешним сервисом.
type Status string

// Известные статусы. Любое другое значение считается невалидным.
const (
	StatusValid       Status = "Valid"
	StatusInvalid     Status = "Invalid"
	StatusDeactivated Status = "Deactivated"
)

// IsValid сообщает, означает ли статус валидный USI
func (s Status) IsValid() bool {
	return s == StatusValid
}

// Outcome - результат проверки одной записи, полученный от внешнего сервиса.
type Outcome struct {
	RecordID int
	USI      string
	Status   Status
}

// Result - результат проверки, возвращаемый клиенту API.
type Result struct {
	RecordID int
	USI      string
	Status   Status
	Valid    bool
}

// Summary - итог пакетной проверки.
type Summary struct {
	TotalRequested int
	ValidCount     int
	InvalidCount   int
	Results        []Result
}
