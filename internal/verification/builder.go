package verification

import "strings"

// SelectName выбирает кодирование имени по приоритету:
// непустое SingleName, затем пара FirstName + FamilyName.
// Значения считаются пустыми, если состоят только из пробелов.
// Возвращает false, если ни одна форма не подходит.
func SelectName(req Request) (NameEncoding, bool) {
	if !isBlank(req.SingleName) {
		return NameEncoding{Kind: NameSingle, Single: req.SingleName}, true
	}
	if !isBlank(req.FirstName) && !isBlank(req.FamilyName) {
		return NameEncoding{Kind: NameFirstLast, First: req.FirstName, Family: req.FamilyName}, true
	}
	return NameEncoding{}, false
}

// BuildSingle строит пакет из одного запроса.
// Если имя не задано ни в одной из форм, возвращает ErrInvalidArgument.
func BuildSingle(orgCode string, req Request) (Batch, error) {
	name, ok := SelectName(req)
	if !ok {
		return Batch{}, ErrInvalidArgument
	}

	return Batch{
		OrgCode: orgCode,
		Count:   1,
		Entries: []Entry{newEntry(1, req, name)},
	}, nil
}

// BuildBulk строит пакет из нескольких запросов.
// Запросы без корректного имени молча пропускаются: они не получают RecordID
// и не учитываются в Count. Номера записей идут подряд с 1 в исходном порядке.
func BuildBulk(orgCode string, reqs []Request) Batch {
	entries := make([]Entry, 0, len(reqs))
	for _, req := range reqs {
		name, ok := SelectName(req)
		if !ok {
			continue
		}
		entries = append(entries, newEntry(len(entries)+1, req, name))
	}

	return Batch{
		OrgCode: orgCode,
		Count:   len(entries),
		Entries: entries,
	}
}

func newEntry(recordID int, req Request, name NameEncoding) Entry {
	return Entry{
		RecordID:    recordID,
		USI:         req.USI,
		DateOfBirth: req.DateOfBirth,
		Name:        name,
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
