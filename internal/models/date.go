package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout - формат даты рождения в запросах и в SOAP сообщениях (xs:date)
const DateLayout = "2006-01-02"

// Date - дата без времени. При разборе JSON принимает как "2006-01-02",
// так и полную дату в формате RFC 3339; время отбрасывается.
type Date struct {
	time.Time
}

// NewDate создает Date из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON разбирает дату из строки JSON
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(DateLayout, raw); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// MarshalJSON записывает дату в формате YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}
