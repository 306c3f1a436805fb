package usiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

const recordDateLayout = "2006-01-02"

// UnmarshalJSON принимает дату рождения в формате YYYY-MM-DD
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var raw struct {
		plain
		DateOfBirth string `json:"dateOfBirth"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record(raw.plain)
	if raw.DateOfBirth == "" {
		r.DateOfBirth = time.Time{}
		return nil
	}
	dob, err := time.Parse(recordDateLayout, raw.DateOfBirth)
	if err != nil {
		return fmt.Errorf("invalid dateOfBirth %q: %w", raw.DateOfBirth, err)
	}
	r.DateOfBirth = dob
	return nil
}

// LoadRecords читает записи для MemoryClient из файла.
// Файл содержит JSON объекты Record подряд, обычно по одному на строку.
func LoadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening records file: %w", err)
	}
	defer file.Close()

	return decodeRecords(file)
}

func decodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			return nil, fmt.Errorf("error decoding record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Seed регистрирует записи в клиенте. Дубликаты пропускаются с предупреждением,
// остальные ошибки прерывают загрузку.
func (c *MemoryClient) Seed(records []Record) (int, error) {
	loaded := 0
	for _, rec := range records {
		err := c.Register(rec)
		if errors.Is(err, ErrRecordExists) {
			c.logger.Warn("Duplicate USI record skipped", zap.String("usi", rec.USI))
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("record %q: %w", rec.USI, err)
		}
		loaded++
	}
	return loaded, nil
}
