package usiclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
	"go.uber.org/zap"
)

// Record - запись USI, известная MemoryClient
type Record struct {
	USI         string    `json:"usi"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	FirstName   string    `json:"firstName,omitempty"`
	FamilyName  string    `json:"familyName,omitempty"`
	SingleName  string    `json:"singleName,omitempty"`
	Deactivated bool      `json:"deactivated,omitempty"`
}

// DefaultCountries - справочник стран MemoryClient
var DefaultCountries = []Country{
	{Code: "1101", Name: "Australia"},
	{Code: "1201", Name: "New Zealand"},
	{Code: "2100", Name: "United Kingdom"},
	{Code: "5105", Name: "Singapore"},
	{Code: "6101", Name: "China (excludes SARs and Taiwan)"},
	{Code: "7103", Name: "India"},
	{Code: "8104", Name: "United States of America"},
}

// MemoryClient реализует Client, сверяя записи с реестром в памяти
type MemoryClient struct {
	mu        sync.RWMutex
	records   map[string]Record
	countries []Country
	logger    *zap.Logger
}

// NewMemoryClient создает новый экземпляр MemoryClient
func NewMemoryClient(logger *zap.Logger) *MemoryClient {
	return &MemoryClient{
		records:   make(map[string]Record),
		countries: DefaultCountries,
		logger:    logger,
	}
}

// Register добавляет запись в реестр
func (c *MemoryClient) Register(rec Record) error {
	if strings.TrimSpace(rec.USI) == "" || rec.DateOfBirth.IsZero() {
		return ErrInvalidRecord
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[rec.USI]; exists {
		return ErrRecordExists
	}
	c.records[rec.USI] = rec
	return nil
}

// Get получает запись по USI
func (c *MemoryClient) Get(usi string) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, exists := c.records[usi]
	if !exists {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

// Deactivate помечает USI как деактивированный
func (c *MemoryClient) Deactivate(usi string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, exists := c.records[usi]
	if !exists {
		return ErrRecordNotFound
	}
	rec.Deactivated = true
	c.records[usi] = rec
	return nil
}

// BulkVerify сверяет каждую запись пакета с реестром
func (c *MemoryClient) BulkVerify(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	outcomes := make([]verification.Outcome, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		outcomes = append(outcomes, verification.Outcome{
			RecordID: entry.RecordID,
			USI:      entry.USI,
			Status:   c.statusOf(entry),
		})
	}

	c.logger.Debug("Memory bulk verification",
		zap.String("org_code", batch.OrgCode),
		zap.Int("count", len(outcomes)))

	return outcomes, nil
}

// Countries возвращает копию справочника стран
func (c *MemoryClient) Countries(ctx context.Context, orgCode string) ([]Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	countries := make([]Country, len(c.countries))
	copy(countries, c.countries)
	return countries, nil
}

// statusOf вызывается под блокировкой на чтение
func (c *MemoryClient) statusOf(entry verification.Entry) verification.Status {
	rec, exists := c.records[entry.USI]
	if !exists {
		return verification.StatusInvalid
	}
	if rec.Deactivated {
		return verification.StatusDeactivated
	}
	if !sameDay(rec.DateOfBirth, entry.DateOfBirth) || !nameMatches(rec, entry.Name) {
		return verification.StatusInvalid
	}
	return verification.StatusValid
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func nameMatches(rec Record, name verification.NameEncoding) bool {
	switch name.Kind {
	case verification.NameSingle:
		return strings.EqualFold(strings.TrimSpace(rec.SingleName), strings.TrimSpace(name.Single))
	case verification.NameFirstLast:
		return strings.EqualFold(strings.TrimSpace(rec.FirstName), strings.TrimSpace(name.First)) &&
			strings.EqualFold(strings.TrimSpace(rec.FamilyName), strings.TrimSpace(name.Family))
	default:
		return false
	}
}
