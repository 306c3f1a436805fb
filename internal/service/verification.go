// Package service содержит бизнес-логику проверки USI.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/config"
	"github.com/InQaaaaGit/usi_gateway.git/internal/metrics"
	"github.com/InQaaaaGit/usi_gateway.git/internal/usiclient"
	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

// Имена операций внешнего сервиса для ошибок и метрик
const (
	OpBulkVerifyUSI = "BulkVerifyUSI"
	OpGetCountries  = "GetCountries"
)

// VerificationService определяет интерфейс сервиса проверки USI
type VerificationService interface {
	Verify(ctx context.Context, req verification.Request) (verification.Result, error)
	BulkVerify(ctx context.Context, reqs []verification.Request) (verification.Summary, error)
	Countries(ctx context.Context) ([]usiclient.Country, error)
}

// VerificationServiceImpl реализует VerificationService
type VerificationServiceImpl struct {
	client  usiclient.Client
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewVerificationService создает новый экземпляр VerificationService.
// m может быть nil.
func NewVerificationService(client usiclient.Client, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		client:  client,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

// Verify проверяет один USI.
// Порядок проверок: имя, код организации, вызов внешнего сервиса.
func (s *VerificationServiceImpl) Verify(ctx context.Context, req verification.Request) (verification.Result, error) {
	s.logger.Info("Verifying USI", zap.String("usi", req.USI))

	batch, err := verification.BuildSingle(s.config.OrgCode, req)
	if err != nil {
		s.logger.Warn("Invalid name fields", zap.String("usi", req.USI))
		return verification.Result{}, err
	}
	if s.config.OrgCode == "" {
		s.logger.Error("Organization code is not configured")
		return verification.Result{}, verification.ErrMisconfiguration
	}

	outcomes, err := s.bulkVerify(ctx, batch)
	if err != nil {
		s.logger.Error("USI verification failed", zap.String("usi", req.USI), zap.Error(err))
		return verification.Result{}, err
	}

	result, err := verification.AggregateSingle(req.USI, outcomes)
	if err != nil {
		s.logger.Error("No verification response received", zap.String("usi", req.USI))
		return verification.Result{}, err
	}

	s.metrics.IncrementVerification("single", string(result.Status))
	s.logger.Info("USI verification completed",
		zap.String("usi", req.USI),
		zap.String("status", string(result.Status)))

	return result, nil
}

// BulkVerify проверяет несколько USI одним вызовом.
// Записи без корректного имени пропускаются и не попадают в результаты.
func (s *VerificationServiceImpl) BulkVerify(ctx context.Context, reqs []verification.Request) (verification.Summary, error) {
	s.logger.Info("Bulk verifying USIs", zap.Int("count", len(reqs)))

	if s.config.OrgCode == "" {
		s.logger.Error("Organization code is not configured")
		return verification.Summary{}, verification.ErrMisconfiguration
	}

	batch := verification.BuildBulk(s.config.OrgCode, reqs)
	skipped := len(reqs) - batch.Count
	if skipped > 0 {
		s.logger.Warn("Skipping entries without valid name fields", zap.Int("skipped", skipped))
		s.metrics.AddBulkSkipped(skipped)
	}

	outcomes, err := s.bulkVerify(ctx, batch)
	if err != nil {
		s.logger.Error("Bulk USI verification failed", zap.Error(err))
		return verification.Summary{}, err
	}
	if len(outcomes) != batch.Count {
		// результаты по-прежнему сопоставляются по позиции
		s.logger.Warn("Upstream returned unexpected number of results",
			zap.Int("sent", batch.Count),
			zap.Int("received", len(outcomes)))
	}

	summary := verification.AggregateBulk(len(reqs), outcomes)
	for _, r := range summary.Results {
		s.metrics.IncrementVerification("bulk", string(r.Status))
	}

	s.logger.Info("Bulk verification completed",
		zap.Int("valid", summary.ValidCount),
		zap.Int("total", summary.TotalRequested),
		zap.Int("skipped", skipped))

	return summary, nil
}

// Countries возвращает справочник стран сервиса USI
func (s *VerificationServiceImpl) Countries(ctx context.Context) ([]usiclient.Country, error) {
	s.logger.Info("Fetching country data")

	if s.config.OrgCode == "" {
		s.logger.Error("Organization code is not configured")
		return nil, verification.ErrMisconfiguration
	}

	start := time.Now()
	countries, err := s.client.Countries(ctx, s.config.OrgCode)
	s.metrics.ObserveUpstream(OpGetCountries, err, time.Since(start))
	if err != nil {
		s.logger.Error("Failed to fetch country data", zap.Error(err))
		return nil, verification.NewUpstreamError(OpGetCountries, err)
	}

	s.logger.Info("Retrieved countries", zap.Int("count", len(countries)))
	return countries, nil
}

func (s *VerificationServiceImpl) bulkVerify(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error) {
	start := time.Now()
	outcomes, err := s.client.BulkVerify(ctx, batch)
	s.metrics.ObserveUpstream(OpBulkVerifyUSI, err, time.Since(start))
	if err != nil {
		return nil, verification.NewUpstreamError(OpBulkVerifyUSI, err)
	}
	return outcomes, nil
}
