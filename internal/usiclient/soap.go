package usiclient

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hooklift/gowsdl/soap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

const (
	tracerName          = "github.com/InQaaaaGit/usi_gateway.git/internal/usiclient"
	correlationIDHeader = "X-Correlation-ID"
)

// SOAPClient реализует Client поверх SOAP сервиса USI
type SOAPClient struct {
	url        string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewSOAPClient создает клиент для сервиса по адресу serviceURL.
// timeout ограничивает каждый HTTP запрос к сервису.
func NewSOAPClient(serviceURL string, timeout time.Duration, logger *zap.Logger) *SOAPClient {
	return &SOAPClient{
		url:        serviceURL,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
}

// BulkVerify выполняет операцию BulkVerifyUSI
func (c *SOAPClient) BulkVerify(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "usi.BulkVerifyUSI",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("usi.org_code", batch.OrgCode),
			attribute.Int("usi.record_count", batch.Count),
		))
	defer span.End()

	var resp bulkVerifyUSIResponse
	if err := c.call(ctx, ActionBulkVerifyUSI, toBulkVerifyUSI(batch), &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outcomes := make([]verification.Outcome, 0, len(resp.VerificationResponses))
	for _, vr := range resp.VerificationResponses {
		outcomes = append(outcomes, verification.Outcome{
			RecordID: vr.RecordID,
			USI:      vr.USI,
			Status:   verification.Status(vr.USIStatus),
		})
	}
	span.SetAttributes(attribute.Int("usi.outcome_count", len(outcomes)))

	return outcomes, nil
}

// Countries выполняет операцию GetCountries
func (c *SOAPClient) Countries(ctx context.Context, orgCode string) ([]Country, error) {
	ctx, span := c.tracer.Start(ctx, "usi.GetCountries",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("usi.org_code", orgCode)))
	defer span.End()

	var resp getCountriesResponse
	if err := c.call(ctx, ActionGetCountries, &getCountries{OrgCode: orgCode}, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	countries := make([]Country, 0, len(resp.Countries))
	for _, ct := range resp.Countries {
		countries = append(countries, Country{Code: ct.CountryCode, Name: ct.Name})
	}
	return countries, nil
}

// call отправляет одно SOAP сообщение. Клиент gowsdl создается на каждый вызов,
// чтобы передать идентификатор корреляции; HTTP клиент общий.
func (c *SOAPClient) call(ctx context.Context, action string, request, response interface{}) error {
	correlationID := chimiddleware.GetReqID(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	client := soap.NewClient(c.url,
		soap.WithHTTPClient(c.httpClient),
		soap.WithHTTPHeaders(map[string]string{correlationIDHeader: correlationID}),
	)

	start := time.Now()
	err := faultFromHTTPError(client.CallContext(ctx, action, request, response))
	c.logger.Debug("SOAP call finished",
		zap.String("action", action),
		zap.String("correlation_id", correlationID),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err))

	return err
}

// faultFromHTTPError достаёт SOAP Fault из ответа с HTTP 500: gowsdl возвращает
// такой ответ как HTTPError с сырым конвертом. Остальные ошибки не меняются.
func faultFromHTTPError(err error) error {
	var httpErr *soap.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		return err
	}

	var envelope faultEnvelope
	if xml.Unmarshal(httpErr.ResponseBody, &envelope) != nil {
		return err
	}
	if envelope.Body.Fault == nil || envelope.Body.Fault.String == "" {
		return err
	}
	return envelope.Body.Fault
}

func toBulkVerifyUSI(batch verification.Batch) *bulkVerifyUSI {
	req := &bulkVerifyUSI{
		OrgCode:           batch.OrgCode,
		NoOfVerifications: batch.Count,
		Verifications: verificationList{
			Verification: make([]verificationType, 0, len(batch.Entries)),
		},
	}

	for _, e := range batch.Entries {
		v := verificationType{
			RecordID:    e.RecordID,
			USI:         e.USI,
			DateOfBirth: e.DateOfBirth.Format(xsdDateLayout),
		}
		switch e.Name.Kind {
		case verification.NameSingle:
			v.SingleName = e.Name.Single
		case verification.NameFirstLast:
			v.FirstName = e.Name.First
			v.FamilyName = e.Name.Family
		}
		req.Verifications.Verification = append(req.Verifications.Verification, v)
	}

	return req
}
