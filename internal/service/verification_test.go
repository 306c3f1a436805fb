package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/InQaaaaGit/usi_gateway.git/internal/config"
	"github.com/InQaaaaGit/usi_gateway.git/internal/metrics"
	"github.com/InQaaaaGit/usi_gateway.git/internal/usiclient"
	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

var testDOB = time.Date(1990, time.February, 3, 0, 0, 0, 0, time.UTC)

// mockClient реализует usiclient.Client для тестов
type mockClient struct {
	bulkVerifyFunc func(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error)
	countriesFunc  func(ctx context.Context, orgCode string) ([]usiclient.Country, error)
	batches        []verification.Batch
}

func (m *mockClient) BulkVerify(ctx context.Context, batch verification.Batch) ([]verification.Outcome, error) {
	m.batches = append(m.batches, batch)
	if m.bulkVerifyFunc != nil {
		return m.bulkVerifyFunc(ctx, batch)
	}
	return nil, nil
}

func (m *mockClient) Countries(ctx context.Context, orgCode string) ([]usiclient.Country, error) {
	if m.countriesFunc != nil {
		return m.countriesFunc(ctx, orgCode)
	}
	return nil, nil
}

// echoStatus отвечает status на каждую запись пакета
func echoStatus(status verification.Status) func(context.Context, verification.Batch) ([]verification.Outcome, error) {
	return func(_ context.Context, batch verification.Batch) ([]verification.Outcome, error) {
		outcomes := make([]verification.Outcome, 0, len(batch.Entries))
		for _, e := range batch.Entries {
			outcomes = append(outcomes, verification.Outcome{RecordID: e.RecordID, USI: e.USI, Status: status})
		}
		return outcomes, nil
	}
}

func newTestService(client usiclient.Client, orgCode string) *VerificationServiceImpl {
	return NewVerificationService(client, &config.Config{OrgCode: orgCode}, zap.NewNop(), nil)
}

func TestVerify(t *testing.T) {
	upstreamErr := errors.New("The organisation code is invalid")

	tests := []struct {
		name       string
		orgCode    string
		req        verification.Request
		bulkVerify func(context.Context, verification.Batch) ([]verification.Outcome, error)
		want       verification.Result
		wantErr    error
		wantCalls  int
	}{
		{
			name:       "Valid single name",
			orgCode:    "ORG01",
			req:        verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
			bulkVerify: echoStatus(verification.StatusValid),
			want:       verification.Result{RecordID: 1, USI: "AAAAAAAAAA", Status: verification.StatusValid, Valid: true},
			wantCalls:  1,
		},
		{
			name:       "Deactivated first and family name",
			orgCode:    "ORG01",
			req:        verification.Request{USI: "BBBBBBBBBB", DateOfBirth: testDOB, FirstName: "Jane", FamilyName: "Citizen"},
			bulkVerify: echoStatus(verification.StatusDeactivated),
			want:       verification.Result{RecordID: 1, USI: "BBBBBBBBBB", Status: verification.StatusDeactivated, Valid: false},
			wantCalls:  1,
		},
		{
			name:      "Missing names",
			orgCode:   "ORG01",
			req:       verification.Request{USI: "CCCCCCCCCC", DateOfBirth: testDOB},
			wantErr:   verification.ErrInvalidArgument,
			wantCalls: 0,
		},
		{
			name:      "Name check comes before org code check",
			orgCode:   "",
			req:       verification.Request{USI: "CCCCCCCCCC", DateOfBirth: testDOB},
			wantErr:   verification.ErrInvalidArgument,
			wantCalls: 0,
		},
		{
			name:      "Missing org code",
			orgCode:   "",
			req:       verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
			wantErr:   verification.ErrMisconfiguration,
			wantCalls: 0,
		},
		{
			name:    "Empty upstream response",
			orgCode: "ORG01",
			req:     verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
			bulkVerify: func(context.Context, verification.Batch) ([]verification.Outcome, error) {
				return []verification.Outcome{}, nil
			},
			wantErr:   verification.ErrUpstreamEmptyResponse,
			wantCalls: 1,
		},
		{
			name:    "Upstream failure",
			orgCode: "ORG01",
			req:     verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
			bulkVerify: func(context.Context, verification.Batch) ([]verification.Outcome, error) {
				return nil, upstreamErr
			},
			wantErr:   verification.ErrUpstreamFailure,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{bulkVerifyFunc: tt.bulkVerify}
			svc := newTestService(client, tt.orgCode)

			got, err := svc.Verify(context.Background(), tt.req)
			assert.Len(t, client.batches, tt.wantCalls)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			batch := client.batches[0]
			assert.Equal(t, "ORG01", batch.OrgCode)
			assert.Equal(t, 1, batch.Count)
		})
	}
}

func TestVerifyUpstreamMessageIsPreserved(t *testing.T) {
	client := &mockClient{bulkVerifyFunc: func(context.Context, verification.Batch) ([]verification.Outcome, error) {
		return nil, errors.New("The organisation code is invalid")
	}}
	svc := newTestService(client, "ORG01")

	_, err := svc.Verify(context.Background(), verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"})
	require.Error(t, err)
	assert.Equal(t, "The organisation code is invalid", err.Error())

	var upErr *verification.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, OpBulkVerifyUSI, upErr.Op)
}

func TestBulkVerify(t *testing.T) {
	client := &mockClient{bulkVerifyFunc: func(_ context.Context, batch verification.Batch) ([]verification.Outcome, error) {
		return []verification.Outcome{
			{RecordID: 1, USI: batch.Entries[0].USI, Status: verification.StatusValid},
			{RecordID: 2, USI: batch.Entries[1].USI, Status: verification.StatusInvalid},
		}, nil
	}}
	m := metrics.New()
	svc := NewVerificationService(client, &config.Config{OrgCode: "ORG01"}, zap.NewNop(), m)

	reqs := []verification.Request{
		{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
		{USI: "BBBBBBBBBB", DateOfBirth: testDOB},
		{USI: "CCCCCCCCCC", DateOfBirth: testDOB, FirstName: "Jane", FamilyName: "Citizen"},
	}

	summary, err := svc.BulkVerify(context.Background(), reqs)
	require.NoError(t, err)

	require.Len(t, client.batches, 1)
	assert.Equal(t, 2, client.batches[0].Count)

	assert.Equal(t, verification.Summary{
		TotalRequested: 3,
		ValidCount:     1,
		InvalidCount:   1,
		Results: []verification.Result{
			{RecordID: 1, USI: "AAAAAAAAAA", Status: verification.StatusValid, Valid: true},
			{RecordID: 2, USI: "CCCCCCCCCC", Status: verification.StatusInvalid, Valid: false},
		},
	}, summary)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BulkSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues("bulk", "Valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues(OpBulkVerifyUSI, "success")))
}

func TestBulkVerifyErrors(t *testing.T) {
	reqs := []verification.Request{{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"}}

	t.Run("Missing org code", func(t *testing.T) {
		client := &mockClient{}
		svc := newTestService(client, "")

		_, err := svc.BulkVerify(context.Background(), reqs)
		assert.ErrorIs(t, err, verification.ErrMisconfiguration)
		assert.Empty(t, client.batches)
	})

	t.Run("Upstream failure", func(t *testing.T) {
		client := &mockClient{bulkVerifyFunc: func(context.Context, verification.Batch) ([]verification.Outcome, error) {
			return nil, errors.New("service unavailable")
		}}
		svc := newTestService(client, "ORG01")

		_, err := svc.BulkVerify(context.Background(), reqs)
		assert.ErrorIs(t, err, verification.ErrUpstreamFailure)
		assert.Equal(t, "service unavailable", err.Error())
	})
}

func TestBulkVerifyWarnsOnCountMismatch(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := &mockClient{bulkVerifyFunc: func(context.Context, verification.Batch) ([]verification.Outcome, error) {
		return []verification.Outcome{{RecordID: 1, USI: "AAAAAAAAAA", Status: verification.StatusValid}}, nil
	}}
	svc := NewVerificationService(client, &config.Config{OrgCode: "ORG01"}, zap.New(core), nil)

	summary, err := svc.BulkVerify(context.Background(), []verification.Request{
		{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"},
		{USI: "BBBBBBBBBB", DateOfBirth: testDOB, SingleName: "Mo"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRequested)
	assert.Len(t, summary.Results, 1)
	assert.Equal(t, 1, logs.FilterMessage("Upstream returned unexpected number of results").Len())
}

func TestCountries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotOrg string
		client := &mockClient{countriesFunc: func(_ context.Context, orgCode string) ([]usiclient.Country, error) {
			gotOrg = orgCode
			return []usiclient.Country{{Code: "1101", Name: "Australia"}}, nil
		}}
		svc := newTestService(client, "ORG01")

		countries, err := svc.Countries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ORG01", gotOrg)
		assert.Equal(t, []usiclient.Country{{Code: "1101", Name: "Australia"}}, countries)
	})

	t.Run("Missing org code", func(t *testing.T) {
		svc := newTestService(&mockClient{}, "")

		_, err := svc.Countries(context.Background())
		assert.ErrorIs(t, err, verification.ErrMisconfiguration)
	})

	t.Run("Upstream failure", func(t *testing.T) {
		client := &mockClient{countriesFunc: func(context.Context, string) ([]usiclient.Country, error) {
			return nil, errors.New("timeout")
		}}
		svc := newTestService(client, "ORG01")

		_, err := svc.Countries(context.Background())
		assert.ErrorIs(t, err, verification.ErrUpstreamFailure)

		var upErr *verification.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, OpGetCountries, upErr.Op)
	})
}

func TestServiceWithMemoryClient(t *testing.T) {
	client := usiclient.NewMemoryClient(zap.NewNop())
	require.NoError(t, client.Register(usiclient.Record{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"}))
	svc := newTestService(client, "ORG01")

	result, err := svc.Verify(context.Background(), verification.Request{USI: "AAAAAAAAAA", DateOfBirth: testDOB, SingleName: "Jo"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = svc.Verify(context.Background(), verification.Request{USI: "ZZZZZZZZZZ", DateOfBirth: testDOB, SingleName: "Jo"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, verification.StatusInvalid, result.Status)
}
