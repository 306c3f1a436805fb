package usiclient

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hooklift/gowsdl/soap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/usi_gateway.git/internal/verification"
)

const envelopeFormat = `<?xml version="1.0" encoding="utf-8"?>` +
	`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>%s</s:Body></s:Envelope>`

const bulkResponseBody = `<BulkVerifyUSIResponse xmlns="http://usi.gov.au/2022/ws">` +
	`<VerificationResponses>` +
	`<VerificationResponse><RecordId>1</RecordId><USI>AAAAAAAAAA</USI><USIStatus>Valid</USIStatus></VerificationResponse>` +
	`<VerificationResponse><RecordId>2</RecordId><USI>BBBBBBBBBB</USI><USIStatus>Deactivated</USIStatus></VerificationResponse>` +
	`</VerificationResponses>` +
	`</BulkVerifyUSIResponse>`

const countriesResponseBody = `<GetCountriesResponse xmlns="http://usi.gov.au/2022/ws">` +
	`<Countries>` +
	`<Country><CountryCode>1101</CountryCode><Name>Australia</Name></Country>` +
	`<Country><CountryCode>1201</CountryCode><Name>New Zealand</Name></Country>` +
	`</Countries>` +
	`</GetCountriesResponse>`

const faultBody = `<s:Fault><faultcode>s:Client</faultcode><faultstring>Invalid organisation code</faultstring></s:Fault>`

// receivedEnvelope разбирает запрос, пришедший на тестовый сервер
type receivedEnvelope struct {
	Body struct {
		BulkVerifyUSI *bulkVerifyUSI `xml:"http://usi.gov.au/2022/ws BulkVerifyUSI"`
		GetCountries  *getCountries  `xml:"http://usi.gov.au/2022/ws GetCountries"`
	} `xml:"Body"`
}

type capturedRequest struct {
	action        string
	correlationID string
	envelope      receivedEnvelope
}

func newSOAPServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		if captured != nil {
			captured.action = r.Header.Get("SOAPAction")
			captured.correlationID = r.Header.Get(correlationIDHeader)
			assert.NoError(t, xml.Unmarshal(raw, &captured.envelope))
		}

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(status)
		if body != "" {
			_, _ = fmt.Fprintf(w, envelopeFormat, body)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSOAPClient_BulkVerify(t *testing.T) {
	var captured capturedRequest
	server := newSOAPServer(t, http.StatusOK, bulkResponseBody, &captured)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	batch := verification.Batch{
		OrgCode: "ORG01",
		Count:   2,
		Entries: []verification.Entry{
			{RecordID: 1, USI: "AAAAAAAAAA", DateOfBirth: dob, Name: verification.NameEncoding{Kind: verification.NameSingle, Single: "Jo"}},
			{RecordID: 2, USI: "BBBBBBBBBB", DateOfBirth: dob, Name: verification.NameEncoding{Kind: verification.NameFirstLast, First: "Jane", Family: "Citizen"}},
		},
	}

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
	outcomes, err := client.BulkVerify(ctx, batch)
	require.NoError(t, err)

	assert.Equal(t, []verification.Outcome{
		{RecordID: 1, USI: "AAAAAAAAAA", Status: verification.StatusValid},
		{RecordID: 2, USI: "BBBBBBBBBB", Status: verification.StatusDeactivated},
	}, outcomes)

	assert.Equal(t, ActionBulkVerifyUSI, captured.action)
	assert.Equal(t, "req-42", captured.correlationID)

	sent := captured.envelope.Body.BulkVerifyUSI
	require.NotNil(t, sent)
	assert.Equal(t, "ORG01", sent.OrgCode)
	assert.Equal(t, 2, sent.NoOfVerifications)
	require.Len(t, sent.Verifications.Verification, 2)

	first := sent.Verifications.Verification[0]
	assert.Equal(t, 1, first.RecordID)
	assert.Equal(t, "AAAAAAAAAA", first.USI)
	assert.Equal(t, "1990-02-03", first.DateOfBirth)
	assert.Equal(t, "Jo", first.SingleName)
	assert.Empty(t, first.FirstName)
	assert.Empty(t, first.FamilyName)

	second := sent.Verifications.Verification[1]
	assert.Equal(t, 2, second.RecordID)
	assert.Equal(t, "Jane", second.FirstName)
	assert.Equal(t, "Citizen", second.FamilyName)
	assert.Empty(t, second.SingleName)
}

func TestSOAPClient_GeneratesCorrelationID(t *testing.T) {
	var captured capturedRequest
	server := newSOAPServer(t, http.StatusOK, bulkResponseBody, &captured)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.BulkVerify(context.Background(), verification.Batch{OrgCode: "ORG01"})
	require.NoError(t, err)
	assert.Len(t, captured.correlationID, 36)
}

func TestSOAPClient_Countries(t *testing.T) {
	var captured capturedRequest
	server := newSOAPServer(t, http.StatusOK, countriesResponseBody, &captured)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	countries, err := client.Countries(context.Background(), "ORG01")
	require.NoError(t, err)

	assert.Equal(t, []Country{
		{Code: "1101", Name: "Australia"},
		{Code: "1201", Name: "New Zealand"},
	}, countries)
	assert.Equal(t, ActionGetCountries, captured.action)
	require.NotNil(t, captured.envelope.Body.GetCountries)
	assert.Equal(t, "ORG01", captured.envelope.Body.GetCountries.OrgCode)
}

func TestSOAPClient_Fault(t *testing.T) {
	server := newSOAPServer(t, http.StatusInternalServerError, faultBody, nil)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.BulkVerify(context.Background(), verification.Batch{OrgCode: "ORG01"})
	assert.EqualError(t, err, "Invalid organisation code")
}

func TestSOAPClient_FaultWithStatusOK(t *testing.T) {
	server := newSOAPServer(t, http.StatusOK, faultBody, nil)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.Countries(context.Background(), "ORG01")
	assert.EqualError(t, err, "Invalid organisation code")
}

func TestFaultFromHTTPError(t *testing.T) {
	faultEnvelopeXML := []byte(fmt.Sprintf(envelopeFormat, faultBody))
	other := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		wantMsg string
		keepErr bool
	}{
		{
			name:    "Fault in HTTP 500",
			err:     &soap.HTTPError{StatusCode: http.StatusInternalServerError, ResponseBody: faultEnvelopeXML},
			wantMsg: "Invalid organisation code",
		},
		{
			name:    "HTTP 500 without envelope",
			err:     &soap.HTTPError{StatusCode: http.StatusInternalServerError, ResponseBody: []byte("<html>oops</html>")},
			keepErr: true,
		},
		{
			name:    "HTTP 500 with empty body",
			err:     &soap.HTTPError{StatusCode: http.StatusInternalServerError},
			keepErr: true,
		},
		{
			name:    "Envelope without fault",
			err:     &soap.HTTPError{StatusCode: http.StatusInternalServerError, ResponseBody: []byte(fmt.Sprintf(envelopeFormat, bulkResponseBody))},
			keepErr: true,
		},
		{
			name:    "Other status is kept",
			err:     &soap.HTTPError{StatusCode: http.StatusBadGateway, ResponseBody: faultEnvelopeXML},
			keepErr: true,
		},
		{
			name:    "Transport error",
			err:     other,
			keepErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := faultFromHTTPError(tt.err)
			if tt.keepErr {
				assert.Same(t, tt.err, got)
				return
			}
			assert.EqualError(t, got, tt.wantMsg)
		})
	}

	assert.NoError(t, faultFromHTTPError(nil))
}

func TestSOAPClient_HTTPError(t *testing.T) {
	server := newSOAPServer(t, http.StatusServiceUnavailable, "", nil)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.Countries(context.Background(), "ORG01")
	assert.Error(t, err)
}

func TestSOAPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewSOAPClient(url, time.Second, zap.NewNop())
	_, err := client.Countries(context.Background(), "ORG01")
	assert.Error(t, err)
}

func TestSOAPClient_Canceled(t *testing.T) {
	server := newSOAPServer(t, http.StatusOK, countriesResponseBody, nil)
	client := NewSOAPClient(server.URL, 5*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Countries(ctx, "ORG01")
	assert.Error(t, err)
}
