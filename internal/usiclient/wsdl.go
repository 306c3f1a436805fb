package usiclient

import (
	"encoding/xml"

	"github.com/hooklift/gowsdl/soap"
)

// Namespace - пространство имён сообщений сервиса USI
const Namespace = "http://usi.gov.au/2022/ws"

// SOAP actions операций сервиса
const (
	ActionBulkVerifyUSI = Namespace + "/IUSIService/BulkVerifyUSI"
	ActionGetCountries  = Namespace + "/IUSIService/GetCountries"
)

const xsdDateLayout = "2006-01-02"

type bulkVerifyUSI struct {
	XMLName           xml.Name         `xml:"http://usi.gov.au/2022/ws BulkVerifyUSI"`
	OrgCode           string           `xml:"OrgCode"`
	NoOfVerifications int              `xml:"NoOfVerifications"`
	Verifications     verificationList `xml:"Verifications"`
}

type verificationList struct {
	Verification []verificationType `xml:"Verification"`
}

// verificationType содержит либо SingleName, либо FirstName и FamilyName
type verificationType struct {
	RecordID    int    `xml:"RecordId"`
	USI         string `xml:"USI"`
	FirstName   string `xml:"FirstName,omitempty"`
	FamilyName  string `xml:"FamilyName,omitempty"`
	SingleName  string `xml:"SingleName,omitempty"`
	DateOfBirth string `xml:"DateOfBirth"`
}

type bulkVerifyUSIResponse struct {
	XMLName               xml.Name                   `xml:"http://usi.gov.au/2022/ws BulkVerifyUSIResponse"`
	VerificationResponses []verificationResponseType `xml:"VerificationResponses>VerificationResponse"`
}

type verificationResponseType struct {
	RecordID  int    `xml:"RecordId"`
	USI       string `xml:"USI"`
	USIStatus string `xml:"USIStatus"`
}

type getCountries struct {
	XMLName xml.Name `xml:"http://usi.gov.au/2022/ws GetCountries"`
	OrgCode string   `xml:"OrgCode"`
}

type getCountriesResponse struct {
	XMLName   xml.Name      `xml:"http://usi.gov.au/2022/ws GetCountriesResponse"`
	Countries []countryType `xml:"Countries>Country"`
}

type countryType struct {
	CountryCode string `xml:"CountryCode"`
	Name        string `xml:"Name"`
}

// faultEnvelope - конверт ответа, в теле которого SOAP Fault
type faultEnvelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    struct {
		Fault *soap.SOAPFault
	} `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}
