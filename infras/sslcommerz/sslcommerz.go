package sslcommerz

//go:generate go run go.uber.org/mock/mockgen -source=./sslcommerz.go -destination=./mocks/sslcommerz_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"eventro/config"
	"eventro/infras/otel"
	"eventro/shared/constant"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	initiatePath            = "/gwprocess/v4/api.php"
	validateByTranPath      = "/validator/api/merchantTransIDvalidationAPI.php"
	validateByValidationIDs = "/validator/api/validationserverAPI.php"

	statusSuccess = "SUCCESS"
	StatusValid   = "VALID"

	defaultCustomerPhone   = "01700000000"
	defaultCustomerAddress = "Not provided"
	defaultCustomerCity    = "Dhaka"
	defaultCountry         = "Bangladesh"

	requestTimeout = 30 * time.Second

	otelAttrTransactionID = "gateway.tran_id"
	otelAttrValidationID  = "gateway.val_id"
)

type InitiateRequest struct {
	TransactionID   string
	Amount          float64
	SuccessURL      string
	FailURL         string
	CancelURL       string
	IPNURL          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	ProductName     string
	BookingID       string
}

type InitiateResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// ValidationResult is a single settled transaction as reported by the gateway
// validator endpoints. Amounts come back as strings on the wire.
type ValidationResult struct {
	Status            string `json:"status"`
	TransactionID     string `json:"tran_id"`
	ValidationID      string `json:"val_id"`
	TransactionDate   string `json:"tran_date"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	CardType          string `json:"card_type"`
	CardIssuer        string `json:"card_issuer"`
	CardBrand         string `json:"card_brand"`
	CardIssuerCountry string `json:"card_issuer_country"`
	ValueA            string `json:"value_a"`
	ValueB            string `json:"value_b"`
	ValueC            string `json:"value_c"`
	ValueD            string `json:"value_d"`
}

type validationListResponse struct {
	APIConnect string             `json:"APIConnect"`
	Element    []ValidationResult `json:"element"`
}

type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error)
	ValidateByTransaction(ctx context.Context, transactionID string) (*ValidationResult, error)
	ValidateByValidationID(ctx context.Context, validationID string) (*ValidationResult, error)
}

type gatewayImpl struct {
	config     *config.Config
	httpClient *http.Client
	otel       otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Gateway {
	return &gatewayImpl{
		config: cfg,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		otel: ot,
	}
}

// Initiate creates a gateway payment session and returns the hosted checkout URL.
func (g *gatewayImpl) Initiate(ctx context.Context, req InitiateRequest) (res InitiateResponse, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".Initiate")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrTransactionID, req.TransactionID)

	phone := req.CustomerPhone
	if phone == "" {
		phone = defaultCustomerPhone
	}

	address := req.CustomerAddress
	if address == "" {
		address = defaultCustomerAddress
	}

	city := req.CustomerCity
	if city == "" {
		city = defaultCustomerCity
	}

	form := url.Values{
		"store_id":         {g.config.External.Gateway.StoreID},
		"store_passwd":     {g.config.External.Gateway.StorePassword},
		"total_amount":     {fmt.Sprintf("%.2f", req.Amount)},
		"currency":         {g.config.External.Gateway.Currency},
		"tran_id":          {req.TransactionID},
		"success_url":      {req.SuccessURL},
		"fail_url":         {req.FailURL},
		"cancel_url":       {req.CancelURL},
		"ipn_url":          {req.IPNURL},
		"cus_name":         {req.CustomerName},
		"cus_email":        {req.CustomerEmail},
		"cus_phone":        {phone},
		"cus_add1":         {address},
		"cus_city":         {city},
		"cus_country":      {defaultCountry},
		"shipping_method":  {"NO"},
		"product_name":     {req.ProductName},
		"product_category": {"Event Package"},
		"product_profile":  {"general"},
		"value_a":          {req.BookingID},
		"value_b":          {req.CustomerEmail},
		"value_c":          {req.ProductName},
		"value_d":          {fmt.Sprintf("%.2f", req.Amount)},
	}

	endpoint := g.config.External.Gateway.APIBaseURL + initiatePath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return res, fmt.Errorf("failed to build gateway initiate request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeFormURLEncoded)

	body, err := g.do(httpReq)
	if err != nil {
		return res, err
	}

	if err = json.Unmarshal(body, &res); err != nil {
		log.Error().Err(err).Str("tran_id", req.TransactionID).Msg("failed to decode gateway initiate response")

		return res, fmt.Errorf("failed to decode gateway initiate response: %w", err)
	}

	if res.Status != statusSuccess {
		reason := res.FailedReason
		if reason == "" {
			reason = "payment initiation failed"
		}

		return res, fmt.Errorf("gateway rejected payment initiation: %s", reason)
	}

	log.Info().
		Str("tran_id", req.TransactionID).
		Str("session_key", res.SessionKey).
		Msg("gateway payment session created")

	return res, nil
}

// ValidateByTransaction looks up the transaction on the merchant validation
// endpoint and returns the first VALID entry matching the transaction ID, or
// nil when the gateway reports no valid settlement.
func (g *gatewayImpl) ValidateByTransaction(ctx context.Context, transactionID string) (result *ValidationResult, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".ValidateByTransaction")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrTransactionID, transactionID)

	query := url.Values{
		"tran_id":      {transactionID},
		"store_id":     {g.config.External.Gateway.StoreID},
		"store_passwd": {g.config.External.Gateway.StorePassword},
		"format":       {"json"},
	}

	endpoint := g.config.External.Gateway.APIBaseURL + validateByTranPath + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway validation request: %w", err)
	}

	body, err := g.do(httpReq)
	if err != nil {
		return nil, err
	}

	var list validationListResponse
	if err = json.Unmarshal(body, &list); err != nil {
		log.Error().Err(err).Str("tran_id", transactionID).Msg("failed to decode gateway validation response")

		return nil, fmt.Errorf("failed to decode gateway validation response: %w", err)
	}

	for i := range list.Element {
		element := list.Element[i]
		if element.Status == StatusValid && element.TransactionID == transactionID {
			return &element, nil
		}
	}

	return nil, nil
}

// ValidateByValidationID verifies a single settlement by its validation ID, as
// delivered on instant payment notifications.
func (g *gatewayImpl) ValidateByValidationID(ctx context.Context, validationID string) (result *ValidationResult, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".ValidateByValidationID")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrValidationID, validationID)

	query := url.Values{
		"val_id":       {validationID},
		"store_id":     {g.config.External.Gateway.StoreID},
		"store_passwd": {g.config.External.Gateway.StorePassword},
		"format":       {"json"},
	}

	endpoint := g.config.External.Gateway.APIBaseURL + validateByValidationIDs + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway validation request: %w", err)
	}

	body, err := g.do(httpReq)
	if err != nil {
		return nil, err
	}

	var validation ValidationResult
	if err = json.Unmarshal(body, &validation); err != nil {
		log.Error().Err(err).Str("val_id", validationID).Msg("failed to decode gateway validation response")

		return nil, fmt.Errorf("failed to decode gateway validation response: %w", err)
	}

	if validation.Status != StatusValid {
		return nil, nil
	}

	return &validation, nil
}

func (g *gatewayImpl) do(req *http.Request) ([]byte, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL.Path).Msg("gateway request failed")

		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("gateway returned non-200 status")

		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return body, nil
}
