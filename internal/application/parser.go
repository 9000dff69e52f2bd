package application

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/go-playground/validator"
)

// PaymentHeader is the request header carrying the payment authorization.
const PaymentHeader = "X-PAYMENT"

var payloadValidator = validator.New()

type wireAuthorization struct {
	From        string              `json:"from"`
	To          string              `json:"to"`
	Value       string              `json:"value"`
	ValidAfter  *domain.UnixSeconds `json:"validAfter"`
	ValidBefore *domain.UnixSeconds `json:"validBefore"`
	Nonce       string              `json:"nonce"`
}

// wirePayment accepts both the flat layout and the nested x402 layout
// {scheme, network, payload: {signature, authorization: {...}}}.
type wirePayment struct {
	Scheme    string `json:"scheme"`
	Signature string `json:"signature"`
	wireAuthorization
	Payload *struct {
		Signature     string            `json:"signature"`
		Authorization wireAuthorization `json:"authorization"`
	} `json:"payload"`
}

type requiredFields struct {
	Scheme      string              `validate:"required"`
	Signature   string              `validate:"required"`
	From        string              `validate:"required"`
	To          string              `validate:"required"`
	Value       string              `validate:"required"`
	ValidAfter  *domain.UnixSeconds `validate:"required"`
	ValidBefore *domain.UnixSeconds `validate:"required"`
	Nonce       string              `validate:"required"`
}

// ParsePaymentHeader decodes the X-PAYMENT header. An empty header yields domain.ErrNoPayment;
// undecodable JSON or any missing field yields a MALFORMED_PAYLOAD error. No partial
// authorization is ever returned.
func ParsePaymentHeader(raw string) (*domain.PaymentAuthorization, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrNoPayment
	}

	body, err := decodeHeader(raw)
	if err != nil {
		return nil, domain.NewMalformedPayloadError(err)
	}

	var wire wirePayment
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, domain.NewMalformedPayloadError(err)
	}

	fields := requiredFields{
		Scheme:      wire.Scheme,
		Signature:   wire.Signature,
		From:        wire.From,
		To:          wire.To,
		Value:       wire.Value,
		ValidAfter:  wire.ValidAfter,
		ValidBefore: wire.ValidBefore,
		Nonce:       wire.Nonce,
	}
	if p := wire.Payload; p != nil {
		fields.Signature = firstNonEmpty(fields.Signature, p.Signature)
		fields.From = firstNonEmpty(fields.From, p.Authorization.From)
		fields.To = firstNonEmpty(fields.To, p.Authorization.To)
		fields.Value = firstNonEmpty(fields.Value, p.Authorization.Value)
		fields.Nonce = firstNonEmpty(fields.Nonce, p.Authorization.Nonce)
		if fields.ValidAfter == nil {
			fields.ValidAfter = p.Authorization.ValidAfter
		}
		if fields.ValidBefore == nil {
			fields.ValidBefore = p.Authorization.ValidBefore
		}
	}

	if err := payloadValidator.Struct(fields); err != nil {
		return nil, domain.NewMalformedPayloadError(err)
	}

	return &domain.PaymentAuthorization{
		Scheme:      fields.Scheme,
		Signature:   fields.Signature,
		From:        fields.From,
		To:          fields.To,
		Value:       fields.Value,
		ValidAfter:  int64(*fields.ValidAfter),
		ValidBefore: int64(*fields.ValidBefore),
		Nonce:       fields.Nonce,
	}, nil
}

// decodeHeader returns raw JSON as is and base64 encoded JSON decoded.
func decodeHeader(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "{") {
		return []byte(raw), nil
	}

	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
