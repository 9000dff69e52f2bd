package application

import (
	"strconv"

	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

// Resource describes the gated endpoint a requirement is built for.
type Resource struct {
	Path        string
	Description string
	Method      string
	MimeType    string
	// Output is the response body schema advertised to automated payers.
	Output map[string]any
}

// RequirementBuilder turns the deployment's payment settings into x402 requirements.
type RequirementBuilder struct {
	network           string
	payTo             string
	asset             string
	maxTimeoutSeconds int64
	description       string
	extra             *domain.AssetExtra
}

func NewRequirementBuilder(cfg config.PaymentConfig) *RequirementBuilder {
	b := &RequirementBuilder{
		network:           cfg.Network,
		payTo:             cfg.PayTo,
		asset:             cfg.Asset,
		maxTimeoutSeconds: cfg.MaxTimeoutSeconds,
		description:       cfg.Description,
	}
	if cfg.AssetName != "" {
		b.extra = &domain.AssetExtra{Name: cfg.AssetName, Version: cfg.AssetVersion}
	}
	return b
}

// Build returns a new requirement for price at res. It performs no I/O and never fails.
func (b *RequirementBuilder) Build(price domain.Price, res Resource) domain.PaymentRequirement {
	description := res.Description
	if description == "" {
		description = b.description
	}

	mimeType := res.MimeType
	if mimeType == "" {
		mimeType = "application/json"
	}

	method := res.Method
	if method == "" {
		method = "GET"
	}

	schema := map[string]any{
		"input": map[string]any{
			"type":   "http",
			"method": method,
		},
	}
	if res.Output != nil {
		schema["output"] = res.Output
	}

	return domain.PaymentRequirement{
		Scheme:            domain.SchemeExact,
		Network:           b.network,
		MaxAmountRequired: strconv.FormatInt(price.SmallestUnit(), 10),
		Resource:          res.Path,
		Description:       description,
		MimeType:          mimeType,
		PayTo:             b.payTo,
		Asset:             b.asset,
		MaxTimeoutSeconds: b.maxTimeoutSeconds,
		OutputSchema:      schema,
		Extra:             b.extra,
	}
}

// PaymentRequired wraps a requirement in the 402 response body. reason may be empty.
func (b *RequirementBuilder) PaymentRequired(price domain.Price, res Resource, reason string) domain.PaymentRequiredResponse {
	return domain.PaymentRequiredResponse{
		X402Version: domain.X402Version,
		Accepts:     []domain.PaymentRequirement{b.Build(price, res)},
		Error:       reason,
	}
}
