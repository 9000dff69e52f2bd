package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 1 << 20

type HTTPFacilitatorClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewFacilitatorClient talks to the facilitator at cfg.URL. It never retries: resubmitting
// a payment authorization risks settling it twice.
func NewFacilitatorClient(cfg config.FacilitatorConfig) application.Facilitator {
	return &HTTPFacilitatorClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer: otel.Tracer("github.com/DanielPopoola/x402-gateway/internal/infrastructure/facilitator"),
	}
}

func (c *HTTPFacilitatorClient) Verify(ctx context.Context, req application.FacilitatorRequest) (*application.FacilitatorResponse, error) {
	ctx, span := c.tracer.Start(ctx, "facilitator.verify", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("x402.network", req.Network),
		attribute.String("x402.scheme", req.Payment.Scheme),
		attribute.String("x402.payer", req.Payment.From),
	)

	resp, err := postJSON[application.FacilitatorRequest, application.FacilitatorResponse](c, ctx, "/verify", req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("x402.transaction_hash", resp.TransactionHash))
	return resp, nil
}

// postJSON is a generic helper for making POST requests to the facilitator API
func postJSON[Req any, Resp any](c *HTTPFacilitatorClient, ctx context.Context, path string, req Req) (*Resp, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.message() == "" {
			return nil, fmt.Errorf("facilitator returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &application.FacilitatorError{
			StatusCode: resp.StatusCode,
			Message:    errResp.message(),
		}
	}

	var out Resp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &out, nil
}
