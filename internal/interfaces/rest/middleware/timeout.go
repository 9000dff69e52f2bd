package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/interfaces/rest"
)

// Timeout bounds the whole request, facilitator call and upstream execution included.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	timeoutErr := application.NewTimeoutError()
	body, _ := json.Marshal(rest.ErrorResponse{
		Success: false,
		Error:   rest.ErrorDetail{Code: timeoutErr.Code, Message: timeoutErr.Message},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
