package rest

import (
	"net/http"

	"github.com/DanielPopoola/x402-gateway/internal/application"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps application errors to HTTP responses. Internal detail never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, application.ToHTTPStatus(err), ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    application.ToErrorCode(err),
			Message: application.ToErrorMessage(err),
		},
	})
}
