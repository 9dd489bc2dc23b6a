package response

import (
	"net/http"

	"github.com/Kilat-Hospitality/service-reservation/pkg/domain"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the error part of the JSON envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// Envelope is the JSON body written by every handler.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 acknowledgement.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// BadRequest writes a 400 validation failure.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error: &ErrorBody{Code: string(domain.CodeValidation), Message: msg},
	})
}

// Error maps err to a status code and writes it. Unclassified errors are
// reported generically so internal detail never reaches the client.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	de, ok := domain.AsDomainError(err)
	if !ok || de.Code == domain.CodeInternal {
		c.JSON(http.StatusInternalServerError, Envelope{
			Error: &ErrorBody{Code: string(domain.CodeInternal), Message: "internal server error"},
		})
		return
	}

	msg := de.Message
	if msg == "" {
		msg = de.Reason
	}
	c.JSON(StatusFor(de.Code), Envelope{
		Error: &ErrorBody{Code: string(de.Code), Reason: de.Reason, Message: msg},
	})
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
