package handler

import (
	"errors"
	"net/http"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a machine-readable error code and a human message
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusByCode maps domain error codes to HTTP status codes. Codes not
// listed fall through to 422 for domain errors and 500 otherwise.
var statusByCode = map[string]int{
	"NOT_FOUND":                 http.StatusNotFound,
	"ALREADY_EXISTS":            http.StatusConflict,
	"VALIDATION_FAILED":         http.StatusBadRequest,
	"CONFLICT":                  http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED":    http.StatusConflict,
	"UNAUTHORIZED":              http.StatusUnauthorized,
	"INSUFFICIENT_STOCK":        http.StatusConflict,
	"COUPON_NOT_FOUND":          http.StatusNotFound,
	"COUPON_EXHAUSTED":          http.StatusConflict,
	"COUPON_CODE_TAKEN":         http.StatusConflict,
	"RECEIPT_ALREADY_REVIEWED":  http.StatusConflict,
	"STATUS_UNCHANGED":          http.StatusConflict,
	"INVALID_STATUS_TRANSITION": http.StatusConflict,
	"EMPTY_CART":                http.StatusBadRequest,
	"INVALID_QUANTITY":          http.StatusBadRequest,
	"AMOUNT_MISMATCH":           http.StatusUnprocessableEntity,
	"GATEWAY_MISMATCH":          http.StatusUnprocessableEntity,
	"PAYMENT_MISMATCH":          http.StatusUnprocessableEntity,
}

// BaseHandler provides common response utilities
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.respondError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// HandleError translates an error into the appropriate HTTP response.
// Domain errors map by code; anything else is an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		h.respondError(c, status, domainErr.Code, domainErr.Message)
		return
	}
	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("unhandled error", zap.Error(err))
	h.respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

func (h *BaseHandler) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: c.GetString("request_id"),
		},
	})
}
