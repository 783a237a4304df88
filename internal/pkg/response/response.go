package response

import (
	"net/http"

	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// OK sends a 200 response wrapped in the success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paged sends a paginated list response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &pagination})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps an application error onto the failure envelope. Internal errors
// never leak their cause to the client.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	c.AbortWithStatusJSON(e.HTTPStatus(), errorEnvelope{Success: false, Error: e.Message})
}

// BadRequest sends a 400 failure envelope.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorEnvelope{Success: false, Error: message})
}

// Unauthorized sends a 401 failure envelope.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorEnvelope{Success: false, Error: "authentication required"})
}

// Forbidden sends a 403 failure envelope.
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, errorEnvelope{Success: false, Error: "insufficient permissions"})
}

// NotFound sends a 404 failure envelope.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorEnvelope{Success: false, Error: "not found"})
}

// NotFoundMsg sends a 404 failure envelope with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorEnvelope{Success: false, Error: message})
}

// Conflict sends a 409 failure envelope.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, errorEnvelope{Success: false, Error: message})
}

// InternalError sends a 500 failure envelope.
func InternalError(c *gin.Context, err error) {
	_ = err
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorEnvelope{Success: false, Error: "internal server error"})
}

// MethodNotAllowed sends a 405 failure envelope.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errorEnvelope{Success: false, Error: "method not allowed"})
}
