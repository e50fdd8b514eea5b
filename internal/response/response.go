// Package response centralizes the JSON response shapes and the mapping from
// domain error codes to HTTP status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twigaride/service-geo/internal/domain/geo"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 with the payload under "data".
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 with the payload under "data".
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": errorBody{Code: string(geo.CodeValidation), Message: message},
	})
}

// Error maps a domain error to its HTTP status. Unrecognized errors become
// opaque 500s; their detail stays in the logs.
func Error(c *gin.Context, err error) {
	code := geo.CodeOf(err)
	status := http.StatusInternalServerError
	message := "internal server error"

	switch code {
	case geo.CodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case geo.CodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case geo.CodeInvalidCoordinate:
		// A caller contract violation, not user input: upstream resolution
		// should never have produced this coordinate.
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case geo.CodeUpstreamUnavailable:
		status = http.StatusBadGateway
		message = err.Error()
	case geo.CodeDataLoad:
		status = http.StatusServiceUnavailable
		message = err.Error()
	}

	c.JSON(status, gin.H{"error": errorBody{Code: string(code), Message: message}})
}
