package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareit-platform/service-sharing/internal/domain/shared"
)

// Success writes v as a 200 response.
func Success(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

// Created writes v as a 201 response.
func Created(c *gin.Context, v interface{}) {
	c.JSON(http.StatusCreated, v)
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error translates a domain error into its response code. An unrecognized
// state is deliberately a 400, not a 500. Non-domain errors surface as 500
// without leaking internals.
func Error(c *gin.Context, err error) {
	kind, ok := shared.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case shared.KindNotFound:
		status = http.StatusNotFound
	case shared.KindForbidden:
		status = http.StatusForbidden
	case shared.KindConflict:
		status = http.StatusConflict
	case shared.KindInvalidArgument, shared.KindUnsupportedState:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
