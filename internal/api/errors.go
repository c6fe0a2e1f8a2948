package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/errors"
)

// statusForCode maps application error codes to HTTP statuses
var statusForCode = map[string]int{
	errors.ErrCodeValidationError:      http.StatusBadRequest,
	errors.ErrCodeUnauthorized:         http.StatusUnauthorized,
	errors.ErrCodeForbidden:            http.StatusForbidden,
	errors.ErrCodeNotFound:             http.StatusNotFound,
	errors.ErrCodeConflict:             http.StatusConflict,
	errors.ErrCodeCatalogUnavailable:   http.StatusServiceUnavailable,
	errors.ErrCodePricingInconsistency: http.StatusInternalServerError,
	errors.ErrCodeDatabaseError:        http.StatusInternalServerError,
	errors.ErrCodeInternalError:        http.StatusInternalServerError,
}

// writeError renders an application error as a JSON response. Validation
// errors carry the full per-field list so the intake form can annotate every
// invalid input at once.
func writeError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)

	status, ok := statusForCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(status, gin.H{"error": body})
}
