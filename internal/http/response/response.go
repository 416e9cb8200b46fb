package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
	// Result carries the partial outcome of an aborted multi-step
	// operation, e.g. a cascade report naming the failed step.
	Result any `json:"result,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	respondEnvelope(c, status, code, err, nil)
}

func respondEnvelope(c *gin.Context, status int, code string, err error, result any) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
		Result: result,
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondMappedError translates the domain error sentinels into HTTP
// statuses; anything unrecognized is a 500.
func RespondMappedError(c *gin.Context, code string, err error) {
	RespondMappedErrorWithResult(c, code, err, nil)
}

// RespondMappedErrorWithResult additionally attaches the partial result of
// the failed operation so the caller can see how far it got before
// deciding whether to retry.
func RespondMappedErrorWithResult(c *gin.Context, code string, err error, result any) {
	respondEnvelope(c, mappedStatus(err), code, err, result)
}

func mappedStatus(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsConsistency(err):
		return http.StatusConflict
	case apperrors.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
