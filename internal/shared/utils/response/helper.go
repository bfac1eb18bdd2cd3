package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activly/internal/shared/apperrors"
)

// TraceIDKey is the gin context key populated by the trace middleware.
const TraceIDKey = "trace_id"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	traceID, _ := c.Get(TraceIDKey)
	tid, _ := traceID.(string)

	c.JSON(code, StandardApiResponse{
		Success:    status == "success",
		StatusCode: code,
		Message:    message,
		TraceID:    tid,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError translates a domain error into the standard envelope. The
// HTTP status is derived from the error kind here, at the transport
// boundary, never inside the domain layers.
func RespondError(c *gin.Context, err error) {
	code := statusForKind(apperrors.KindOf(err))
	RespondJSON(c, "error", code, apperrors.MessageOf(err), nil, gin.H{
		"code": apperrors.CodeOf(err),
	})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindExternalGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
