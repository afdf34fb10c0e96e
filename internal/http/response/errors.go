package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
)

// StatusForCode maps aggregate error codes onto HTTP statuses. Precondition
// rejections on live agreements surface as 409 so callers can distinguish
// "bad request shape" from "valid request, wrong state".
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeUnauthorized:
		return http.StatusForbidden
	case domainagg.CodeValidation, domainagg.CodeInvalidTenant, domainagg.CodeInvalidTerms:
		return http.StatusBadRequest
	case domainagg.CodeAgreementInactive, domainagg.CodeAgreementExpired, domainagg.CodeIncorrectAmount, domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeTransferFailed:
		return http.StatusBadGateway
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError renders an aggregate failure with its code preserved
// in the envelope.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	RespondError(c, StatusForCode(code), string(code), err)
}
