package server

import (
	stdErrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/service/identity"
	apperrors "github.com/kapu/mathsprint-site-go/pkg/errors"
)

func writeError(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   code,
	})
}

func mapIdentityErrorToHTTP(err error) (status int, code identity.ErrorCode) {
	var ie *identity.Error
	if !stdErrors.As(err, &ie) {
		return http.StatusInternalServerError, identity.CodeInternal
	}

	switch ie.Code {
	case identity.CodeInvalidInput:
		return http.StatusBadRequest, ie.Code
	case identity.CodeStateMismatch:
		return http.StatusBadRequest, ie.Code
	case identity.CodeUnauthorized:
		return http.StatusUnauthorized, ie.Code
	case identity.CodeProvider:
		return http.StatusBadGateway, ie.Code
	default:
		return http.StatusInternalServerError, identity.CodeInternal
	}
}

// mapAppErrorToHTTP: 도메인 오류 타입을 HTTP 상태와 오류 코드로 매핑한다.
func mapAppErrorToHTTP(err error) (status int, code string) {
	var (
		ve *apperrors.ValidationError
		nf *apperrors.NotFoundError
		ua *apperrors.UnauthorizedError
	)

	switch {
	case stdErrors.As(err, &ve):
		return http.StatusBadRequest, "INVALID_INPUT"
	case stdErrors.As(err, &nf):
		return http.StatusNotFound, "NOT_FOUND"
	case stdErrors.As(err, &ua):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
