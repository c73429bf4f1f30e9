package http

import (
	"errors"
	"net/http"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/application/receipt"
	"github.com/garyjia/settlement-portal/internal/application/service"
	domainwf "github.com/garyjia/settlement-portal/internal/domain/workflow"
)

const (
	msgUpstreamMisconfigured = "申請一覧用のGASがJSONではなくHTMLを返しています。GAS_API_URLに申請一覧API（getApplications）を含むデプロイのURLを設定し、アクセス権を「全員」にしてください。"
	msgLeaveMisconfigured    = "休暇申請GASから不正な応答がありました"
	msgStoreUnavailable      = "承認履歴ストアが設定されていません。HISTORY_DATABASE_URL または history.path を設定してください。"
)

// statusFor maps an application error to an HTTP status. Receipt errors
// depend on the endpoint, so callers pass receiptStatus for them.
func statusFor(err error, receiptStatus int) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, domainwf.ErrInvalidTrigger),
		errors.Is(err, domainwf.ErrMissingChecker):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrApplicationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainwf.ErrInvalidTransition),
		errors.Is(err, domainwf.ErrGuardFailed),
		errors.Is(err, domainwf.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, receipt.ErrInvalidReference),
		errors.Is(err, port.ErrFetchFailed):
		return receiptStatus
	case errors.Is(err, port.ErrUpstream),
		errors.Is(err, port.ErrUpstreamMisconfigured):
		return http.StatusBadGateway
	case errors.Is(err, port.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// messageFor returns the client-facing message for err.
func messageFor(err error, misconfigured string) string {
	switch {
	case errors.Is(err, port.ErrUpstreamMisconfigured):
		return misconfigured
	case errors.Is(err, port.ErrStoreUnavailable):
		return msgStoreUnavailable
	}
	return err.Error()
}

// authError maps a login failure to status and code.
func authError(err error) (int, AuthErrorResponse) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, AuthErrorResponse{Code: "INVALID_REQUEST", Message: "idToken is required"}
	case errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, AuthErrorResponse{Code: "TOKEN_EXPIRED", Message: "Token expired"}
	case errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusForbidden, AuthErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "登録外のGmailからのログインはできません"}
	case errors.Is(err, service.ErrLoginForbidden):
		return http.StatusForbidden, AuthErrorResponse{Code: "FORBIDDEN", Message: "権限がないためログインできません"}
	}
	return http.StatusInternalServerError, AuthErrorResponse{Code: "INTERNAL_ERROR", Message: "Internal server error"}
}
