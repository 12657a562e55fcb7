package http

import (
	"net/http"

	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/pkg/httpx"
)

const (
	msgInternalServerError = "InternalServerError"
	msgInvalidRequest      = "InvalidRequest"
	msgForbidden           = "Forbidden"
)

func writeMessage(w http.ResponseWriter, code int, message string, userError bool) {
	httpx.WriteMessage(w, code, message, userError)
}

func writeInternalError(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, msgInternalServerError, false)
}

// writeRejected maps a provider refusal onto a status code. Refusals caused
// by the caller are 400, throttling is 429, anything else is the
// provider's fault.
func writeRejected(w http.ResponseWriter, rej idp.Rejected) {
	switch {
	case rej.Code == idp.CodeLimitExceeded:
		writeMessage(w, http.StatusTooManyRequests, rej.Code, true)
	case rej.UserError:
		writeMessage(w, http.StatusBadRequest, rej.Code, true)
	default:
		writeMessage(w, http.StatusInternalServerError, msgInternalServerError, false)
	}
}
