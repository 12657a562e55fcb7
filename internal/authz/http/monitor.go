package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/pkg/httpx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// MonitorHandler godoc
//
//	@Summary		Server date
//	@Tags			Monitor
//	@Produce		json
//	@Success		200	{object}	MonitorResponse
//	@Router			/monitor [get].
func MonitorHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, MonitorResponse{Date: now().UTC()})
	}
}

// ClearTokensHandler serves POST /monitor/clear-tokens behind Authenticate
// and RequireRight(system).
type ClearTokensHandler struct {
	Ledger         *service.TokenLedger
	RetentionHours int
}

// ServeHTTP godoc
//
//	@Summary		Prune the token ledger
//	@Description	Deletes issued and blacklisted token records older than the retention window. Requires the system right
//	@Tags			Monitor
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ClearTokensResponse
//	@Failure		401	{object}	httpx.Message
//	@Failure		403	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message
//	@Router			/monitor/clear-tokens [post].
func (h *ClearTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	retention := h.RetentionHours
	if retention <= 0 {
		retention = service.DefaultRetentionHours
	}

	res, err := h.Ledger.PruneExpired(ctx, retention)
	if err != nil {
		log.Error("clear tokens failed", slog.Any("error", err))
		writeInternalError(w)
		return
	}

	log.Info("expired tokens cleared",
		slog.Int64("blacklisted_deleted", res.Blacklisted), slog.Int64("issued_deleted", res.Issued))
	httpx.WriteJSON(w, http.StatusOK, ClearTokensResponse{
		BlacklistedDeleted: res.Blacklisted,
		IssuedDeleted:      res.Issued,
	})
}
