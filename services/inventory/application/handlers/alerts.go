package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/cafestock/pkg/httpx"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// GetAlertsHandler handles GET /inventory/alerts.
type GetAlertsHandler struct{ base }

func NewGetAlertsHandler(d Deps) *GetAlertsHandler { return &GetAlertsHandler{newBase(d)} }

// Execute evaluates the current alert set, most urgent first.
//
//	@Summary	Current alerts
//	@Tags		alerts
//	@Produce	json
//	@Param		severity	query		string	false	"Filter by severity"	Enums(out, expired, low, expiringSoon)
//	@Success	200			{array}		AlertResponse
//	@Router		/inventory/alerts [get]
func (h *GetAlertsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	severity := r.URL.Query().Get("severity")
	out := make([]AlertResponse, 0)
	for _, a := range h.Services.Ledger.Alerts(h.Now()) {
		if severity != "" && string(a.Severity) != severity {
			continue
		}
		out = append(out, toAlertResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetAlertFeedHandler handles GET /inventory/alerts/feed.
type GetAlertFeedHandler struct{ base }

func NewGetAlertFeedHandler(d Deps) *GetAlertFeedHandler { return &GetAlertFeedHandler{newBase(d)} }

// Execute returns recently raised alerts, newest first.
//
//	@Summary	Raised alert feed
//	@Tags		alerts
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum entries (1-200)"	default(50)
//	@Success	200		{array}		AlertResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse	"Redis not configured"
//	@Router		/inventory/alerts/feed [get]
func (h *GetAlertFeedHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.Feed == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "alert feed is not configured")
		return
	}
	limit := defaultFeedLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxFeedLimit {
			httpx.JSONError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	feed, err := h.Feed.Feed(r.Context(), int64(limit))
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]AlertResponse, len(feed))
	for i, c := range feed {
		out[i] = fromCachedAlert(c)
	}
	httpx.JSON(w, http.StatusOK, out)
}
