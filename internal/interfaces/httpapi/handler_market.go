package httpapi

import (
	"net/http"
)

func (h *Handler) GetMarketStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMarketStatus")
	defer span.End()

	status, err := h.windowService.Status(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, windowStatusToDTO(status))
}

func (h *Handler) SetMarket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMarket")
	defer span.End()

	var req setMarketRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.windowService.SetOpen(ctx, *req.Open)
	if err != nil {
		h.logger.WarnContext(ctx, "set transfer window failed", "open", *req.Open, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, windowStatusToDTO(status))
}

func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Ranking")
	defer span.End()

	items, err := h.rankingService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}
