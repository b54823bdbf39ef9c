package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/coaches", handler.ListCoaches)
	mux.HandleFunc("GET /v1/ranking", handler.Ranking)
	mux.HandleFunc("GET /v1/market/status", handler.GetMarketStatus)
	mux.HandleFunc("GET /v1/calendar", handler.ListMatches)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedTeamRoutes(mux, handler, verifier)
	registerAuthorizedAccountRoutes(mux, handler, verifier)
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/team", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/team/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("GET /v1/team/me/stats", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeamStats)))
	mux.Handle("POST /v1/team/buy", RequireAuth(verifier, http.HandlerFunc(handler.BuyPlayer)))
	mux.Handle("POST /v1/team/sell", RequireAuth(verifier, http.HandlerFunc(handler.SellPlayer)))
	mux.Handle("PUT /v1/team/coach", RequireAuth(verifier, http.HandlerFunc(handler.SetCoach)))
}

func registerAuthorizedAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("GET /v1/onboarding", RequireAuth(verifier, http.HandlerFunc(handler.GetOnboarding)))
	mux.Handle("PUT /v1/onboarding", RequireAuth(verifier, http.HandlerFunc(handler.PutOnboarding)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, admins AdminChecker) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(admins, fn))
	}

	mux.Handle("POST /v1/admin/scores", admin(handler.IngestScores))
	mux.Handle("POST /v1/admin/players", admin(handler.CreatePlayer))
	mux.Handle("POST /v1/admin/players/bulk", admin(handler.BulkCreatePlayers))
	mux.Handle("POST /v1/admin/players/bulk-price", admin(handler.BulkAdjustPrices))
	mux.Handle("PATCH /v1/admin/players/{playerID}/price", admin(handler.AdjustPlayerPrice))
	mux.Handle("DELETE /v1/admin/players/{playerID}", admin(handler.DeletePlayer))
	mux.Handle("POST /v1/admin/coaches", admin(handler.CreateCoach))
	mux.Handle("DELETE /v1/admin/coaches/{coachID}", admin(handler.DeleteCoach))
	mux.Handle("POST /v1/admin/calendar", admin(handler.CreateMatch))
	mux.Handle("DELETE /v1/admin/calendar/{matchID}", admin(handler.DeleteMatch))
	mux.Handle("GET /v1/admin/market", admin(handler.GetMarketStatus))
	mux.Handle("PUT /v1/admin/market", admin(handler.SetMarket))
}

// Internal routes are called by the identity provider, not by end users.
func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/identity/events", RequireInternalToken(internalToken, http.HandlerFunc(handler.HandleIdentityEvent)))
}
