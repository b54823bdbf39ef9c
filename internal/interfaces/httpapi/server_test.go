package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/memory"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/id"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

const (
	testAdminToken    = "admin-token"
	testUserToken     = "user-token"
	testInternalToken = "internal-secret"
)

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type routerFixture struct {
	store  *memory.Store
	router http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	ctx := t.Context()
	store := memory.NewStore()
	logger := logging.NewNop()
	rules := fantasy.DefaultRules()

	n := 0
	for _, pos := range player.OrderedPositions {
		for i := 0; i < rules.QuotaByPosition[pos]+1; i++ {
			n++
			item := player.Player{
				ID:           fmt.Sprintf("p%02d", n),
				Name:         fmt.Sprintf("Player %02d", n),
				Position:     pos,
				Division:     "Primera",
				BasePrice:    50,
				CurrentPrice: 50,
			}
			if err := store.Players().Create(ctx, item); err != nil {
				t.Fatalf("seed player: %v", err)
			}
		}
	}
	if err := store.Market().SaveConfig(ctx, market.Config{MarketOpen: true}); err != nil {
		t.Fatalf("seed market config: %v", err)
	}

	window := market.NewFlagWindow(store.Market())
	invalidator := noopInvalidator{}
	accounts := usecase.NewAccountService(store, store.Users(), usecase.AccountConfig{
		StartingBalance: 1250,
		AdminUserIDs:    []string{"admin-1"},
	}, logger)

	handler := NewHandler(
		usecase.NewRosterService(
			store,
			store.Players(),
			store.Coaches(),
			store.Teams(),
			store.Users(),
			store.WeeklyStats(),
			window,
			rules,
			usecase.RosterConfig{RequireOpenWindow: true, StartingBalance: 1250},
			id.NewUUIDGenerator("team"),
			logger,
		),
		usecase.NewMarketService(store, window, rules, usecase.MarketConfig{EnforceQuota: true}, logger),
		usecase.NewScoringService(store, invalidator, usecase.ScoringConfig{PriceModel: "performance", Workers: 2}, logger),
		usecase.NewCatalogService(store, store.Players(), store.Coaches(), invalidator, id.NewUUIDGenerator("cat"), logger),
		usecase.NewTransferWindowService(market.ModeFlag, window, store.Market(), logger),
		usecase.NewRankingService(store.Teams(), store.Players()),
		accounts,
		usecase.NewOnboardingService(store.Onboarding()),
		usecase.NewCalendarService(store.Matches(), id.NewUUIDGenerator("match"), logger),
		logger,
	)

	verifier := staticVerifier{
		testAdminToken: {UserID: "admin-1", Email: "admin@dbr.test"},
		testUserToken:  {UserID: "user-1", Email: "user@dbr.test"},
	}

	return &routerFixture{
		store:  store,
		router: NewRouter(handler, verifier, accounts, logger, []string{"*"}, testInternalToken),
	}
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateCatalog(context.Context) {}

func (f *routerFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return out
}

func squadPayload() string {
	rules := fantasy.DefaultRules()
	ids := make([]string, 0, rules.SquadSize)
	n := 0
	for _, pos := range player.OrderedPositions {
		quota := rules.QuotaByPosition[pos]
		for i := 0; i < quota+1; i++ {
			n++
			if i < quota {
				ids = append(ids, fmt.Sprintf(`"p%02d"`, n))
			}
		}
	}
	return `{"name":"Los Pumitas","player_ids":[` + strings.Join(ids, ",") + `]}`
}

// spareID returns the first player left out of squadPayload for the given position.
func spareID(pos player.Position) string {
	rules := fantasy.DefaultRules()
	n := 0
	for _, p := range player.OrderedPositions {
		n += rules.QuotaByPosition[p] + 1
		if p == pos {
			return fmt.Sprintf("p%02d", n)
		}
	}
	return ""
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_AuthAndRoleGuards(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{name: "team route without token", method: http.MethodGet, path: "/v1/team/me", wantStatus: http.StatusUnauthorized},
		{name: "team route with unknown token", method: http.MethodGet, path: "/v1/team/me", token: "nope", wantStatus: http.StatusUnauthorized},
		{name: "admin route for regular user", method: http.MethodPost, path: "/v1/admin/coaches", token: testUserToken, body: `{"name":"Mario Ledesma"}`, wantStatus: http.StatusForbidden},
		{name: "admin route for admin", method: http.MethodPost, path: "/v1/admin/coaches", token: testAdminToken, body: `{"name":"Mario Ledesma"}`, wantStatus: http.StatusCreated},
		{name: "public catalog", method: http.MethodGet, path: "/v1/players?position=Wing", wantStatus: http.StatusOK},
		{name: "unknown position filter", method: http.MethodGet, path: "/v1/players?position=Quarterback", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t)

			rec := f.do(t, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_CreateTeamAndTrade(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/team", testUserToken, squadPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope[createTeamResponse](t, rec)
	if created.Data.TotalCost != 750 || created.Data.Balance != 500 {
		t.Fatalf("unexpected create result: %+v", created.Data)
	}

	rec = f.do(t, http.MethodPost, "/v1/team", testUserToken, squadPayload())
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create: expected 409, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/v1/team/me", testUserToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get team: expected 200, got %d", rec.Code)
	}
	view := decodeEnvelope[teamDTO](t, rec)
	if len(view.Data.Slots) != 15 || view.Data.Balance != 500 {
		t.Fatalf("unexpected team view: slots=%d balance=%d", len(view.Data.Slots), view.Data.Balance)
	}

	rec = f.do(t, http.MethodPost, "/v1/team/sell", testUserToken, `{"player_id":"p01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sell: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	sold := decodeEnvelope[sellResponse](t, rec)
	if sold.Data.RefundAmount != 50 || sold.Data.NewBalance != 550 {
		t.Fatalf("unexpected sell result: %+v", sold.Data)
	}

	rec = f.do(t, http.MethodPost, "/v1/team/sell", testUserToken, `{"player_id":"p01"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second sell: expected 409, got %d", rec.Code)
	}

	buyBody := `{"player_id":"` + spareID(player.OrderedPositions[0]) + `"}`
	rec = f.do(t, http.MethodPost, "/v1/team/buy", testUserToken, buyBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	bought := decodeEnvelope[buyResponse](t, rec)
	if bought.Data.NewBalance != 500 {
		t.Fatalf("expected balance 500 after buy, got %d", bought.Data.NewBalance)
	}
}

func TestRouter_ClosedMarketRejectsTrades(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(t, http.MethodPost, "/v1/team", testUserToken, squadPayload()); rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", rec.Code)
	}

	rec := f.do(t, http.MethodPut, "/v1/admin/market", testAdminToken, `{"open":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("close market: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/v1/market/status", "", "")
	status := decodeEnvelope[marketStatusDTO](t, rec)
	if status.Data.Open || status.Data.Mode != string(market.ModeFlag) {
		t.Fatalf("unexpected market status: %+v", status.Data)
	}

	rec = f.do(t, http.MethodPost, "/v1/team/sell", testUserToken, `{"player_id":"p01"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("sell while closed: expected 409, got %d", rec.Code)
	}
	body := decodeEnvelope[struct{}](t, rec)
	if body.Error == nil || len(body.Error.Errors) == 0 || body.Error.Errors[0].Reason != "transferWindowClosed" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/team/buy", testUserToken, `{"player_id":"p01","price":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_IdentityEvents(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"type":"user.created","data":{"id":"user-9"}}`

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/identity/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/identity/events", strings.NewReader(body))
	req.Header.Set(internalTokenHeader, testInternalToken)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	created, exists, err := f.store.Users().GetByID(t.Context(), "user-9")
	if err != nil || !exists {
		t.Fatalf("expected user-9 to exist, exists=%v err=%v", exists, err)
	}
	if created.Balance != 1250 {
		t.Fatalf("expected starting balance 1250, got %d", created.Balance)
	}
}

func TestRouter_OnboardingRoundTrip(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPut, "/v1/onboarding", testUserToken, `{"onboarding_completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put onboarding: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/v1/onboarding", testUserToken, "")
	got := decodeEnvelope[onboardingDTO](t, rec)
	if !got.Data.OnboardingCompleted || got.Data.UserID != "user-1" {
		t.Fatalf("unexpected onboarding profile: %+v", got.Data)
	}
}

func TestRouter_BulkCreatePlayers(t *testing.T) {
	f := newRouterFixture(t)

	body := `{"players":[
		{"name":"Tomás Albornoz","position":"apertura","division":"Primera","price":80},
		{"name":"Nobody","position":"Quarterback","price":50}
	]}`
	rec := f.do(t, http.MethodPost, "/v1/admin/players/bulk", testAdminToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk create: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	got := decodeEnvelope[bulkCreatePlayersResponse](t, rec)
	if got.Data.Processed != 1 || len(got.Data.Players) != 1 || len(got.Data.Errors) != 1 {
		t.Fatalf("unexpected bulk result: %+v", got.Data)
	}
	if got.Data.Players[0].Position != string(player.PositionApertura) {
		t.Fatalf("expected alias to resolve to %s, got %s", player.PositionApertura, got.Data.Players[0].Position)
	}

	rec = f.do(t, http.MethodPost, "/v1/admin/players/bulk", testUserToken, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bulk create as user: expected 403, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/v1/admin/players/bulk", testAdminToken, `{"players":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty bulk: expected 400, got %d", rec.Code)
	}
}

func TestRouter_CalendarLifecycle(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/admin/calendar", testAdminToken,
		`{"round":"Fecha 3","home_team":"Duendes","away_team":"Jockey Club","stadium":"Cancha Duendes","date":"2026-04-18T15:30:00-03:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create match: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope[matchDTO](t, rec)
	if created.Data.ID == "" || created.Data.Round != "Fecha 3" {
		t.Fatalf("unexpected match: %+v", created.Data)
	}

	rec = f.do(t, http.MethodPost, "/v1/admin/calendar", testAdminToken,
		`{"round":"Fecha 3","home_team":"A","away_team":"B","stadium":"S","date":"sábado"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/v1/admin/calendar", testAdminToken, `{"round":"Fecha 3","home_team":"A"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/v1/admin/calendar", testUserToken,
		`{"round":"Fecha 3","home_team":"A","away_team":"B","stadium":"S","date":"2026-04-18T15:30:00Z"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create as user: expected 403, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/v1/calendar", "", "")
	listed := decodeEnvelope[[]matchDTO](t, rec)
	if rec.Code != http.StatusOK || len(listed.Data) != 1 || listed.Data[0].ID != created.Data.ID {
		t.Fatalf("unexpected calendar: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodDelete, "/v1/admin/calendar/"+created.Data.ID, testAdminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete match: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodDelete, "/v1/admin/calendar/"+created.Data.ID, testAdminToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}
