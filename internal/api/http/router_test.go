package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/car-marketplace-client/internal/api/http"
	"github.com/spec-kit/car-marketplace-client/internal/api/http/handlers"
	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	"github.com/spec-kit/car-marketplace-client/internal/theme"
)

// backend is a scripted marketplace API.
type backend struct {
	// tokens maps an account email to the credential issued on sign-in.
	tokens map[string]string

	mu    sync.Mutex
	calls map[string]int

	// revoked makes every authenticated call answer 401.
	revoked bool
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	key := r.Method + " " + r.URL.Path
	b.calls[key]++
	revoked := b.revoked
	b.mu.Unlock()

	reply := func(status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	if revoked && r.Header.Get("Authorization") != "" {
		reply(http.StatusUnauthorized, `{"detail":"Token expired"}`)
		return
	}

	switch key {
	case "POST /auth/login":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		token, ok := b.tokens[creds["email"]]
		if !ok || creds["password"] != "pw" {
			reply(http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
			return
		}
		reply(http.StatusOK, `{"access_token":"`+token+`"}`)
	case "GET /listings":
		reply(http.StatusOK, `{"items":[{"id":1,"brand":"Fiat","model":"Panda","current_price_amount":9500,"current_price_currency":"EUR","stock":2}],"total":1,"page":1,"page_size":20}`)
	case "GET /listings/1":
		reply(http.StatusOK, `{"id":1,"brand":"Fiat","model":"Panda","current_price_amount":9500,"current_price_currency":"EUR","stock":2}`)
	case "GET /reviews/by-listing/1":
		reply(http.StatusOK, `[{"id":3,"listing_id":1,"rating":4,"comment":"Solid little car"}]`)
	case "GET /favorites/my":
		reply(http.StatusOK, `[{"id":9,"listing_id":1,"brand":"Fiat","model":"Panda"}]`)
	case "POST /favorites/1":
		reply(http.StatusCreated, `{}`)
	case "GET /purchases/my":
		reply(http.StatusOK, `[]`)
	case "GET /agencies/my-listings":
		reply(http.StatusOK, `{"items":[{"id":1,"brand":"Fiat","model":"Panda","current_price_amount":9500,"current_price_currency":"EUR","stock":2,"status":"ACTIVE"}],"total":1,"page":1,"page_size":20}`)
	case "GET /inventory":
		reply(http.StatusOK, `{"items":[{"id":5,"brand":"Fiat","model":"Panda","quantity":4}],"total":1,"page":1,"page_size":100}`)
	case "POST /listings/1/cancel":
		reply(http.StatusOK, `{}`)
	case "POST /listings/2/cancel":
		reply(http.StatusConflict, `{"detail":"Listing already cancelled"}`)
	case "GET /admin/purchases":
		reply(http.StatusOK, `{"items":[{"id":12,"listing_id":1,"buyer_email":"buyer@example.com","agency_name":"Autos Sur","brand":"Fiat","model":"Panda","quantity":1,"unit_price_amount":9500,"unit_price_currency":"EUR","total_amount":9500,"status":"COMPLETED"}],"total":1,"page":1,"page_size":20}`)
	default:
		reply(http.StatusNotFound, `{"detail":"Not found"}`)
	}
}

type harness struct {
	app      *fiber.App
	backend  *backend
	provider *session.Provider
	store    *credential.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	be := &backend{tokens: map[string]string{}, calls: map[string]int{}}
	for email, role := range map[string]string{
		"buyer@example.com":  "buyer",
		"agency@example.com": "agency",
		"admin@example.com":  "admin",
	} {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   email,
			"roles": []string{role},
		}).SignedString([]byte("test-key"))
		require.NoError(t, err)
		be.tokens[email] = token
	}
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	metrics := observability.NewMetrics()
	store := credential.NewMemoryStore()
	gw := gateway.New(srv.URL, store, gateway.WithMetrics(metrics))
	authRepo := repository.NewAuthRepository(gw)
	provider := session.NewProvider(ctx, store, authRepo, session.WithMetrics(metrics))
	gw.OnInvalidated(func(ctx context.Context) { _ = provider.Invalidate(ctx) })

	dispatcher := events.NewInMemoryDispatcher(events.WithMetrics(metrics))
	reviewRepo := repository.NewReviewRepository(gw)
	listingRepo := repository.NewListingRepository(gw)
	agencyRepo := repository.NewAgencyRepository(gw)
	catalog := service.NewCatalogService(listingRepo, reviewRepo)
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(gw), dispatcher)
	reviews := service.NewReviewService(reviewRepo, dispatcher)
	purchases := service.NewPurchaseService(repository.NewPurchaseRepository(gw))
	reports := service.NewReportService(repository.NewReportRepository(gw))
	agency := service.NewAgencyService(listingRepo, repository.NewInventoryRepository(gw), agencyRepo)
	admin := service.NewAdminService(repository.NewAdminRepository(gw), agencyRepo)

	modes := theme.NewSwitch(theme.ModeLight)
	views := handlers.NewViews("marketplace", modes)
	app := fiber.New(fiber.Config{Views: handlers.NewViewEngine()})
	table := guard.NewTable()
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Views:   views,
		Table:   table,
		Session: provider,
		Metrics: metrics,
	})

	favoritesHandler := handlers.NewFavoritesHandler(views, favorites, provider, dispatcher)
	reviewsHandler := handlers.NewReviewsHandler(views, reviews, provider, dispatcher)
	purchasesHandler := handlers.NewPurchasesHandler(views, purchases, provider)
	t.Cleanup(func() {
		favoritesHandler.Close()
		reviewsHandler.Close()
		purchasesHandler.Close()
	})

	httptransport.RegisterRoutes(app, table, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler("marketplace", "test", map[string]handlers.Pinger{"backend": gw}),
		Auth:      handlers.NewAuthHandler(views, provider, authRepo, nil),
		Pages:     handlers.NewPagesHandler(views, nil, modes),
		Listings:  handlers.NewListingsHandler(views, catalog, nil),
		Favorites: favoritesHandler,
		Reviews:   reviewsHandler,
		Purchases: purchasesHandler,
		Agency:    handlers.NewAgencyHandler(views, agency),
		Admin:     handlers.NewAdminHandler(views, reports, favorites, reviews, admin),
		Metrics:   metrics,
	})

	return &harness{app: app, backend: be, provider: provider, store: store}
}

func (h *harness) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	return h.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(t, req)
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	h.signInAs(t, "buyer@example.com")
}

func (h *harness) signInAs(t *testing.T, email string) {
	t.Helper()
	_, err := h.provider.Login(context.Background(), email, "pw")
	require.NoError(t, err)
}

func TestPublicViewsRenderForAnonymousVisitors(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Sign in")

	resp, body = h.get(t, "/listings?brand=Fiat")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Panda")

	resp, body = h.get(t, "/listings/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Solid little car")
}

func TestProtectedViewRedirectsToSignIn(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.get(t, "/my-favorites")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fmy-favorites", resp.Header.Get("Location"))
	assert.Zero(t, h.backend.count("GET /favorites/my"))
}

func TestAnonymousFormPostReturnsToSubmittingPage(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/favorites/1", nil)
	req.Header.Set("Referer", "http://example.com/listings/1")
	resp, _ := h.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Flistings%2F1", resp.Header.Get("Location"))
	assert.Zero(t, h.backend.count("POST /favorites/1"))

	resp, _ = h.post(t, "/login", url.Values{
		"email":    {"buyer@example.com"},
		"password": {"pw"},
		"from":     {"/listings/1"},
	})
	assert.Equal(t, "/listings/1", resp.Header.Get("Location"))
}

func TestAgencyListingsRenderWithInventory(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, "agency@example.com")

	resp, body := h.get(t, "/agency/listings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Panda")
	assert.Equal(t, 1, h.backend.count("GET /agencies/my-listings"))
	assert.Equal(t, 1, h.backend.count("GET /inventory"))
}

func TestAgencyPausesListing(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, "agency@example.com")

	req := httptest.NewRequest(http.MethodPost, "/agency/listings/1/cancel", nil)
	req.Header.Set("Referer", "http://example.com/agency/listings/1")
	resp, _ := h.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/agency/listings/1", resp.Header.Get("Location"))
	assert.Equal(t, 1, h.backend.count("POST /listings/1/cancel"))

	resp, _ = h.post(t, "/agency/listings/2/cancel", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, handlers.AgencyListingsPath, resp.Header.Get("Location"))
	assert.Equal(t, 1, h.backend.count("POST /listings/2/cancel"))
}

func TestAgencyViewsRejectBuyers(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	resp, _ := h.post(t, "/agency/listings/1/cancel", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.ForbiddenPath, resp.Header.Get("Location"))
	assert.Zero(t, h.backend.count("POST /listings/1/cancel"))
}

func TestAdminPurchasesRender(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, "admin@example.com")

	resp, body := h.get(t, "/admin/purchases?status=COMPLETED")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "buyer@example.com")
	assert.Contains(t, body, "Autos Sur")
	assert.Equal(t, 1, h.backend.count("GET /admin/purchases"))

	resp, _ = h.get(t, "/admin/purchases?status=PENDING")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 1, h.backend.count("GET /admin/purchases"))
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/admin/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestMissingListingRendersNotFound(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.get(t, "/listings/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSignInReturnsToRequestedView(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.post(t, "/login", url.Values{
		"email":    {"buyer@example.com"},
		"password": {"pw"},
		"from":     {"/my-favorites"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/my-favorites", resp.Header.Get("Location"))
	assert.True(t, h.provider.Current().HasRole("buyer"))
}

func TestSignInIgnoresForeignReturnTarget(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.post(t, "/login", url.Values{
		"email":    {"buyer@example.com"},
		"password": {"pw"},
		"from":     {"https://evil.example/steal"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestSignInRejectedShowsBackendDetail(t *testing.T) {
	h := newHarness(t)

	resp, body := h.post(t, "/login", url.Values{"email": {"buyer@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.False(t, h.provider.Current().IsAuthenticated())
}

func TestSignInFormValidation(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.post(t, "/login", url.Values{"email": {"not-an-email"}, "password": {"pw"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, h.backend.count("POST /auth/login"))
}

func TestWrongRoleRedirectsToForbidden(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	resp, _ := h.get(t, "/admin/reports")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.ForbiddenPath, resp.Header.Get("Location"))

	resp, body := h.get(t, guard.ForbiddenPath)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Access denied")
}

func TestFavoritesViewReloadsAfterFavoriteChanged(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	resp, body := h.get(t, "/my-favorites")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Panda")
	h.get(t, "/my-favorites")
	assert.Equal(t, 1, h.backend.count("GET /favorites/my"))

	req := httptest.NewRequest(http.MethodPost, "/favorites/1", nil)
	req.Header.Set("Referer", "http://example.com/listings/1")
	resp, _ = h.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/listings/1", resp.Header.Get("Location"))

	h.get(t, "/my-favorites")
	assert.Equal(t, 2, h.backend.count("GET /favorites/my"))
}

func TestFavoritesCacheDroppedOnLogout(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.get(t, "/my-favorites")

	resp, _ := h.post(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.SignInPath, resp.Header.Get("Location"))
	assert.False(t, h.provider.Current().IsAuthenticated())

	h.signIn(t)
	h.get(t, "/my-favorites")
	assert.Equal(t, 2, h.backend.count("GET /favorites/my"))
}

func TestInvalidatedCredentialRedirectsToSignIn(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.mu.Lock()
	h.backend.revoked = true
	h.backend.mu.Unlock()

	resp, _ := h.get(t, "/my-purchases")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fmy-purchases", resp.Header.Get("Location"))
	assert.False(t, h.provider.Current().IsAuthenticated())

	stored, err := h.store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestThemeToggleReturnsToLocalReferer(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.Header.Set("Referer", "http://example.com/about")
	resp, _ := h.do(t, req)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/about", resp.Header.Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.Header.Set("Referer", "https://elsewhere.example/phish")
	resp, _ = h.do(t, req)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := h.get(t, "/about")
	assert.Contains(t, body, `data-mode="light"`)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alive")

	resp, body = h.get(t, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ready")

	h.get(t, "/")
	resp, body = h.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "marketplace_client_guard_decisions_total")
}
