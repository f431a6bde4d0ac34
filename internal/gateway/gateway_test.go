package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

func backend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestDoAttachesBearerAndDecodes(t *testing.T) {
	var gotAuth, gotQuery, gotContentType string
	var gotBody map[string]any
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		assert.Equal(t, "/purchases", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p-1","status":"ACTIVE"}`))
	})

	gw := gateway.New(srv.URL+"/", credential.NewMemoryStore("cred-1"))

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	err := gw.Do(context.Background(), gateway.Request{
		Method: http.MethodPost,
		Path:   "/purchases",
		Query:  url.Values{"dry_run": {"false"}},
		Body:   map[string]any{"listing_id": "l-1", "quantity": 2},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer cred-1", gotAuth)
	assert.Equal(t, "dry_run=false", gotQuery)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "l-1", gotBody["listing_id"])
	assert.Equal(t, "p-1", out.ID)
	assert.Equal(t, "ACTIVE", out.Status)
}

func TestDoWithoutCredentialSendsNoHeader(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]any{"untouched": true}
	err := gateway.New(srv.URL, credential.NewMemoryStore()).Do(context.Background(), gateway.Request{Path: "listings"}, &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"untouched": true}, out)
}

func TestAnonymousRequestSkipsCredential(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
	})
	store := credential.NewMemoryStore("still-valid")
	gw := gateway.New(srv.URL, store)
	invalidated := false
	gw.OnInvalidated(func(context.Context) { invalidated = true })

	err := gw.Do(context.Background(), gateway.Request{Method: http.MethodPost, Path: "auth/login", Anonymous: true}, nil)
	require.Error(t, err)
	assert.False(t, apperrors.IsCredentialInvalidated(err))
	assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)
	assert.False(t, invalidated)

	stored, _ := store.Get(context.Background())
	assert.Equal(t, "still-valid", stored)
}

func TestUnauthorizedWithCredentialInvalidates(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
	})
	store := credential.NewMemoryStore("stale")
	metrics := observability.NewMetrics()
	gw := gateway.New(srv.URL, store, gateway.WithMetrics(metrics))

	var order []string
	gw.OnInvalidated(func(context.Context) { order = append(order, "first") })
	gw.OnInvalidated(func(context.Context) { order = append(order, "second") })

	err := gw.Do(context.Background(), gateway.Request{Path: "favorites/my"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCredentialInvalidated(err))
	assert.Equal(t, "Token expired", apperrors.ToDomainError(err).Message)
	assert.Equal(t, []string{"first", "second"}, order)

	stored, _ := store.Get(context.Background())
	assert.Empty(t, stored)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BackendResponses().WithLabelValues("GET", "unauthorized")))
}

func TestUnauthorizedForReplacedCredentialKeepsNewerOne(t *testing.T) {
	store := credential.NewMemoryStore("stale")
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		// a sign-in completes while the stale call is in flight
		assert.NoError(t, store.Set(r.Context(), "fresh"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
	})
	gw := gateway.New(srv.URL, store)
	invalidated := 0
	gw.OnInvalidated(func(context.Context) { invalidated++ })

	err := gw.Do(context.Background(), gateway.Request{Path: "favorites/my"}, nil)
	require.Error(t, err)
	assert.False(t, apperrors.IsCredentialInvalidated(err))
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
	assert.Zero(t, invalidated)

	stored, _ := store.Get(context.Background())
	assert.Equal(t, "fresh", stored)
}

func TestUnauthorizedWithoutCredentialIsPlainRejection(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	gw := gateway.New(srv.URL, credential.NewMemoryStore())
	invalidated := false
	gw.OnInvalidated(func(context.Context) { invalidated = true })

	err := gw.Do(context.Background(), gateway.Request{Path: "favorites/my"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.False(t, apperrors.IsCredentialInvalidated(err))
	assert.False(t, invalidated)
}

func TestForbiddenKeepsCredential(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Admins only"}`))
	})
	store := credential.NewMemoryStore("buyer-cred")
	gw := gateway.New(srv.URL, store)
	invalidated := false
	gw.OnInvalidated(func(context.Context) { invalidated = true })

	err := gw.Do(context.Background(), gateway.Request{Path: "admin/reviews"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, "Admins only", apperrors.ToDomainError(err).Message)
	assert.False(t, invalidated)

	stored, _ := store.Get(context.Background())
	assert.Equal(t, "buyer-cred", stored)
}

func TestOtherFailuresCarryStatusAndDetail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		code    string
	}{
		{name: "detail string", status: http.StatusConflict, body: `{"detail":"Sin stock"}`, message: "Sin stock", code: "VALIDATION_FAILED"},
		{name: "detail list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"rating too high"},{"msg":"comment required"}]}`, message: "rating too high; comment required", code: "VALIDATION_FAILED"},
		{name: "message field", status: http.StatusNotFound, body: `{"message":"listing not found"}`, message: "listing not found", code: "NOT_FOUND"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, message: "Internal Server Error", code: "BACKEND_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := gateway.New(srv.URL, credential.NewMemoryStore("c")).Do(context.Background(), gateway.Request{Path: "x"}, nil)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
			assert.Equal(t, tt.message, domainErr.Message)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	err := gateway.New(addr, credential.NewMemoryStore()).Do(context.Background(), gateway.Request{Path: "listings"}, nil)
	require.Error(t, err)
	assert.True(t, gateway.IsUnreachable(err))
}

func TestTimeout(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	gw := gateway.New(srv.URL, credential.NewMemoryStore(), gateway.WithTimeout(50*time.Millisecond))
	err := gw.Do(context.Background(), gateway.Request{Path: "slow"}, nil)
	require.Error(t, err)
	assert.True(t, gateway.IsUnreachable(err))
}

func TestPing(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, gateway.New(srv.URL, credential.NewMemoryStore()).Ping(context.Background()))
}

func signedCredential(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "7",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestInvalidationSignsTheSessionOut(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	store := credential.NewMemoryStore(signedCredential(t, "buyer"))
	gw := gateway.New(srv.URL, store)
	provider := session.NewProvider(context.Background(), store, nil)
	gw.OnInvalidated(func(ctx context.Context) { _ = provider.Invalidate(ctx) })
	require.True(t, provider.Current().IsAuthenticated())

	err := gw.Do(context.Background(), gateway.Request{Path: "purchases/my"}, nil)
	require.Error(t, err)

	assert.False(t, provider.Current().IsAuthenticated())
	assert.True(t, provider.Current().Roles().IsEmpty())
}

func TestForbiddenLeavesTheSessionAlone(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	token := signedCredential(t, "buyer")
	store := credential.NewMemoryStore(token)
	gw := gateway.New(srv.URL, store)
	provider := session.NewProvider(context.Background(), store, nil)
	gw.OnInvalidated(func(ctx context.Context) { _ = provider.Invalidate(ctx) })
	before := provider.Current()

	err := gw.Do(context.Background(), gateway.Request{Path: "admin/reports/top-buyers"}, nil)
	require.Error(t, err)

	assert.Equal(t, before, provider.Current())
	stored, _ := store.Get(context.Background())
	assert.Equal(t, token, stored)
}
