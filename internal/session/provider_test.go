package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

type fakeAuth struct {
	resp  *session.LoginResponse
	err   error
	calls int
}

func (f *fakeAuth) Login(context.Context, string, string) (*session.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

func TestNewProviderWithoutCredentialIsAnonymous(t *testing.T) {
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(), &fakeAuth{})

	current := p.Current()
	assert.False(t, current.IsAuthenticated())
	assert.True(t, current.Roles().IsEmpty())
	assert.Equal(t, uint64(0), current.Version())
}

func TestNewProviderRestoresExpiredCredential(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"sub":   "42",
		"roles": []string{"buyer"},
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(token), &fakeAuth{})

	current := p.Current()
	require.True(t, current.IsAuthenticated())
	assert.Equal(t, "42", current.Subject())
	assert.True(t, current.HasRole("BUYER"))
	assert.True(t, current.Expired(time.Now()))
}

func TestNewProviderIgnoresGarbageCredential(t *testing.T) {
	store := credential.NewMemoryStore("not-a-credential")
	p := session.NewProvider(context.Background(), store, &fakeAuth{})

	assert.False(t, p.Current().IsAuthenticated())
}

func TestLoginMergesRoleHints(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "7", "roles": []string{"buyer"}})
	var resp session.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"`+token+`","role":"Agency","agency_id":12}`), &resp))

	store := credential.NewMemoryStore()
	metrics := observability.NewMetrics()
	p := session.NewProvider(context.Background(), store, &fakeAuth{resp: &resp}, session.WithMetrics(metrics))

	var seen []session.Model
	unsubscribe := p.Subscribe(func(m session.Model) { seen = append(seen, m) })
	defer unsubscribe()

	model, err := p.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	assert.Equal(t, "7", model.Subject())
	assert.Equal(t, []string{"agency", "buyer"}, model.Roles().Strings())
	assert.Equal(t, "12", model.AgencyID())
	assert.Equal(t, "buyer", string(model.PrimaryRole()))

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	require.Len(t, seen, 1)
	assert.Equal(t, model, seen[0])
	assert.Equal(t, model, p.Current())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SessionTransitions().WithLabelValues(session.CauseLogin)))
}

func TestLoginWithoutRolesGrantsGuest(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "9"})
	auth := &fakeAuth{resp: &session.LoginResponse{Token: token}}
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(), auth)

	model, err := p.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, []string{"guest"}, model.Roles().Strings())
}

func TestLoginRejectedLeavesSessionUnchanged(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "1", "roles": []string{"admin"}})
	store := credential.NewMemoryStore(token)
	auth := &fakeAuth{err: apperrors.NewBackendError(http.StatusUnauthorized, "Invalid credentials")}
	p := session.NewProvider(context.Background(), store, auth)
	before := p.Current()

	notified := false
	p.Subscribe(func(session.Model) { notified = true })

	_, err := p.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	assert.Equal(t, "Invalid credentials", domainErr.Message)

	assert.Equal(t, before, p.Current())
	assert.False(t, notified)
	stored, _ := store.Get(context.Background())
	assert.Equal(t, token, stored)
}

func TestLoginTransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.New("connection refused")
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(), &fakeAuth{err: transportErr})

	_, err := p.Login(context.Background(), "a@b.c", "secret")
	assert.ErrorIs(t, err, transportErr)
	assert.False(t, apperrors.IsAuthentication(err))
}

func TestLoginMalformedCredential(t *testing.T) {
	tests := []struct {
		name string
		resp *session.LoginResponse
		code string
	}{
		{name: "missing", resp: &session.LoginResponse{}, code: "MISSING_CREDENTIAL"},
		{name: "empty body", resp: nil, code: "MISSING_CREDENTIAL"},
		{name: "garbage", resp: &session.LoginResponse{AccessToken: "garbage"}, code: "MALFORMED_CREDENTIAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := credential.NewMemoryStore()
			p := session.NewProvider(context.Background(), store, &fakeAuth{resp: tt.resp})

			_, err := p.Login(context.Background(), "a@b.c", "secret")
			require.Error(t, err)
			assert.True(t, apperrors.IsAuthentication(err))
			assert.Equal(t, tt.code, apperrors.ToDomainError(err).Code)

			stored, _ := store.Get(context.Background())
			assert.Empty(t, stored)
			assert.False(t, p.Current().IsAuthenticated())
		})
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "5", "roles": "buyer"})
	store := credential.NewMemoryStore(token)
	p := session.NewProvider(context.Background(), store, &fakeAuth{})

	notifications := 0
	p.Subscribe(func(m session.Model) {
		notifications++
		assert.False(t, m.IsAuthenticated())
	})

	require.NoError(t, p.Logout(context.Background()))
	require.NoError(t, p.Logout(context.Background()))

	assert.Equal(t, 1, notifications)
	assert.False(t, p.Current().IsAuthenticated())
	stored, _ := store.Get(context.Background())
	assert.Empty(t, stored)
}

func TestInvalidateCountsCause(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "5", "roles": "buyer"})
	metrics := observability.NewMetrics()
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(token), &fakeAuth{}, session.WithMetrics(metrics))

	require.NoError(t, p.Invalidate(context.Background()))

	assert.False(t, p.Current().IsAuthenticated())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SessionTransitions().WithLabelValues(session.CauseInvalidated)))
}

func TestSubscribersRunInOrderAndUnsubscribe(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "3", "roles": []string{"admin"}})
	auth := &fakeAuth{resp: &session.LoginResponse{AccessToken: token}}
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(), auth)

	var order []string
	unsubscribeA := p.Subscribe(func(session.Model) { order = append(order, "a") })
	p.Subscribe(func(session.Model) { order = append(order, "b") })

	_, err := p.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	unsubscribeA()
	unsubscribeA()
	require.NoError(t, p.Logout(context.Background()))

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestVersionsIncrease(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "3", "roles": []string{"admin"}})
	auth := &fakeAuth{resp: &session.LoginResponse{AccessToken: token}}
	p := session.NewProvider(context.Background(), credential.NewMemoryStore(), auth)

	first, err := p.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	require.NoError(t, p.Logout(context.Background()))
	second := p.Current()
	third, err := p.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	assert.Less(t, first.Version(), second.Version())
	assert.Less(t, second.Version(), third.Version())
}
