// Package session owns the single authoritative authentication snapshot of
// the client and the transitions between snapshots.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/identity"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// Transition causes reported to metrics and logs.
const (
	CauseRestored    = "restored"
	CauseLogin       = "login"
	CauseLogout      = "logout"
	CauseInvalidated = "invalidated"
)

// AuthClient performs the backend sign-in call.
type AuthClient interface {
	Login(ctx context.Context, email, secret string) (*LoginResponse, error)
}

// Listener receives every published snapshot, in publication order.
type Listener func(Model)

type subscription struct {
	id uint64
	fn Listener
}

// Provider publishes Model snapshots. It is safe for concurrent use;
// listeners run synchronously on the goroutine that caused the transition.
type Provider struct {
	store   credential.Store
	auth    AuthClient
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu        sync.Mutex
	current   Model
	version   uint64
	nextSubID uint64
	listeners []subscription
}

// Option customizes a Provider.
type Option func(*Provider)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(p *Provider) {
		p.metrics = metrics
	}
}

// WithClock overrides time.Now, used for expiry logging.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProvider restores the session from the stored credential. An unreadable
// or undecodable credential leaves the session anonymous.
func NewProvider(ctx context.Context, store credential.Store, auth AuthClient, opts ...Option) *Provider {
	p := &Provider{
		store:  store,
		auth:   auth,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	stored, err := store.Get(ctx)
	if err != nil {
		p.logger.Warn("read stored credential", zap.Error(err))
		return p
	}
	if stored == "" {
		return p
	}
	id, ok := identity.Decode(stored)
	if !ok {
		p.logger.Warn("stored credential is not decodable, starting anonymous")
		return p
	}
	if id.Expired(p.now()) {
		p.logger.Info("stored credential has expired; the backend decides whether it is still accepted",
			zap.String("subject", id.Subject))
	}
	p.version++
	p.current = newModel(id, loginHints{}).withVersion(p.version)
	p.metrics.RecordSessionTransition(CauseRestored)
	return p
}

// Current returns the latest snapshot.
func (p *Provider) Current() Model {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe registers fn for future snapshots. The returned function removes
// the subscription and may be called more than once.
func (p *Provider) Subscribe(fn Listener) (unsubscribe func()) {
	p.mu.Lock()
	p.nextSubID++
	id := p.nextSubID
	p.listeners = append(p.listeners, subscription{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, sub := range p.listeners {
				if sub.id == id {
					p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Login exchanges email and secret for a credential, persists it and
// publishes the resulting snapshot. On any failure the session is unchanged.
func (p *Provider) Login(ctx context.Context, email, secret string) (Model, error) {
	resp, err := p.auth.Login(ctx, email, secret)
	if err != nil {
		return Model{}, asAuthenticationError(err)
	}
	if resp == nil {
		return Model{}, apperrors.NewAuthenticationError("MISSING_CREDENTIAL", http.StatusBadGateway,
			"sign-in response was empty")
	}

	cred := resp.CredentialValue()
	if cred == "" {
		return Model{}, apperrors.NewAuthenticationError("MISSING_CREDENTIAL", http.StatusBadGateway,
			"sign-in response carried no credential")
	}
	id, ok := identity.Decode(cred)
	if !ok {
		return Model{}, apperrors.NewAuthenticationError("MALFORMED_CREDENTIAL", http.StatusBadGateway,
			"sign-in response carried an unreadable credential")
	}

	if err := p.store.Set(ctx, cred); err != nil {
		return Model{}, apperrors.NewInternalError(err)
	}

	next := p.publish(newModel(id, resp.hints()), CauseLogin)
	p.logger.Info("signed in",
		zap.String("subject", next.Subject()),
		zap.Strings("roles", next.Roles().Strings()))
	return next, nil
}

// Logout clears the credential and publishes the anonymous snapshot. Logging
// out an anonymous session notifies nobody.
func (p *Provider) Logout(ctx context.Context) error {
	return p.signOut(ctx, CauseLogout)
}

// Invalidate is Logout caused by the backend rejecting the credential.
func (p *Provider) Invalidate(ctx context.Context) error {
	return p.signOut(ctx, CauseInvalidated)
}

func (p *Provider) signOut(ctx context.Context, cause string) error {
	clearErr := p.store.Clear(ctx)
	if clearErr != nil {
		p.logger.Error("clear stored credential", zap.Error(clearErr))
	}

	if p.Current().IsAuthenticated() {
		p.publish(Anonymous(), cause)
		p.logger.Info("signed out", zap.String("cause", cause))
	}
	return clearErr
}

func (p *Provider) publish(next Model, cause string) Model {
	p.mu.Lock()
	if cause != CauseLogin && !p.current.IsAuthenticated() {
		// lost a race against another sign-out
		current := p.current
		p.mu.Unlock()
		return current
	}
	p.version++
	next = next.withVersion(p.version)
	p.current = next
	listeners := make([]Listener, len(p.listeners))
	for i, sub := range p.listeners {
		listeners[i] = sub.fn
	}
	p.mu.Unlock()

	p.metrics.RecordSessionTransition(cause)
	for _, fn := range listeners {
		fn(next)
	}
	return next
}

func asAuthenticationError(err error) error {
	if apperrors.IsAuthentication(err) {
		return err
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.HTTPStatus >= 400 && domainErr.HTTPStatus < 500 {
		return apperrors.NewAuthenticationError(domainErr.Code, domainErr.HTTPStatus, domainErr.Message)
	}
	return err
}
