// Package gateway is the single outbound path to the marketplace backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/credential"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

const maxResponseBytes = 4 << 20

// Request describes one backend call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Anonymous sends the call without the stored credential.
	Anonymous bool
}

// InvalidationHandler runs after the backend rejected the stored credential
// and the gateway cleared it from the store.
type InvalidationHandler func(ctx context.Context)

// Gateway attaches the stored credential to backend calls and reacts to
// unauthorized answers. It keeps no state besides its handlers.
type Gateway struct {
	baseURL string
	client  *http.Client
	store   credential.Store
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics

	mu       sync.RWMutex
	handlers []InvalidationHandler
}

// Option customizes a Gateway.
type Option func(*Gateway)

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithTimeout bounds every call; zero leaves the caller's context alone.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = timeout
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// New creates a Gateway for baseURL reading credentials from store.
func New(baseURL string, store credential.Store, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		store:   store,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnInvalidated registers h; handlers run in registration order.
func (g *Gateway) OnInvalidated(h InvalidationHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers = append(g.handlers, h)
}

// BaseURL returns the backend root the gateway targets.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do sends req and decodes a JSON answer into out when out is non-nil and
// the answer has a body.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	bearer := ""
	if !req.Anonymous {
		stored, err := g.store.Get(ctx)
		if err != nil {
			g.logger.Warn("read credential for backend call", zap.Error(err))
		}
		bearer = stored
	}

	httpReq, err := g.newRequest(ctx, method, req, bearer)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.metrics.RecordBackendCall(method, 0, time.Since(start))
		g.logger.Warn("backend unreachable", zap.String("method", method), zap.String("path", req.Path), zap.Error(err))
		return &apperrors.DomainError{
			Code:       "BACKEND_UNREACHABLE",
			Message:    "the marketplace service could not be reached",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	g.metrics.RecordBackendCall(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("read backend response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return g.failure(ctx, resp.StatusCode, body, bearer)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("decode %s %s response: %w", method, req.Path, err))
	}
	return nil
}

// Ping checks that the backend answers at all; any HTTP status counts.
func (g *Gateway) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.Body.Close()
}

func (g *Gateway) newRequest(ctx context.Context, method string, req Request, bearer string) (*http.Request, error) {
	target := g.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var payload io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}
	return httpReq, nil
}

func (g *Gateway) failure(ctx context.Context, status int, body []byte, bearer string) error {
	detail := detailOf(body)

	switch {
	case status == http.StatusUnauthorized && bearer != "":
		if !g.invalidate(ctx, bearer) {
			if detail == "" {
				detail = "the request was rejected, please try again"
			}
			return apperrors.NewUnauthorized(detail)
		}
		if detail == "" {
			detail = "your session is no longer valid, please sign in again"
		}
		return apperrors.NewCredentialInvalidated(detail)
	case status == http.StatusUnauthorized:
		if detail == "" {
			detail = "sign in required"
		}
		return apperrors.NewUnauthorized(detail)
	case status == http.StatusForbidden:
		if detail == "" {
			detail = "you do not have access to this resource"
		}
		return apperrors.NewForbidden(detail)
	default:
		return apperrors.NewBackendError(status, detail)
	}
}

// invalidate clears bearer from the store and notifies the handlers. When a
// newer sign-in already replaced bearer, nothing is cleared and it reports
// false.
func (g *Gateway) invalidate(ctx context.Context, bearer string) bool {
	cleared, err := g.store.ClearIf(ctx, bearer)
	if err != nil {
		// the session still has to be dropped even if the store is unavailable
		g.logger.Error("clear invalidated credential", zap.Error(err))
		cleared = true
	}
	if !cleared {
		g.logger.Info("backend rejected a credential that was already replaced")
		return false
	}
	g.logger.Info("backend rejected the stored credential")

	g.mu.RLock()
	handlers := make([]InvalidationHandler, len(g.handlers))
	copy(handlers, g.handlers)
	g.mu.RUnlock()

	// handlers must run even when the caller's context was cancelled
	hctx := context.WithoutCancel(ctx)
	for _, h := range handlers {
		h(hctx)
	}
	return true
}

// detailOf extracts the human readable message of an error body. It accepts
// {"detail": "..."}, {"detail": [{"msg": "..."}]} and {"message": "..."}.
func detailOf(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil && text != "" {
			return text
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// IsUnreachable reports whether err came from a transport failure.
func IsUnreachable(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "BACKEND_UNREACHABLE"
}
