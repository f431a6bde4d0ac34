package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// Backend is the gateway surface repositories rely on.
type Backend interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// PageQuery is the 1-based pagination every list endpoint accepts.
type PageQuery struct {
	Page     int
	PageSize int
}

func (p PageQuery) apply(q url.Values, defaultSize int) {
	page, size := p.Page, p.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
}

// DateRange filters by day, formatted YYYY-MM-DD.
type DateRange struct {
	From string
	To   string
}

func (d DateRange) apply(q url.Values) {
	setIf(q, "date_from", d.From)
	setIf(q, "date_to", d.To)
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setIntIf(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func pathID(id string) string {
	return url.PathEscape(id)
}
