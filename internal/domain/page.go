package domain

import (
	"bytes"
	"encoding/json"
)

// Page is a paginated backend answer. Some endpoints return a bare array
// instead of the envelope; both decode into a Page.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

type pageEnvelope[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Page[T]{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, Total: len(items)}
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page[T]{Items: env.Items, Total: env.Total, Page: env.Page, PageSize: env.PageSize}
	if p.Total == 0 {
		p.Total = len(p.Items)
	}
	return nil
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	if p.PageSize <= 0 || p.Page <= 0 {
		return false
	}
	return p.Page*p.PageSize < p.Total
}
