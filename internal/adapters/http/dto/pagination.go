package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest carries the page parameters of a list request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Offset returns the position the requested page starts at. No cursor
// means the first page.
func (p *PaginationRequest) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of an ordered collection.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor fetches the following page. Empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`

	// Total is the size of the whole collection.
	Total int `json:"total"`
}

// cursorData is the JSON body of a cursor. Quotes have no stable sort key
// other than their position, so the cursor records an offset.
type cursorData struct {
	Offset int `json:"o"`
}

// EncodeCursor encodes a collection offset as an opaque cursor.
func EncodeCursor(offset int) string {
	raw, err := json.Marshal(cursorData{Offset: offset})
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor returns the offset held by a cursor from EncodeCursor.
func DecodeCursor(encoded string) (int, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var data cursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return 0, ErrInvalidCursor
	}

	return data.Offset, nil
}

// Paginate cuts the page described by req out of items.
func Paginate[T any](items []T, req *PaginationRequest) (*PaginatedResponse[T], error) {
	offset, err := req.Offset()
	if err != nil {
		return nil, err
	}

	page := &PaginatedResponse[T]{Items: []T{}, Total: len(items)}
	if offset >= len(items) {
		return page, nil
	}

	end := min(offset+req.GetLimit(), len(items))
	page.Items = items[offset:end]

	if end < len(items) {
		page.HasMore = true
		page.NextCursor = EncodeCursor(end)
	}

	return page, nil
}

// MapPage converts the items of a page, keeping its cursor.
func MapPage[T, U any](page *PaginatedResponse[T], fn func(T) U) *PaginatedResponse[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}

	return &PaginatedResponse[U]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Total:      page.Total,
	}
}
