package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
)

// maxErrorBody bounds how much of an error response is read for context.
const maxErrorBody = 64 << 10

// BaseAdapter provides request execution and error mapping for adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for the given client.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the name of the remote service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body (caller must close).
// Failures are returned as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path, opts...)

	return a.body(resp, err, operation)
}

// Post performs a POST request and returns the response body (caller must close).
// Failures are returned as domain errors.
func (a *BaseAdapter) Post(ctx context.Context, path string, body []byte, operation string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	resp, err := a.client.Post(ctx, path, body, opts...)

	return a.body(resp, err, operation)
}

func (a *BaseAdapter) body(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw := resp.Body
		defer func() { _ = raw.Close() }()

		resp.Body = io.NopCloser(io.LimitReader(raw, maxErrorBody))

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// Translator converts a remote DTO to a domain value.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies translate to each item, stopping at the first error.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}
