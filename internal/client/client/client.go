package client

import (
	"context"
	"net/url"
)

// Client is the authenticated transport the admin services are written
// against.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, in, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}
