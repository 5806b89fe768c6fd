package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// Defaults for PostsClientConfig.
const (
	DefaultResourcePath = "/posts"
	DefaultLimit        = 5
	DefaultCategory     = "Server"

	// pushUserID is the fixed author id attached to pushed posts.
	pushUserID = 1
)

// PostsClientConfig contains configuration for the posts adapter.
type PostsClientConfig struct {
	// Client is the HTTP client; its BaseURL points at the remote server.
	Client *clients.Client

	// ResourcePath is the collection path used for both fetch and push.
	ResourcePath string

	// Limit is how many leading posts become quotes. Zero or less keeps all.
	Limit int

	// Category is assigned to every fetched quote.
	Category string

	Logger *slog.Logger
}

// PostsClient implements ports.RemoteQuotes on top of a JSONPlaceholder-style
// post collection.
type PostsClient struct {
	BaseAdapter

	path     string
	limit    int
	category string
	logger   *slog.Logger
}

// NewPostsClient creates the adapter. Panics if Client is nil.
func NewPostsClient(cfg PostsClientConfig) *PostsClient {
	if cfg.Client == nil {
		panic("PostsClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.ResourcePath
	if path == "" {
		path = DefaultResourcePath
	}

	category := cfg.Category
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}

	return &PostsClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		path:        path,
		limit:       cfg.Limit,
		category:    category,
		logger:      logger,
	}
}

// post is the remote wire type.
type post struct {
	UserID int         `json:"userId,omitempty"`
	ID     json.Number `json:"id,omitempty"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
}

// FetchQuotes implements ports.RemoteQuotes.
func (c *PostsClient) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", c.path))

	body, err := c.Get(ctx, c.path, "fetch quotes")
	if err != nil {
		return nil, err
	}

	posts, err := DecodeResponse[[]post](body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	selected := *posts
	if c.limit > 0 && len(selected) > c.limit {
		selected = selected[:c.limit]
	}

	quotes, err := TranslateSlice(selected, c.toDomain)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	c.logger.DebugContext(ctx, "fetched remote quotes",
		slog.Int("received", len(*posts)),
		slog.Int("kept", len(quotes)),
	)

	return quotes, nil
}

// toDomain maps a post to a quote. Posts carry no category, so every
// fetched quote is filed under the configured one.
func (c *PostsClient) toDomain(p *post) (domain.Quote, error) {
	return domain.Quote{
		Text:     p.Title,
		Category: c.category,
		ID:       p.ID.String(),
	}, nil
}

// PushQuote implements ports.RemoteQuotes. The quote is sent exactly once.
func (c *PostsClient) PushQuote(ctx context.Context, quote domain.Quote) error {
	payload, err := json.Marshal(post{
		UserID: pushUserID,
		Title:  quote.Text,
		Body:   quote.Category,
	})
	if err != nil {
		return fmt.Errorf("encoding post: %w", err)
	}

	body, err := c.Post(ctx, c.path, payload, "push quote", clients.WithAttempts(1))
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()

	c.logger.DebugContext(ctx, "pushed quote", slog.String("category", quote.Category))

	return nil
}

// Name implements ports.HealthChecker.
func (c *PostsClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker by reading the collection once.
func (c *PostsClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, c.path, "health check", clients.WithAttempts(1))
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)

	return body.Close()
}

// Optional implements ports.OptionalChecker. The local collection keeps
// working while the remote server is down.
func (c *PostsClient) Optional() bool {
	return true
}
