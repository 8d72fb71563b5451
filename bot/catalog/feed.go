package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/pasofino/ventabot/bot/nlp"
	"github.com/pasofino/ventabot/core/logger"
)

// FeedProvider fetches the inventory feed once and serves the cached
// snapshot for the rest of the process lifetime. Staleness is accepted;
// Refresh exists for the admin command, there is no TTL.
type FeedProvider struct {
	url    string
	client *resty.Client

	mu     sync.Mutex
	loaded bool
	items  []Item
}

// NewFeedProvider builds a Provider against the configured feed URL.
func NewFeedProvider(url string) *FeedProvider {
	client := resty.New().
		SetHeader("User-Agent", "ventabot/1.0").
		SetTimeout(15 * time.Second).
		SetRetryCount(0)
	return &FeedProvider{url: url, client: client}
}

// Items returns the cached snapshot, fetching it on first access.
func (p *FeedProvider) Items(ctx context.Context) ([]Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.items, nil
	}
	items, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.items = items
	p.loaded = true
	return items, nil
}

// Refresh discards the cached snapshot and fetches the feed again.
func (p *FeedProvider) Refresh(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items, err := p.fetch(ctx)
	if err != nil {
		return 0, err
	}
	p.items = items
	p.loaded = true
	return len(items), nil
}

func (p *FeedProvider) fetch(ctx context.Context) ([]Item, error) {
	start := time.Now()
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelError, "catalog.fetch",
			slog.String("status", "error"),
			slog.String("err", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("catalog: feed fetch: %w", err)
	}
	if !resp.IsSuccess() {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelError, "catalog.fetch",
			slog.String("status", "error"),
			slog.Int("http_status", resp.StatusCode()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("catalog: feed fetch status %d", resp.StatusCode())
	}

	var items []Item
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("catalog: feed decode: %w", err)
	}

	logger.SVCCatalog.LogAttrs(ctx, slog.LevelInfo, "catalog.fetch",
		slog.String("status", "ok"),
		slog.Int("count", len(items)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return items, nil
}

// available filters the snapshot to in-stock items matching the given
// narrowing fields; empty fields match everything.
func (p *FeedProvider) available(ctx context.Context, brand, model, color string) ([]Item, error) {
	items, err := p.Items(ctx)
	if err != nil {
		return nil, err
	}
	nb, nm, nc := nlp.Normalize(brand), nlp.Normalize(model), nlp.Normalize(color)
	var out []Item
	for _, it := range items {
		if !it.Available() {
			continue
		}
		if nb != "" && nlp.Normalize(it.Brand) != nb {
			continue
		}
		if nm != "" && nlp.Normalize(it.Model) != nm {
			continue
		}
		if nc != "" && nlp.Normalize(it.Color) != nc {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Brands lists brands with at least one in-stock item.
func (p *FeedProvider) Brands(ctx context.Context) ([]string, error) {
	items, err := p.available(ctx, "", "", "")
	if err != nil {
		return nil, err
	}
	var values []string
	for _, it := range items {
		values = append(values, it.Brand)
	}
	return uniqueInOrder(values), nil
}

// Models lists in-stock models of a brand.
func (p *FeedProvider) Models(ctx context.Context, brand string) ([]string, error) {
	items, err := p.available(ctx, brand, "", "")
	if err != nil {
		return nil, err
	}
	var values []string
	for _, it := range items {
		values = append(values, it.Model)
	}
	return uniqueInOrder(values), nil
}

// Colors lists in-stock colors of a brand and model.
func (p *FeedProvider) Colors(ctx context.Context, brand, model string) ([]string, error) {
	items, err := p.available(ctx, brand, model, "")
	if err != nil {
		return nil, err
	}
	var values []string
	for _, it := range items {
		values = append(values, it.Color)
	}
	return uniqueInOrder(values), nil
}

// Sizes lists in-stock sizes of a brand, model and color.
func (p *FeedProvider) Sizes(ctx context.Context, brand, model, color string) ([]string, error) {
	items, err := p.available(ctx, brand, model, color)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, it := range items {
		values = append(values, it.Size)
	}
	return uniqueInOrder(values), nil
}

// Price returns the price of an exact variant if it is in stock.
func (p *FeedProvider) Price(ctx context.Context, brand, model, color, size string) (string, bool) {
	items, err := p.available(ctx, brand, model, color)
	if err != nil {
		return "", false
	}
	ns := nlp.Normalize(size)
	for _, it := range items {
		if nlp.Normalize(it.Size) == ns {
			return it.Price, true
		}
	}
	return "", false
}
