// Package catalog provides the read-only inventory snapshot the dialogue
// consults: a remote spreadsheet feed fetched lazily once per process, with
// filtered projections over brand, model, color and size.
package catalog

import (
	"context"

	"github.com/pasofino/ventabot/bot/nlp"
)

// Item is one stocked variant from the inventory feed.
type Item struct {
	Brand string `json:"marca"`
	Model string `json:"modelo"`
	Color string `json:"color"`
	Size  string `json:"talla"`
	Price string `json:"precio"`
	Stock string `json:"stock"`
}

// Available reports whether the item is in stock. Availability is defined
// solely by case and accent insensitive equality of the stock flag to "si".
func (i Item) Available() bool {
	return nlp.Normalize(i.Stock) == "si"
}

// Provider exposes the inventory snapshot and its projections.
type Provider interface {
	Items(ctx context.Context) ([]Item, error)
	Brands(ctx context.Context) ([]string, error)
	Models(ctx context.Context, brand string) ([]string, error)
	Colors(ctx context.Context, brand, model string) ([]string, error)
	Sizes(ctx context.Context, brand, model, color string) ([]string, error)
	Price(ctx context.Context, brand, model, color, size string) (string, bool)
}

// uniqueInOrder deduplicates by normalized form, keeping first-seen casing
// and feed order.
func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		key := nlp.Normalize(v)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
