package webhook

import (
	"context"

	"github.com/pasofino/ventabot/bot/catalog"
	"github.com/pasofino/ventabot/bot/nlp"
	"github.com/pasofino/ventabot/bot/orders"
)

// fixedCatalog serves a small static stock list.
type fixedCatalog struct{ items []catalog.Item }

func catalogFixture() fixedCatalog {
	return fixedCatalog{items: []catalog.Item{
		{Brand: "Nike", Model: "Air Max", Color: "Negro", Size: "41", Price: "350000", Stock: "si"},
		{Brand: "Nike", Model: "Air Max", Color: "Blanco", Size: "42", Price: "360000", Stock: "si"},
		{Brand: "Adidas", Model: "Samba", Color: "Negro", Size: "41", Price: "300000", Stock: "si"},
	}}
}

func (f fixedCatalog) filtered(brand, model, color string) []catalog.Item {
	nb, nm, nc := nlp.Normalize(brand), nlp.Normalize(model), nlp.Normalize(color)
	var out []catalog.Item
	for _, it := range f.items {
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
	return out
}

func dedupe(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range values {
		k := nlp.Normalize(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (f fixedCatalog) Items(ctx context.Context) ([]catalog.Item, error) { return f.items, nil }

func (f fixedCatalog) Brands(ctx context.Context) ([]string, error) {
	var v []string
	for _, it := range f.filtered("", "", "") {
		v = append(v, it.Brand)
	}
	return dedupe(v), nil
}

func (f fixedCatalog) Models(ctx context.Context, brand string) ([]string, error) {
	var v []string
	for _, it := range f.filtered(brand, "", "") {
		v = append(v, it.Model)
	}
	return dedupe(v), nil
}

func (f fixedCatalog) Colors(ctx context.Context, brand, model string) ([]string, error) {
	var v []string
	for _, it := range f.filtered(brand, model, "") {
		v = append(v, it.Color)
	}
	return dedupe(v), nil
}

func (f fixedCatalog) Sizes(ctx context.Context, brand, model, color string) ([]string, error) {
	var v []string
	for _, it := range f.filtered(brand, model, color) {
		v = append(v, it.Size)
	}
	return dedupe(v), nil
}

func (f fixedCatalog) Price(ctx context.Context, brand, model, color, size string) (string, bool) {
	ns := nlp.Normalize(size)
	for _, it := range f.filtered(brand, model, color) {
		if nlp.Normalize(it.Size) == ns {
			return it.Price, true
		}
	}
	return "", false
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, sale orders.Sale) error { return nil }

type nopNotifier struct{}

func (nopNotifier) Send(ctx context.Context, to, subject, body string) error { return nil }

func (nopNotifier) SendWithAttachment(ctx context.Context, to, subject, body, filename string, data []byte) error {
	return nil
}

type nopTranscriber struct{}

func (nopTranscriber) Transcribe(ctx context.Context, audio []byte, mime string) (string, bool) {
	return "", false
}

type nopMatcher struct{}

func (nopMatcher) Match(ctx context.Context, image []byte) (string, bool) { return "", false }
