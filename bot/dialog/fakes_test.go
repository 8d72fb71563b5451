package dialog

import (
	"context"
	"errors"
	"sync"

	"github.com/pasofino/ventabot/bot/catalog"
	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/nlp"
	"github.com/pasofino/ventabot/bot/orders"
)

type sentReply struct {
	Text    string
	Options []string
}

type fakeSink struct {
	replies []sentReply
}

func (s *fakeSink) SendText(text string) {
	s.replies = append(s.replies, sentReply{Text: text})
}

func (s *fakeSink) SendOptions(text string, options []string) {
	s.replies = append(s.replies, sentReply{Text: text, Options: options})
}

func (s *fakeSink) last() sentReply {
	if len(s.replies) == 0 {
		return sentReply{}
	}
	return s.replies[len(s.replies)-1]
}

// fakeCatalog serves a fixed stock list through the same projection logic
// the feed provider uses.
type fakeCatalog struct {
	items []catalog.Item
	err   error
}

func (f *fakeCatalog) Items(ctx context.Context) ([]catalog.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCatalog) filtered(brand, model, color string) []catalog.Item {
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

func uniq(values []string) []string {
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

func (f *fakeCatalog) Brands(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var v []string
	for _, it := range f.filtered("", "", "") {
		v = append(v, it.Brand)
	}
	return uniq(v), nil
}

func (f *fakeCatalog) Models(ctx context.Context, brand string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var v []string
	for _, it := range f.filtered(brand, "", "") {
		v = append(v, it.Model)
	}
	return uniq(v), nil
}

func (f *fakeCatalog) Colors(ctx context.Context, brand, model string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var v []string
	for _, it := range f.filtered(brand, model, "") {
		v = append(v, it.Color)
	}
	return uniq(v), nil
}

func (f *fakeCatalog) Sizes(ctx context.Context, brand, model, color string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var v []string
	for _, it := range f.filtered(brand, model, color) {
		v = append(v, it.Size)
	}
	return uniq(v), nil
}

func (f *fakeCatalog) Price(ctx context.Context, brand, model, color, size string) (string, bool) {
	ns := nlp.Normalize(size)
	for _, it := range f.filtered(brand, model, color) {
		if nlp.Normalize(it.Size) == ns {
			return it.Price, true
		}
	}
	return "", false
}

type fakeRecorder struct {
	mu    sync.Mutex
	sales []orders.Sale
	err   error
}

func (r *fakeRecorder) Record(ctx context.Context, sale orders.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, sale)
	return r.err
}

type sentMail struct {
	To, Subject, Body, Filename string
	Data                        []byte
}

type fakeNotifier struct {
	mails []sentMail
	err   error
}

func (n *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.mails = append(n.mails, sentMail{To: to, Subject: subject, Body: body})
	return n.err
}

func (n *fakeNotifier) SendWithAttachment(ctx context.Context, to, subject, body, filename string, data []byte) error {
	n.mails = append(n.mails, sentMail{To: to, Subject: subject, Body: body, Filename: filename, Data: data})
	return n.err
}

type fakeTranscriber struct {
	text string
	ok   bool
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mime string) (string, bool) {
	return t.text, t.ok
}

type fakeMatcher struct {
	id string
	ok bool
}

func (m *fakeMatcher) Match(ctx context.Context, image []byte) (string, bool) {
	return m.id, m.ok
}

var errFeedDown = errors.New("feed unavailable")

func stockFixture() []catalog.Item {
	return []catalog.Item{
		{Brand: "Nike", Model: "Air Max", Color: "Negro", Size: "41", Price: "350000", Stock: "si"},
		{Brand: "Nike", Model: "Air Max", Color: "Negro", Size: "10.5", Price: "350000", Stock: "si"},
		{Brand: "Nike", Model: "Air Max", Color: "Blanco", Size: "42", Price: "360000", Stock: "si"},
		{Brand: "Nike", Model: "Pegasus", Color: "Azul", Size: "40", Price: "420000", Stock: "no"},
		{Brand: "Adidas", Model: "Samba", Color: "Negro", Size: "41", Price: "300000", Stock: "si"},
	}
}

type harness struct {
	engine   *Engine
	store    conversation.Store
	catalog  *fakeCatalog
	recorder *fakeRecorder
	notifier *fakeNotifier
	speech   *fakeTranscriber
	vision   *fakeMatcher
}

func newHarness() *harness {
	h := &harness{
		store:    conversation.NewMemoryStore(),
		catalog:  &fakeCatalog{items: stockFixture()},
		recorder: &fakeRecorder{},
		notifier: &fakeNotifier{},
		speech:   &fakeTranscriber{},
		vision:   &fakeMatcher{},
	}
	h.engine = New(h.store, h.catalog, h.recorder, h.notifier, h.speech, h.vision, Config{
		CatalogPageURL: "https://tienda.example.com/catalogo",
		TrackingURL:    "https://tienda.example.com/rastreo",
		ReturnsDesk:    "devoluciones@tienda.example.com",
		Operator:       "operador@tienda.example.com",
	})
	return h
}

func (h *harness) say(convID, text string) *fakeSink {
	sink := &fakeSink{}
	_ = h.engine.Step(context.Background(), convID, Input{Text: text}, sink)
	return sink
}

func (h *harness) sendPhoto(convID string, photo []byte) *fakeSink {
	sink := &fakeSink{}
	_ = h.engine.Step(context.Background(), convID, Input{Photo: photo}, sink)
	return sink
}

func (h *harness) state(convID string) *conversation.State {
	return h.store.Get(convID)
}
