package webhook

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pasofino/ventabot/bot/conversation"
	"github.com/pasofino/ventabot/bot/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationID(t *testing.T) {
	assert.Equal(t, "573001234567", conversationID("573001234567@s.whatsapp.net"))
	assert.Equal(t, "573001234567", conversationID("+57 300 123-4567"))
	assert.Equal(t, "573001234567", conversationID("573001234567:12@c.us"))
	assert.Equal(t, "", conversationID("nobody"))
}

func newTestServer() *Server {
	store := conversation.NewMemoryStore()
	feed := catalogFixture()
	engine := dialog.New(store, feed, nopRecorder{}, nopNotifier{}, nopTranscriber{}, nopMatcher{}, dialog.Config{
		CatalogPageURL: "https://tienda.example.com/catalogo",
		TrackingURL:    "https://tienda.example.com/rastreo",
	})
	return NewServer(engine)
}

func post(t *testing.T, srv *Server, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestWebhookTextTurn(t *testing.T) {
	srv := newTestServer()

	w := post(t, srv, inbound{From: "573001234567@s.whatsapp.net", Body: "quiero unos Nike", Type: "text"})
	require.Equal(t, http.StatusOK, w.Code)

	var out outbound
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "text", out.Type)
	// welcome plus the model list in one rendered reply
	assert.Contains(t, out.Text, "Hola")
	assert.Contains(t, out.Text, "Air Max")
}

func TestWebhookStatePersistsAcrossRequests(t *testing.T) {
	srv := newTestServer()

	post(t, srv, inbound{From: "573001234567", Body: "quiero unos Nike", Type: "text"})
	w := post(t, srv, inbound{From: "573001234567", Body: "Air Max", Type: "text"})

	var out outbound
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Text, "color")
}

func TestWebhookRejectsMalformedPayloads(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, srv, inbound{From: "no-digits", Body: "hola", Type: "text"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, srv, inbound{From: "573001234567", Body: "!!!not-base64!!!", Type: "image"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookImageTurn(t *testing.T) {
	srv := newTestServer()

	// move into the photo phase first
	post(t, srv, inbound{From: "573001234567", Body: "te mando una foto", Type: "text"})

	img := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})
	w := post(t, srv, inbound{From: "573001234567", Body: img, Type: "image", Mimetype: "image/jpeg"})
	require.Equal(t, http.StatusOK, w.Code)

	var out outbound
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	// matcher is a stub, the engine resets with the no-match apology
	assert.Contains(t, out.Text, "No logré reconocer")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
