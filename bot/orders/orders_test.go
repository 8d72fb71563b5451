package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaleIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^VEN-\d+-[A-Z0-9]{4}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewSaleID()
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	// suffix randomness keeps ids distinct within one second
	assert.Greater(t, len(seen), 1)
}

func TestFeedRecorderPostsSale(t *testing.T) {
	var got Sale
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sale := Sale{
		SaleID:   "VEN-1700000000-AB12",
		Date:     time.Now(),
		Customer: "Ana",
		Phone:    "+573001234567",
		Product:  "Nike Air Max",
		Color:    "negro",
		Size:     "41",
		Email:    "ana@example.com",
		Payment:  PaymentContraEntrega,
		Status:   StatusPendiente,
	}
	err := NewFeedRecorder(srv.URL).Record(context.Background(), sale)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "VEN-1700000000-AB12", got.SaleID)
	assert.Equal(t, "Contra entrega", got.Payment)
	assert.Equal(t, "PENDIENTE", got.Status)
}

func TestFeedRecorderReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewFeedRecorder(srv.URL).Record(context.Background(), Sale{SaleID: "VEN-1-XXXX"})
	assert.Error(t, err)
}
