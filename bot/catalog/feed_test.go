package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedItems = []Item{
	{Brand: "Nike", Model: "Air Max", Color: "Negro", Size: "41", Price: "350000", Stock: "si"},
	{Brand: "Nike", Model: "Air Max", Color: "Negro", Size: "42", Price: "350000", Stock: "SÍ"},
	{Brand: "Nike", Model: "Air Max", Color: "Blanco", Size: "41", Price: "360000", Stock: "si"},
	{Brand: "Nike", Model: "Pegasus", Color: "Azul", Size: "40", Price: "420000", Stock: "no"},
	{Brand: "Adidas", Model: "Samba", Color: "Negro", Size: "41", Price: "300000", Stock: "si"},
}

func feedServer(t *testing.T, fetches *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			*fetches++
		}
		require.NoError(t, json.NewEncoder(w).Encode(feedItems))
	}))
}

func TestAvailabilityRule(t *testing.T) {
	assert.True(t, Item{Stock: "si"}.Available())
	assert.True(t, Item{Stock: "SÍ"}.Available())
	assert.True(t, Item{Stock: " Si "}.Available())
	assert.False(t, Item{Stock: "no"}.Available())
	assert.False(t, Item{Stock: ""}.Available())
}

func TestFeedFetchedOnceAndCached(t *testing.T) {
	fetches := 0
	srv := feedServer(t, &fetches)
	defer srv.Close()

	p := NewFeedProvider(srv.URL)
	ctx := context.Background()

	_, err := p.Items(ctx)
	require.NoError(t, err)
	_, err = p.Items(ctx)
	require.NoError(t, err)
	_, err = p.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)

	n, err := p.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(feedItems), n)
	assert.Equal(t, 2, fetches)
}

func TestProjections(t *testing.T) {
	srv := feedServer(t, nil)
	defer srv.Close()

	p := NewFeedProvider(srv.URL)
	ctx := context.Background()

	brands, err := p.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nike", "Adidas"}, brands)

	// Pegasus is out of stock, only Air Max remains
	models, err := p.Models(ctx, "nike")
	require.NoError(t, err)
	assert.Equal(t, []string{"Air Max"}, models)

	colors, err := p.Colors(ctx, "Nike", "Air Max")
	require.NoError(t, err)
	assert.Equal(t, []string{"Negro", "Blanco"}, colors)

	sizes, err := p.Sizes(ctx, "Nike", "Air Max", "negro")
	require.NoError(t, err)
	assert.Equal(t, []string{"41", "42"}, sizes)

	price, ok := p.Price(ctx, "Nike", "Air Max", "Blanco", "41")
	assert.True(t, ok)
	assert.Equal(t, "360000", price)

	_, ok = p.Price(ctx, "Nike", "Pegasus", "Azul", "40")
	assert.False(t, ok)
}

func TestFeedErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewFeedProvider(srv.URL)
	_, err := p.Items(context.Background())
	assert.Error(t, err)

	_, err = p.Brands(context.Background())
	assert.Error(t, err)
}
