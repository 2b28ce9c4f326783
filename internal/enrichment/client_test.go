package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "40.712800", r.URL.Query().Get("lat"))
		assert.Equal(t, "-74.006000", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type": "restaurant", "name": "Thai Corner", "confidence": 0.85}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	result, err := c.Lookup(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.CategoryRestaurant, result.CategoryHint)
	assert.Equal(t, "Thai Corner", result.DisplayName)
	assert.Equal(t, 0.85, result.SourceConfidence)
}

func TestLookupUnmappableType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "volcano", "name": "Mount Doom", "confidence": 0.9}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	result, err := c.Lookup(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	_, err := c.Lookup(context.Background(), 40.7128, -74.0060)
	assert.Error(t, err)
}

func TestLookupClampsConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "gym", "name": "Iron Works", "confidence": 3.5}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	result, err := c.Lookup(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1.0, result.SourceConfidence)
}

func TestMapPlaceType(t *testing.T) {
	assert.Equal(t, models.CategoryHome, MapPlaceType("residential"))
	assert.Equal(t, models.CategoryWork, MapPlaceType("  Office "))
	assert.Equal(t, models.CategoryTransit, MapPlaceType("bus_stop"))
	assert.Equal(t, models.CategoryEducation, MapPlaceType("university"))
	assert.Equal(t, models.CategoryUnknown, MapPlaceType("volcano"))
	assert.Equal(t, models.CategoryUnknown, MapPlaceType(""))
}
