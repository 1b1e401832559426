package menuapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishedMonths(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/1229/menus/109815", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"published_months":["2025-01-01","2025-02-01"]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	months, err := client.PublishedMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-02-01"}, months)
}

func TestPublishedMonthsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	months, err := client.PublishedMonths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, months)
}

func TestPublishedMonthsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	_, err := client.PublishedMonths(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPublishedMonthsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	_, err := client.PublishedMonths(context.Background())
	require.Error(t, err)
}

func TestMonthOverrides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/1229/menus/109815/year/2025/month/1/date_overwrites", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"day":"2025-01-06","setting":"{\"current_display\":[]}"},
			{"day":"2025-01-07","setting":"{}"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	overrides, err := client.MonthOverrides(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	assert.Equal(t, "2025-01-06", overrides[0].Day)
	assert.Equal(t, `{"current_display":[]}`, overrides[0].Setting)
}

func TestMonthOverridesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	_, err := client.MonthOverrides(context.Background(), 2025, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-03")
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "1229", "109815", 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.PublishedMonths(ctx)
	require.Error(t, err)
}
