package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchWithoutAccessKey(t *testing.T) {
	client := NewClient(Config{})

	got, err := client.Search(context.Background(), "influenza virus")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderURL("influenza virus"), got)
}

func TestSearchReturnsRegularURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "stethoscope", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("client_id"))
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.unsplash.com/photo-1"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{AccessKey: "test-key", BaseURL: srv.URL})
	got, err := client.Search(context.Background(), "stethoscope")
	require.NoError(t, err)
	assert.Equal(t, "https://images.unsplash.com/photo-1", got)
}

func TestSearchFallsBackToPlaceholder(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty result set",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"results":[]}`))
			},
		},
		{
			name: "error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rate limited", http.StatusForbidden)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewClient(Config{AccessKey: "test-key", BaseURL: srv.URL})
			got, err := client.Search(context.Background(), "asthma inhaler")
			require.NoError(t, err)
			assert.Equal(t, PlaceholderURL("asthma inhaler"), got)
		})
	}
}

func TestPlaceholderURLEscapesQuery(t *testing.T) {
	assert.Equal(t, "https://picsum.photos/seed/heart+attack/600/400", PlaceholderURL("heart attack"))
}
