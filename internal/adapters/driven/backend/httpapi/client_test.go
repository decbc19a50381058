package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

const ayahsJSON = `[
  {
    "id": "1_1",
    "combined_url": "http://localhost:8000/static/combined/1/1_1.wav",
    "arabic_url": null,
    "english_url": null,
    "source_translation": null,
    "english_transcription": null,
    "matches": null,
    "wer": null,
    "forced_approved": null
  },
  {
    "id": "2_5",
    "combined_url": "/static/combined/2/2_5.wav",
    "arabic_url": "/static/arabic/2/2_5.wav",
    "english_url": "/static/english/2/2_5.wav",
    "source_translation": "This is the Book",
    "english_transcription": "this is the book",
    "matches": false,
    "wer": 0.25,
    "forced_approved": false
  }
]`

// recordedRequest captures what the fake backend received.
type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		status := fs.status
		fs.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"ignored"}`))
			return
		}
		if r.URL.Path == "/ayahs" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(ayahsJSON))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (f *fakeServer) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBackendURL, client.BaseURL())
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"localhost:8000", "ftp://host", "http://"} {
		_, err := NewClient(Config{BaseURL: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestClient_ListAyahs(t *testing.T) {
	fs, srv := newFakeServer(t)
	client, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	items, err := client.ListAyahs(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, recordedRequest{Method: http.MethodGet, Path: "/ayahs"}, fs.last())

	first := items[0]
	assert.Equal(t, "1_1", first.ID)
	assert.Nil(t, first.Matches)
	assert.Nil(t, first.ArabicURL)
	assert.Equal(t, []domain.Action{domain.ActionAutoSplit}, first.Actions())

	second := items[1]
	require.NotNil(t, second.Matches)
	assert.False(t, *second.Matches)
	require.NotNil(t, second.WER)
	assert.InDelta(t, 0.25, *second.WER, 1e-9)
	assert.Equal(t, srv.URL+"/static/combined/2/2_5.wav", *second.CombinedURL)
	assert.Equal(t, srv.URL+"/static/english/2/2_5.wav", *second.EnglishURL)
}

func TestClient_ListAyahs_RelativeMediaKeepsBasePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"id":"2_5","combined_url":"static/2_5.wav","arabic_url":"/root/2_5.wav"}]`))
	}))
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	items, err := client.ListAyahs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/ayahs", gotPath)
	require.Len(t, items, 1)
	assert.Equal(t, srv.URL+"/api/static/2_5.wav", *items[0].CombinedURL)
	assert.Equal(t, srv.URL+"/root/2_5.wav", *items[0].ArabicURL)
}

func TestClient_ListAyahs_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	items, err := client.ListAyahs(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_ListAyahs_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListAyahs(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_NonSuccessStatus(t *testing.T) {
	fs, srv := newFakeServer(t)
	fs.status = http.StatusInternalServerError
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListAyahs(context.Background())
	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
	assert.Equal(t, "500 Internal Server Error", backendErr.Status)

	err = client.Approve(context.Background(), "2_5")
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "approve 2_5: 500 Internal Server Error", err.Error())
}

func TestClient_Split(t *testing.T) {
	fs, srv := newFakeServer(t)
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.Split(context.Background(), "2_5"))

	assert.Equal(t, recordedRequest{Method: http.MethodPost, Path: "/split/2_5"}, fs.last())
}

func TestClient_SplitAt(t *testing.T) {
	fs, srv := newFakeServer(t)
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.SplitAt(context.Background(), "2_5", 12345))

	last := fs.last()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/split_custom/2_5", last.Path)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Body), &body))
	assert.Equal(t, map[string]any{"split_time_ms": float64(12345)}, body)
}

func TestClient_Approve(t *testing.T) {
	fs, srv := newFakeServer(t)
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.Approve(context.Background(), "2_5"))

	assert.Equal(t, recordedRequest{Method: http.MethodPost, Path: "/approve/2_5"}, fs.last())
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	err = client.Split(context.Background(), "1_1")

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.ListAyahs(context.Background())

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_ContextCancelled(t *testing.T) {
	_, srv := newFakeServer(t)
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.ListAyahs(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
