package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage/sqlite"
)

type bookmarkJSON struct {
	ID          int64  `json:"id"`
	URI         string `json:"uri"`
	Description string `json:"description"`
}

type problemJSON struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// setupTestServer starts the API over a temp SQLite database holding
// "miguel" (bookmarks 1-3) and "steve" (bookmarks 4-5).
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, sample := range []struct {
		name string
		n    int
	}{{"miguel", 3}, {"steve", 2}} {
		account := models.NewAccount(sample.name, "password")
		require.NoError(t, store.CreateAccount(ctx, account))
		for i := 1; i <= sample.n; i++ {
			uri := fmt.Sprintf("http://bookmark.com/%d/%s", i, sample.name)
			require.NoError(t, store.CreateBookmark(ctx, models.NewBookmark(account, uri, "A description")))
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(New(store, logger, Options{Metrics: true}))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListBookmarks(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/miguel/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	bookmarks := decode[[]bookmarkJSON](t, resp)
	require.Len(t, bookmarks, 3)
	for _, b := range bookmarks {
		assert.Contains(t, b.URI, "/miguel")
	}
}

func TestListBookmarks_OmitsOwnerAndPassword(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/steve/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := decode[[]map[string]any](t, resp)
	require.NotEmpty(t, raw)
	for _, b := range raw {
		assert.ElementsMatch(t, []string{"id", "uri", "description"}, keys(b))
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestGetBookmark(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/miguel/bookmarks/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b := decode[bookmarkJSON](t, resp)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, "http://bookmark.com/2/miguel", b.URI)
}

func TestGetBookmark_OwnedByAnotherUser(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/miguel/bookmarks/4", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	p := decode[problemJSON](t, resp)
	assert.Equal(t, "could not find bookmark '4' for 'miguel'.", p.Message)
	assert.Equal(t, "Not Found", p.Error)
	assert.Equal(t, "/miguel/bookmarks/4", p.Path)
}

func TestGetBookmark_Nonexistent(t *testing.T) {
	server := setupTestServer(t)

	for _, user := range []string{"miguel", "steve"} {
		resp := do(t, http.MethodGet, server.URL+"/"+user+"/bookmarks/999", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "could not find bookmark '999'.", decode[problemJSON](t, resp).Message)
	}
}

func TestUnknownUser(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/ghost/bookmarks", ""},
		{http.MethodGet, "/ghost/bookmarks/999", ""},
		{http.MethodDelete, "/ghost/bookmarks/999", ""},
		{http.MethodPost, "/ghost/bookmarks", `{"uri":"http://x/1","description":"d"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := do(t, tt.method, server.URL+tt.path, tt.body)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "could not find user 'ghost'.", decode[problemJSON](t, resp).Message)
		})
	}
}

func TestCreateBookmark(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodPost, server.URL+"/miguel/bookmarks", `{"uri":"http://x/1","description":"d"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	location := resp.Header.Get("Location")
	prefix := server.URL + "/miguel/bookmarks/"
	require.True(t, strings.HasPrefix(location, prefix), "unexpected Location %q", location)
	id, err := strconv.ParseInt(strings.TrimPrefix(location, prefix), 10, 64)
	require.NoError(t, err, "Location must end in the numeric id")

	// Round trip through the Location header.
	got := do(t, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, got.StatusCode)
	b := decode[bookmarkJSON](t, got)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "http://x/1", b.URI)
	assert.Equal(t, "d", b.Description)
}

func TestCreateBookmark_BadBody(t *testing.T) {
	server := setupTestServer(t)

	for name, body := range map[string]string{
		"malformed": `{"uri":`,
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			resp := do(t, http.MethodPost, server.URL+"/miguel/bookmarks", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestDeleteBookmark_Scenario(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodDelete, server.URL+"/miguel/bookmarks/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), decode[bookmarkJSON](t, resp).ID)

	list := do(t, http.MethodGet, server.URL+"/miguel/bookmarks", "")
	remaining := decode[[]bookmarkJSON](t, list)
	require.Len(t, remaining, 2)
	assert.Equal(t, int64(1), remaining[0].ID)
	assert.Equal(t, int64(3), remaining[1].ID)

	again := do(t, http.MethodDelete, server.URL+"/miguel/bookmarks/2", "")
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestDeleteBookmark_OwnedByAnotherUser(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodDelete, server.URL+"/miguel/bookmarks/4", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "could not find bookmark '4' for 'miguel'.", decode[problemJSON](t, resp).Message)

	still := do(t, http.MethodGet, server.URL+"/steve/bookmarks/4", "")
	assert.Equal(t, http.StatusOK, still.StatusCode)
}

func TestInvalidBookmarkID(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/miguel/bookmarks/abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid bookmark id 'abc'", decode[problemJSON](t, resp).Message)
}

func TestHealthz(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	server := setupTestServer(t)

	resp := do(t, http.MethodGet, server.URL+"/healthz", "")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	server := setupTestServer(t)

	do(t, http.MethodGet, server.URL+"/miguel/bookmarks", "")
	do(t, http.MethodGet, server.URL+"/ghost/bookmarks", "")

	resp := do(t, http.MethodGet, server.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `bookmarks_http_requests_total{method="GET",route="GET /{userId}/bookmarks",status="200"} 1`)
	assert.Contains(t, out, `bookmarks_http_requests_total{method="GET",route="GET /{userId}/bookmarks",status="404"} 1`)
	assert.NotContains(t, out, "miguel", "user names must not leak into labels")
}
