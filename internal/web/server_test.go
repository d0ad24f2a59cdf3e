package web

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/store"
	"github.com/roach88/recipebook/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *book.Book, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	b := book.New(kv, book.WithIDGenerator(testutil.NewSequentialIDs("")))
	require.NoError(t, b.Load(context.Background()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(b, logger), b, kv
}

func do(t *testing.T, h http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func teaForm() url.Values {
	return url.Values{
		"title":        {"Tea"},
		"ingredients":  {"water,tea leaf"},
		"instructions": {"Boil"},
	}
}

func TestIndex_Empty(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>Recipe Book</h1>")
	assert.Contains(t, rec.Body.String(), "No recipes yet.")
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSubmit_CreatesAndRerenders(t *testing.T) {
	s, b, kv := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/recipes", teaForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	require.Equal(t, 1, b.Len())
	got, _ := b.Get(0)
	assert.Equal(t, []string{"water", "tea leaf"}, got.Ingredients)

	raw, ok, _ := kv.Get(context.Background(), book.DefaultKey)
	require.True(t, ok)
	assert.Contains(t, raw, `"title":"Tea"`)

	page := do(t, s, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, page, "<h3>Tea</h3>")
	assert.Contains(t, page, "water, tea leaf")
}

func TestSubmit_MissingFields(t *testing.T) {
	s, b, _ := newTestServer(t)

	form := teaForm()
	form.Set("instructions", "  ")
	rec := do(t, s, http.MethodPost, "/recipes", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "instructions are required")
	assert.Equal(t, 0, b.Len())
}

func TestEditFlow(t *testing.T) {
	s, b, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/recipes", teaForm())

	rec := do(t, s, http.MethodPost, "/recipes/0/edit", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	page := do(t, s, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, page, `value="Tea"`)
	assert.Contains(t, page, "Update Recipe")

	form := url.Values{
		"title":        {"Green Tea"},
		"ingredients":  {"water, green tea"},
		"instructions": {"Steep"},
	}
	rec = do(t, s, http.MethodPost, "/recipes", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	require.Equal(t, 1, b.Len())
	got, _ := b.Get(0)
	assert.Equal(t, "Green Tea", got.Title)
	assert.Equal(t, "rec-0001", got.ID)

	page = do(t, s, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, page, "Save Recipe")
}

func TestCancelEdit(t *testing.T) {
	s, b, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/recipes", teaForm())
	do(t, s, http.MethodPost, "/recipes/0/edit", nil)

	rec := do(t, s, http.MethodPost, "/edit/cancel", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, editing := b.Editing()
	assert.False(t, editing)
}

func TestDelete(t *testing.T) {
	s, b, kv := newTestServer(t)
	do(t, s, http.MethodPost, "/recipes", teaForm())

	rec := do(t, s, http.MethodPost, "/recipes/0/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, b.Len())

	raw, _, _ := kv.Get(context.Background(), book.DefaultKey)
	assert.Equal(t, "[]", raw)
	assert.Contains(t, do(t, s, http.MethodGet, "/", nil).Body.String(), "No recipes yet.")
}

func TestBadIndex(t *testing.T) {
	s, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/recipes/3/delete", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/recipes/0/edit", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/recipes/abc/delete", nil).Code)
}

func TestAPIList(t *testing.T) {
	s, _, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/recipes", teaForm())

	rec := do(t, s, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`[{"id":"rec-0001","title":"Tea","ingredients":["water","tea leaf"],"instructions":"Boil"}]`,
		rec.Body.String())
}

func TestPageFollowsDirectBookChanges(t *testing.T) {
	s, b, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/recipes", teaForm())

	_, err := b.Delete(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, do(t, s, http.MethodGet, "/", nil).Body.String(), "No recipes yet.")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
