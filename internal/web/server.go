// Package web hosts the HTML recipe book on a local HTTP listener.
//
// The page is rebuilt in full from book state after every change and the
// latest rendering is served on GET /. Form posts mutate the book and
// redirect back to the page.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/recipe"
	"github.com/roach88/recipebook/internal/view"
)

// Server serves one book.
type Server struct {
	book   *book.Book
	logger *slog.Logger
	router chi.Router

	mu   sync.RWMutex
	page []byte
	err  error
}

// NewServer builds the router and renders the initial page. The server
// subscribes to b and re-renders on every change.
func NewServer(b *book.Book, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{book: b, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Get("/api/recipes", s.handleAPIList)
	r.Post("/recipes", s.handleSubmit)
	r.Post("/recipes/{index}/edit", s.handleEdit)
	r.Post("/recipes/{index}/delete", s.handleDelete)
	r.Post("/edit/cancel", s.handleCancel)
	s.router = r

	s.render(b.State())
	b.Subscribe(s.render)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving recipe book", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("recipe book server stopped")
	return nil
}

// render rebuilds the whole page. Notifications can arrive out of order
// from concurrent handlers, so the page is always built from the book's
// current state while holding s.mu.
func (s *Server) render(book.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	err := view.RenderHTML(&buf, view.Project(s.book.State()))
	if err != nil {
		s.logger.Error("render page", "error", err)
	}
	s.page, s.err = buf.Bytes(), err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	page, err := s.page, s.err
	s.mu.RUnlock()

	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	data, err := recipe.Marshal(s.book.Recipes())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	rec := recipe.Recipe{
		Title:        r.PostForm.Get("title"),
		Ingredients:  recipe.ParseIngredients(r.PostForm.Get("ingredients")),
		Instructions: r.PostForm.Get("instructions"),
	}

	stored, err := s.book.Submit(r.Context(), rec)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Debug("recipe saved", "id", stored.ID, "title", stored.Title)
	redirectHome(w, r)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	i, ok := s.indexParam(w, r)
	if !ok {
		return
	}
	if err := s.book.BeginEdit(i); err != nil {
		s.fail(w, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	i, ok := s.indexParam(w, r)
	if !ok {
		return
	}
	removed, err := s.book.Delete(r.Context(), i)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Debug("recipe deleted", "id", removed.ID, "index", i)
	redirectHome(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.book.CancelEdit()
	redirectHome(w, r)
}

func (s *Server) indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid recipe index", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}

// fail maps book and validation errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, book.ErrIndexOutOfRange), errors.Is(err, book.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, recipe.ErrMissingTitle),
		errors.Is(err, recipe.ErrMissingIngredients),
		errors.Is(err, recipe.ErrMissingInstructions):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
