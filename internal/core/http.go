package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tesh254/axmd/internal/api"
	"github.com/tesh254/axmd/internal/axtree"
	"github.com/tesh254/axmd/internal/storage"
)

// maxTreeBytes caps POST /api/render bodies.
const maxTreeBytes = 64 << 20

type handlers struct {
	api *api.API
}

// NewRouter returns the HTTP API. The MCP streamable handler is mounted at
// /mcp when server is non-nil.
func NewRouter(internalAPI *api.API, server *mcp.Server) http.Handler {
	h := &handlers{api: internalAPI}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(loggingHandler)

	r.Get("/health", h.handleHealth)
	r.Post("/api/render", h.handleRender)

	r.Route("/api/pages", func(r chi.Router) {
		r.Get("/", h.handleListPages)
		r.Get("/page", h.handleGetPage)
		r.Delete("/", h.handleDeletePages)
	})

	if server != nil {
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil))
	}
	return r
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleRender converts an accessibility tree body to Markdown.
func (h *handlers) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTreeBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	md, err := h.api.Convert(data)
	if err != nil {
		var decodeErr *axtree.DecodeError
		if errors.As(err, &decodeErr) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

func (h *handlers) handleListPages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	pages, total, err := h.api.ListPages(limit, offset)
	if err != nil {
		jsonError(w, "failed to list pages: "+err.Error(), http.StatusInternalServerError)
		return
	}
	summaries := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, summarize(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"pages": summaries, "total": total})
}

func (h *handlers) handleGetPage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}

	page, err := h.api.GetPage(url)
	if errors.Is(err, storage.ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to get page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(page.Markdown))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (h *handlers) handleDeletePages(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		jsonError(w, "prefix query parameter is required", http.StatusBadRequest)
		return
	}

	n, err := h.api.DeletePages(prefix)
	if err != nil {
		jsonError(w, "failed to delete pages: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": n})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
