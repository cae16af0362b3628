package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/minibmg"
	mermaid "github.com/aretw0/minibmg/internal/presentation/graph"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/jsongraph"
	"github.com/aretw0/minibmg/pkg/ports"
)

// maxBodyBytes bounds request documents.
const maxBodyBytes = 8 << 20

// Server serves stored graphs over HTTP.
type Server struct {
	Engine *minibmg.Engine
	Store  ports.GraphStore
}

// Option configures the handler returned by NewHandler.
type Option func(chi.Router)

// WithMetrics mounts h (typically a Prometheus handler) at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(r chi.Router) {
		r.Method(http.MethodGet, "/metrics", h)
	}
}

// NewHandler creates a new HTTP handler for the engine and store.
func NewHandler(engine *minibmg.Engine, store ports.GraphStore, opts ...Option) http.Handler {
	s := &Server{Engine: engine, Store: store}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.ListGraphs)
		r.Route("/{name}", func(r chi.Router) {
			r.Put("/", s.PutGraph)
			r.Get("/", s.GetGraph)
			r.Delete("/", s.DeleteGraph)
			r.Post("/eval", s.EvalGraph)
			r.Post("/dedup", s.DedupGraph)
			r.Get("/mermaid", s.GraphMermaid)
		})
	})
	for _, opt := range opts {
		opt(r)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// Field locates the problem in a rejected document.
	Field string `json:"field,omitempty"`
}

// GraphSummary describes a stored graph.
type GraphSummary struct {
	Name         string `json:"name"`
	Nodes        int    `json:"nodes"`
	Queries      int    `json:"queries"`
	Observations int    `json:"observations"`
}

// EvalRequest is the body of POST /graphs/{name}/eval. An empty body
// evaluates with the engine's default seed and no variables.
type EvalRequest struct {
	Seed      *uint64            `json:"seed,omitempty"`
	Variables map[string]float64 `json:"variables,omitempty"`
	LogProb   bool               `json:"log_prob,omitempty"`
}

// EvalResponse is the result of POST /graphs/{name}/eval.
type EvalResponse struct {
	Seed    uint64  `json:"seed"`
	LogProb Float   `json:"log_prob"`
	Queries []Float `json:"queries"`
}

// DedupResponse is the result of POST /graphs/{name}/dedup.
type DedupResponse struct {
	Merged int                `json:"merged"`
	Graph  jsongraph.Document `json:"graph"`
}

// Float is a float64 that encodes infinities and NaN as the strings
// "+Inf", "-Inf" and "NaN", which JSON numbers cannot express.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// ListGraphs handles GET /graphs.
func (s *Server) ListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("ListGraphs failed", "error", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": names})
}

// PutGraph handles PUT /graphs/{name}. The body is a graph document, YAML
// when the Content-Type says so and JSON otherwise.
func (s *Server) PutGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ports.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		slog.Warn("PutGraph: Invalid request body", "error", err)
		return
	}

	g, err := s.Engine.Decode(data, requestFormat(r))
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		var perr *jsongraph.ParseError
		if errors.As(err, &perr) {
			resp.Field = perr.Field
		}
		writeJSON(w, http.StatusBadRequest, resp)
		slog.Warn("PutGraph: Malformed document", "graph", name, "error", err)
		return
	}
	if err := s.Store.Save(r.Context(), name, g); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("PutGraph: Save failed", "graph", name, "error", err)
		return
	}
	writeJSON(w, http.StatusCreated, summarize(name, g))
}

// GetGraph handles GET /graphs/{name}. The document is written as YAML when
// the Accept header asks for it.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	name, g, ok := s.load(w, r)
	if !ok {
		return
	}
	f := jsongraph.FormatJSON
	if strings.Contains(r.Header.Get("Accept"), "yaml") {
		f = jsongraph.FormatYAML
	}
	data, err := s.Engine.Encode(g, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("GetGraph: Encode failed", "graph", name, "error", err)
		return
	}
	w.Header().Set("Content-Type", contentType(f))
	w.Write(data)
}

// DeleteGraph handles DELETE /graphs/{name}.
func (s *Server) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, ports.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("DeleteGraph failed", "graph", name, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvalGraph handles POST /graphs/{name}/eval.
func (s *Server) EvalGraph(w http.ResponseWriter, r *http.Request) {
	var body EvalRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		slog.Warn("EvalGraph: Invalid request body", "error", err)
		return
	}
	name, g, ok := s.load(w, r)
	if !ok {
		return
	}

	res, err := s.Engine.Eval(r.Context(), g, minibmg.EvalRequest{
		Seed:      body.Seed,
		Variables: body.Variables,
		LogProb:   body.LogProb,
	})
	if err != nil {
		if errors.Is(err, minibmg.ErrMissingVariable) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("EvalGraph failed", "graph", name, "error", err)
		return
	}

	resp := EvalResponse{Seed: res.Seed, LogProb: Float(res.LogProb), Queries: make([]Float, len(res.Queries))}
	for i, q := range res.Queries {
		resp.Queries[i] = Float(q)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DedupGraph handles POST /graphs/{name}/dedup. With ?save=true the
// canonical graph replaces the stored one.
func (s *Server) DedupGraph(w http.ResponseWriter, r *http.Request) {
	name, g, ok := s.load(w, r)
	if !ok {
		return
	}
	out, merged := s.Engine.Dedup(g)
	if r.URL.Query().Get("save") == "true" {
		if err := s.Store.Save(r.Context(), name, out); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			slog.Error("DedupGraph: Save failed", "graph", name, "error", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, DedupResponse{Merged: merged, Graph: jsongraph.Encode(out)})
}

// GraphMermaid handles GET /graphs/{name}/mermaid.
func (s *Server) GraphMermaid(w http.ResponseWriter, r *http.Request) {
	_, g, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, mermaid.GenerateMermaid(g, nil))
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, *graph.Graph, bool) {
	name := chi.URLParam(r, "name")
	g, err := s.Store.Load(r.Context(), name)
	switch {
	case err == nil:
		return name, g, true
	case errors.Is(err, ports.ErrGraphNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, ports.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
		slog.Error("Load failed", "graph", name, "error", err)
	}
	return name, nil, false
}

func summarize(name string, g *graph.Graph) GraphSummary {
	return GraphSummary{
		Name:         name,
		Nodes:        g.Len(),
		Queries:      len(g.Queries()),
		Observations: len(g.Observations()),
	}
}

func requestFormat(r *http.Request) jsongraph.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return jsongraph.FormatYAML
	}
	return jsongraph.FormatJSON
}

func contentType(f jsongraph.Format) string {
	if f == jsongraph.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
