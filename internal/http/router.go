package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/indexer"
	"docqa/internal/rag"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RAGEngine      rag.Engine
	Pipeline       *indexer.Pipeline
	Checker        handlers.CollectionChecker
	Inspector      handlers.CollectionInspector
	Collection     string
	AnswerModel    string
	EmbeddingModel string
	DocumentsPath  string
	MaxResults     int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	askHandler := handlers.NewAskHandler(deps.RAGEngine, deps.MaxResults)
	searchHandler := handlers.NewSearchHandler(deps.RAGEngine)
	indexHandler := handlers.NewIndexHandler(deps.Pipeline)
	statusHandler := handlers.NewStatusHandler(
		deps.Pipeline,
		deps.Inspector,
		deps.Collection,
		deps.AnswerModel,
		deps.EmbeddingModel,
		deps.DocumentsPath,
	)
	healthHandler := handlers.NewHealthHandler(deps.Checker, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodGet, "/status", statusHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
