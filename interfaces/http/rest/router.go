package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ideaflow-backend/infrastructure/di"
	"ideaflow-backend/interfaces/http/rest/handlers"
	"ideaflow-backend/interfaces/http/rest/middleware"
)

// Router assembles the HTTP surface from the wired container
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(c.Logger))
	if c.Config.EnableMetrics {
		router.Use(middleware.Metrics(c.Metrics))
	}

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.ideaflow.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if c.Config.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	boardHandler := handlers.NewBoardHandler(c.CommandBus, c.QueryBus, c.CreateBoard, c.ErrorHandler, c.Logger)
	nodeHandler := handlers.NewNodeHandler(c.CommandBus, c.QueryBus, c.CreateNode, c.ErrorHandler, c.Logger)
	generationHandler := handlers.NewGenerationHandler(c.GenerateAnswer, c.ErrorHandler, c.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(c.JWTValidator, c.Logger))

		r.Route("/boards", func(r chi.Router) {
			r.Post("/", boardHandler.CreateBoard)
			r.Get("/", boardHandler.ListBoards)

			r.Route("/{boardID}", func(r chi.Router) {
				r.Get("/", boardHandler.GetBoard)
				r.Put("/", boardHandler.UpdateBoard)
				r.Delete("/", boardHandler.DeleteBoard)
				r.Get("/data", boardHandler.GetBoardData)

				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", nodeHandler.CreateNode)

					r.Route("/{nodeID}", func(r chi.Router) {
						r.Get("/", nodeHandler.GetNode)
						r.Put("/position", nodeHandler.MoveNode)
						r.Put("/content", nodeHandler.UpdateNodeContent)
						r.Delete("/", nodeHandler.DeleteNode)
						r.Post("/generate", generationHandler.GenerateAnswer)
					})
				})
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
