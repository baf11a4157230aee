package plant

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter creates a chi router exposing the registry API under
// /api/v1. Authentication is handled in front of this router.
func NewRouter(reg *Registry, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.Get("/healthz", healthHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assignments", assignHandler(reg))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", listTasksHandler(reg))
			r.Post("/", createTaskHandler(reg))
			r.Get("/{id}", getTaskHandler(reg))
			r.Post("/{id}/complete", completeTaskHandler(reg))
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", listAssetsHandler(reg))
			r.Post("/", createAssetHandler(reg))
			r.Get("/available", availableAssetsHandler(reg))
			r.Get("/search-faulty", searchFaultyHandler(reg))
			r.Get("/{id}", getAssetHandler(reg))
			r.Delete("/{id}", deleteAssetHandler(reg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", listCustomersHandler(reg))
			r.Post("/", createCustomerHandler(reg))
			r.Get("/{id}", getCustomerHandler(reg))
			r.Put("/{id}", updateCustomerHandler(reg))
			r.Post("/{id}/deactivate", deactivateCustomerHandler(reg))
		})

		r.Get("/topology/{city}", topologyHandler(reg))

		r.Post("/headends", createHeadendHandler(reg))
		r.Route("/fdhs", func(r chi.Router) {
			r.Get("/", listFdhsHandler(reg))
			r.Post("/", createFdhHandler(reg))
			r.Get("/{fdhId}/splitters", listSplittersHandler(reg))
		})
		r.Get("/regions", listRegionsHandler(reg))
		r.Post("/splitters", createSplitterHandler(reg))

		r.Route("/technicians", func(r chi.Router) {
			r.Get("/", listTechniciansHandler(reg))
			r.Post("/", createTechnicianHandler(reg))
		})

		r.Get("/audit", listAuditHandler(reg))
	})

	return r
}
