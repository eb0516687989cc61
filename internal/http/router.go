package httpapi

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(WithLogging)

	r.Get("/", app.indexHandler)
	r.Get("/info", app.infoHandler)
	r.Post("/buy", app.buyHandler)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", app.listProductsHandler)
		r.Post("/", app.createProductHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.getProductHandler)
			r.Patch("/", app.updateProductHandler)
			r.Delete("/", app.deleteProductHandler)
		})
	})

	r.Route("/slots", func(r chi.Router) {
		r.Get("/", app.listSlotsHandler)
		r.Post("/", app.createSlotHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.getSlotHandler)
			r.Patch("/", app.updateSlotHandler)
			r.Delete("/", app.deleteSlotHandler)
		})
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", app.listTransactionsHandler)
		r.Get("/{id}", app.getTransactionHandler)
	})

	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/metrics", app.metricsHandler)
	r.Handle("/debug/vars", expvar.Handler())
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)

	return r
}
