package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/importcsv"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/underwriting"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/http/workflow"
)

func New(
	loansV1 *loan.Handler,
	workflowV1 *workflow.Handler,
	underwritingV1 *underwriting.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/loans", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			loansV1.Routes(r)
		})

		r.Route("/workflow", func(r chi.Router) {
			workflowV1.Routes(r)
		})

		r.Route("/underwriting", func(r chi.Router) {
			underwritingV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
