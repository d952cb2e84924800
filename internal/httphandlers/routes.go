package httphandlers

import (
	"domainkeeper/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"net/http"
)

func Routes(h *ApiHandler, tokens TokenValidator, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogger, instrument(m), middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Route("/v1", func(rr chi.Router) {
		rr.Get("/h", func(writer http.ResponseWriter, request *http.Request) {
			ok(writer, "Hoi, we're HTTPs live!", struct{}{})
		})

		rr.Group(func(ar chi.Router) {
			ar.Use(authenticate(tokens))

			ar.Get("/domains", h.ListDomains)
			ar.Post("/domains", h.CreateDomain)
			ar.Post("/domains/buy", h.BuyDomains)
			ar.Get("/domains/{id}", h.GetDomain)
			ar.Put("/domains/{id}", h.UpdateDomain)
			ar.Patch("/domains/{id}", h.UpdateDomain)
			ar.Delete("/domains/{id}", h.DestroyDomain)
			ar.Get("/domains/{id}/whois", h.DownloadWhois)
		})
	})
	return r
}
