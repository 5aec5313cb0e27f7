package controllers

import (
	"net/http"

	"github.com/temankemah/temankemah-backend/api/responses"
	"github.com/temankemah/temankemah-backend/internal/sitemap"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

// Sitemap serves the crawler-facing XML index of public content.
func Sitemap(svc *sitemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := svc.Render(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
