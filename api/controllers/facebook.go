package controllers

import (
	"net/http"

	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/internal/facebook"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

// FacebookSync pulls new lead form submissions from every active page
// connection. The same sync runs on a schedule in the cron worker; this
// endpoint exists for the manual "Sync now" button.
func FacebookSync(svc *facebook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.SyncLeads(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func FacebookConnections(svc *facebook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connections, err := svc.ListConnections(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"connections": connections})
	}
}
