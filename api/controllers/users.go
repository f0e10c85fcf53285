package controllers

import (
	"net/http"

	"github.com/angelmondragon/leadflow-backend/api/responses"
	"github.com/angelmondragon/leadflow-backend/internal/users"
	"github.com/angelmondragon/leadflow-backend/pkg/logger"
)

// UsersDashboard lists active team members for assignment pickers and the
// team view.
func UsersDashboard(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
