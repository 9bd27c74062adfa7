package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportify-app/apiserver/internal/services"
)

func AdminRouter(r chi.Router, admin *services.AdminService) {
	r.Delete("/clear", func(w http.ResponseWriter, r *http.Request) {
		if err := admin.ClearAll(r.Context()); err != nil {
			respondError(w, r, err, "clear data")
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "all data cleared"})
	})
}
