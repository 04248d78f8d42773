package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateSession opens a fresh creative session.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Create()
	a.json(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (a *App) sessionID(r *http.Request) string {
	return chi.URLParam(r, "sid")
}
