package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/unclebandit/paigham-backend/internal/errors"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondForErr(w http.ResponseWriter, err error) {
	var (
		notFound *appErrors.ErrCampaignNotFound
		notDraft *appErrors.ErrNotDraft
		provider *appErrors.ErrProviderNotConfigured
		unauth   *appErrors.ErrUnauthorized
	)
	switch {
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &notDraft):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &provider):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &unauth):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
