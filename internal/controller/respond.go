package controller

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

// respondForErr maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, claim conflicts 409, provider config 422, everything else
// 500.
func respondForErr(w http.ResponseWriter, err error) {
	var (
		notFound     *appErrors.ErrCampaignNotFound
		listNotFound *appErrors.ErrContactListNotFound
		empty        *appErrors.ErrEmptyImport
		missing      *appErrors.ErrMissingFields
		incomplete   *appErrors.ErrIncompleteMapping
		notDraft     *appErrors.ErrNotDraft
		provider     *appErrors.ErrProviderNotConfigured
		unauthorized *appErrors.ErrUnauthorized
	)

	switch {
	case errors.As(err, &notFound), errors.As(err, &listNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &empty), errors.As(err, &missing), errors.As(err, &incomplete):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notDraft):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &provider):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &unauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
