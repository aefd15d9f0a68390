// internal/controller/contact_controller.go
package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/paigham-backend/internal/importer"
	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

type ContactController struct {
	ContactService *service.ContactService
}

// PreviewImport parses an uploaded CSV (multipart "file" field or raw body)
// and returns a bounded preview for confirmation.
func (c *ContactController) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var reader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "missing file upload")
			return
		}
		defer file.Close()
		reader = file
	}

	var required []string
	if r.URL.Query().Get("channel") == string(model.ChannelSMS) {
		required = importer.SMSBaseColumns
	}

	preview, err := c.ContactService.PreviewImport(reader, required)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

func (c *ContactController) CreateList(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		Name           string                `json:"name"`
		RequiredFields []string              `json:"required_fields"`
		Mappings       map[string]string     `json:"mappings"`
		Contacts       []model.ContactRecord `json:"contacts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(body.Contacts) == 0 {
		respondError(w, http.StatusBadRequest, "no contacts to import")
		return
	}

	list, err := c.ContactService.CreateList(sess.CompanyID, body.Name, body.RequiredFields, body.Mappings, body.Contacts)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, list)
}

func (c *ContactController) ListLists(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	lists, err := c.ContactService.ListContactLists(sess.CompanyID)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": lists})
}

func (c *ContactController) DeleteList(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := c.ContactService.DeleteList(sess.CompanyID, id); err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	contacts, err := c.ContactService.Contacts(sess.CompanyID, id)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": contacts})
}
