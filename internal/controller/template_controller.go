// internal/controller/template_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/repository"
	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

type TemplateController struct {
	TemplateRepo repository.TemplateRepositoryInterface
}

func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		Name    string `json:"name"`
		Channel string `json:"channel"`
		Subject string `json:"subject"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Name == "" || body.Content == "" {
		respondError(w, http.StatusBadRequest, "name and content are required")
		return
	}

	channel := model.Channel(body.Channel)
	if channel != model.ChannelEmail && channel != model.ChannelSMS {
		respondError(w, http.StatusBadRequest, "channel must be email or sms")
		return
	}

	t := &model.Template{
		CompanyID: sess.CompanyID,
		Channel:   channel,
		Name:      body.Name,
		Subject:   body.Subject,
		Content:   body.Content,
		// Derived, never authored: recomputed from the content on every write.
		Variables: service.ExtractVariables(body.Content),
	}
	if sess.User.ID != "" {
		t.CreatedBy = &sess.User.ID
	}

	if err := c.TemplateRepo.Create(t); err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	channel := model.Channel(r.URL.Query().Get("channel"))
	if channel == "" {
		channel = model.ChannelEmail
	}

	templates, err := c.TemplateRepo.ListByCompany(sess.CompanyID, channel)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": templates})
}
