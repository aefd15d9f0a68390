// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/paigham-backend/internal/model"
	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		Name            string  `json:"name"`
		Channel         string  `json:"channel"`
		TemplateID      *string `json:"template_id"`
		ContactListID   *string `json:"contact_list_id"`
		Subject         string  `json:"subject"`
		MessageTemplate string  `json:"message_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(sess.CompanyID, &model.Campaign{
		Name:            body.Name,
		Channel:         model.Channel(body.Channel),
		TemplateID:      body.TemplateID,
		ContactListID:   body.ContactListID,
		Subject:         body.Subject,
		MessageTemplate: body.MessageTemplate,
	})
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	channel := r.URL.Query().Get("channel")
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(sess.CompanyID, page, pageSize, channel, status)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignService.GetCampaign(sess.CompanyID, id)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) PreviewCampaign(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	rendered, err := c.CampaignService.RenderPreview(sess.CompanyID, id)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"campaign_id":      id,
		"rendered_message": rendered,
	})
}

// ProcessCampaign drives the send loop for one campaign. The body carries
// the campaign id; the tenant comes from the session.
func (c *CampaignController) ProcessCampaign(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var body struct {
		CampaignID string `json:"campaignId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.CampaignID == "" {
		respondError(w, http.StatusBadRequest, "campaignId is required")
		return
	}

	result, err := c.CampaignService.Process(r.Context(), sess.CompanyID, body.CampaignID)
	if err != nil {
		respondForErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  result.Status,
		"sent":    result.Sent,
		"failed":  result.Failed,
		"total":   result.Total,
	})
}
