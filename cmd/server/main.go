// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/unclebandit/paigham-backend/internal/config"
	"github.com/unclebandit/paigham-backend/internal/controller"
	"github.com/unclebandit/paigham-backend/internal/db"
	"github.com/unclebandit/paigham-backend/internal/delivery"
	"github.com/unclebandit/paigham-backend/internal/handler"
	"github.com/unclebandit/paigham-backend/internal/repository"
	"github.com/unclebandit/paigham-backend/internal/sendgrid"
	"github.com/unclebandit/paigham-backend/internal/service"
	"github.com/unclebandit/paigham-backend/internal/session"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	conn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	listRepo := &repository.ContactListRepository{DB: conn}
	templateRepo := &repository.TemplateRepository{DB: conn}
	creditRepo := &repository.CreditRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ListRepo:     listRepo,
		SettingsRepo: settingsRepo,
		CreditRepo:   creditRepo,
		TemplateRepo: templateRepo,
		Defaults:     cfg.SendGrid,
		EmailGateway: func(apiKey string, from sendgrid.Address) delivery.Gateway {
			return delivery.NewEmailGateway(sendgrid.NewClient(apiKey, cfg.SendGrid.BaseURL), from)
		},
		SMSGateway: delivery.NewSimulatedSMSGateway(),
	}
	contactService := &service.ContactService{ListRepo: listRepo}
	creditService := &service.CreditService{CreditRepo: creditRepo}

	campaignController := &controller.CampaignController{CampaignService: campaignService}
	templateController := &controller.TemplateController{TemplateRepo: templateRepo}
	contactController := &controller.ContactController{ContactService: contactService}

	emailHandler := &handler.EmailHandler{
		CampaignService: campaignService,
		Defaults:        cfg.SendGrid,
		NewClient: func(apiKey string) *sendgrid.Client {
			return sendgrid.NewClient(apiKey, cfg.SendGrid.BaseURL)
		},
	}
	diagnosticsHandler := &handler.DiagnosticsHandler{DB: conn}
	creditHandler := &handler.CreditHandler{CreditService: creditService}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		// Setup tooling; no session required.
		r.Get("/diagnostics", diagnosticsHandler.Check)
		r.Get("/email/config", emailHandler.Config)

		r.Group(func(r chi.Router) {
			r.Use(session.Require([]byte(cfg.SessionSecret)))

			r.Post("/campaigns", campaignController.CreateCampaign)
			r.Get("/campaigns", campaignController.ListCampaigns)
			r.Get("/campaigns/{id}", campaignController.GetCampaign)
			r.Get("/campaigns/{id}/preview", campaignController.PreviewCampaign)
			r.Post("/campaigns/process", campaignController.ProcessCampaign)

			r.Post("/email/send", emailHandler.Send)
			r.Post("/email/test", emailHandler.Test)
			r.Post("/email/send-bulk", emailHandler.SendBulk)

			r.Post("/contact-lists/import", contactController.PreviewImport)
			r.Post("/contact-lists", contactController.CreateList)
			r.Get("/contact-lists", contactController.ListLists)
			r.Delete("/contact-lists/{id}", contactController.DeleteList)
			r.Get("/contact-lists/{id}/contacts", contactController.ListContacts)

			r.Post("/templates", templateController.CreateTemplate)
			r.Get("/templates", templateController.ListTemplates)

			r.Get("/credits", creditHandler.Get)
			r.Post("/credits/purchase", creditHandler.Purchase)
		})
	})

	log.Println("🚀 Server running on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
