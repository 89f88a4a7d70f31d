package routes

import (
	"spock.link/configs"
	"spock.link/configs/configsdatabase"
	api_handlers "spock.link/handlers/api"
	"spock.link/repositories"
	"spock.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes defines the versioned JSON API under /v1.
func registerAPIRoutes(app *fiber.App, cfg *configs.Config) {
	db := configsdatabase.GetDB()
	campaignRepo := repositories.NewCampaignRepository(db)
	contentRepo := repositories.NewContentRepository(db)

	campaignHandler := api_handlers.NewCampaignHandler(services.NewCampaignService(campaignRepo))
	contentHandler := api_handlers.NewContentHandler(services.NewContentService(contentRepo, campaignRepo), cfg.UploadDir)

	v1 := app.Group("/v1")

	// --- Campaigns ---
	v1.Get("/campaign", campaignHandler.ListCampaigns)          // GET    /v1/campaign
	v1.Post("/campaign", campaignHandler.CreateCampaign)        // POST   /v1/campaign
	v1.Get("/campaigns/active", campaignHandler.GetActiveCampaign) // GET /v1/campaigns/active
	v1.Get("/campaign/:id", campaignHandler.GetCampaign)        // GET    /v1/campaign/{id}
	v1.Put("/campaign/:id", campaignHandler.UpdateCampaign)     // PUT    /v1/campaign/{id}
	v1.Delete("/campaign/:id", campaignHandler.DeleteCampaign)  // DELETE /v1/campaign/{id}

	// --- Content scoped to a campaign ---
	v1.Get("/campaign/:id/content", contentHandler.ListCampaignContents) // GET /v1/campaign/{id}/content

	// --- Content ---
	v1.Get("/content", contentHandler.ListContents)                  // GET    /v1/content
	v1.Post("/content", contentHandler.CreateContent)                // POST   /v1/content
	v1.Get("/content/:id", contentHandler.GetContent)                // GET    /v1/content/{id}
	v1.Put("/content/:id", contentHandler.UpdateContent)             // PUT    /v1/content/{id}
	v1.Delete("/content/:id", contentHandler.DeleteContent)          // DELETE /v1/content/{id}
	v1.Post("/content/:id/image", contentHandler.UploadContentImage) // POST   /v1/content/{id}/image
}
