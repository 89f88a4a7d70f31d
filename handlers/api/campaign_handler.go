package api

import (
	"errors"
	"fmt"

	"spock.link/configs/configslog"
	"spock.link/models"
	"spock.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CampaignHandler serves the campaign endpoints.
type CampaignHandler struct {
	service services.ICampaignService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(service services.ICampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// ListCampaigns returns every campaign wrapped in the plural envelope.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.service.ListCampaigns(c.UserContext())
	if err != nil {
		configslog.Log.Error("ListCampaigns failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error getting campaigns", err.Error())
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}

// GetCampaign returns a single campaign.
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid campaign ID", "Validation failed")
	}

	campaign, err := h.service.GetCampaignByID(c.UserContext(), uint(id))
	if err != nil {
		return h.campaignError(c, err, uint(id), "Error getting campaign")
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

// GetActiveCampaign returns the campaign currently flagged active.
func (h *CampaignHandler) GetActiveCampaign(c *fiber.Ctx) error {
	campaign, err := h.service.GetActiveCampaign(c.UserContext())
	if errors.Is(err, services.ErrActiveCampaignNotFound) {
		return respondError(c, fiber.StatusNotFound, "Active Campaign not found", "Active Campaign not found")
	}
	if err != nil {
		configslog.Log.Error("GetActiveCampaign failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error getting active campaign", err.Error())
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

// CreateCampaign creates a campaign and responds 201 with the envelope.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req CampaignCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}

	campaign, err := h.service.CreateCampaign(c.UserContext(), services.CampaignCreateInput{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return h.campaignError(c, err, 0, "Error creating campaign")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"campaign": campaign})
}

// UpdateCampaign applies a partial update: only fields present in the body
// are written.
func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid campaign ID", "Validation failed")
	}

	raw, err := decodeRawBody(c.Body())
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}

	updates := map[string]interface{}{}
	if rm, ok := raw["name"]; ok {
		// Null maps to "" so the service rejects it like a present-but-empty
		// name.
		name, err := decodeString(rm)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body", "name must be a string")
		}
		updates["name"] = name
	}
	if rm, ok := raw["active"]; ok && !jsonIsNull(rm) {
		active, err := decodeBool(rm)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body", "active must be a boolean")
		}
		updates["active"] = active
	}

	campaign, err := h.service.UpdateCampaign(c.UserContext(), uint(id), updates)
	if err != nil {
		return h.campaignError(c, err, uint(id), "Error updating campaign")
	}
	return c.JSON(fiber.Map{"campaign": campaign})
}

// DeleteCampaign removes a campaign (and its content, via cascade).
func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid campaign ID", "Validation failed")
	}

	if err := h.service.DeleteCampaign(c.UserContext(), uint(id)); err != nil {
		return h.campaignError(c, err, uint(id), "Error deleting campaign")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// campaignError maps service errors onto the error envelope.
func (h *CampaignHandler) campaignError(c *fiber.Ctx, err error, id uint, fallback string) error {
	switch {
	case errors.Is(err, services.ErrCampaignNotFound):
		return respondError(c, fiber.StatusNotFound,
			fmt.Sprintf("Campaign with the ID '%d' not found", id), "Campaign not found")
	case errors.Is(err, services.ErrCampaignNameRequired):
		return respondError(c, fiber.StatusBadRequest, "Campaign name is required", "Validation failed")
	case errors.Is(err, services.ErrCampaignNameTaken):
		return respondError(c, fiber.StatusBadRequest, "Campaign name must be unique", "Campaign name already exists")
	default:
		configslog.Log.Error("Campaign handler error", zap.Uint("id", id), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, fallback, err.Error())
	}
}
