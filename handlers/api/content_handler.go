package api

import (
	"errors"
	"fmt"

	"spock.link/configs/configslog"
	"spock.link/models"
	"spock.link/pkg/uploads"
	"spock.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContentHandler serves the content endpoints, including the image upload.
type ContentHandler struct {
	service   services.IContentService
	uploadDir string
}

// NewContentHandler creates a new ContentHandler. uploadDir is where uploaded
// images are stored; they are served back under /uploads.
func NewContentHandler(service services.IContentService, uploadDir string) *ContentHandler {
	return &ContentHandler{service: service, uploadDir: uploadDir}
}

// ListContents returns every content item wrapped in the plural envelope.
func (h *ContentHandler) ListContents(c *fiber.Ctx) error {
	contents, err := h.service.ListContents(c.UserContext())
	if err != nil {
		configslog.Log.Error("ListContents failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error getting content", err.Error())
	}
	if contents == nil {
		contents = []models.Content{}
	}
	return c.JSON(fiber.Map{"contents": contents})
}

// ListCampaignContents returns a campaign's content in display order.
func (h *ContentHandler) ListCampaignContents(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid campaign ID", "Validation failed")
	}

	contents, err := h.service.ListCampaignContents(c.UserContext(), uint(id))
	if errors.Is(err, services.ErrContentCampaignNotFound) {
		return respondError(c, fiber.StatusNotFound,
			fmt.Sprintf("Campaign with the ID '%d' not found", id), "Campaign not found")
	}
	if err != nil {
		configslog.Log.Error("ListCampaignContents failed", zap.Int("campaign_id", id), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error getting content", err.Error())
	}
	if contents == nil {
		contents = []models.Content{}
	}
	return c.JSON(fiber.Map{"contents": contents})
}

// GetContent returns a single content item.
func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid content ID", "Validation failed")
	}

	content, err := h.service.GetContentByID(c.UserContext(), uint(id))
	if err != nil {
		return h.contentError(c, err, uint(id), 0, "Error getting content")
	}
	return c.JSON(fiber.Map{"content": content})
}

// CreateContent creates a content item and responds 201 with the envelope.
func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	var req ContentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if req.CampaignID == 0 {
		return respondError(c, fiber.StatusBadRequest, "campaign_id is required", "Validation failed")
	}
	if req.Order == nil {
		return respondError(c, fiber.StatusBadRequest, "order is required", "Validation failed")
	}

	content, err := h.service.CreateContent(c.UserContext(), services.ContentCreateInput{
		Title:       req.Title,
		ContentType: req.ContentType,
		CampaignID:  req.CampaignID,
		Order:       *req.Order,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		ButtonText:  req.ButtonText,
		ButtonLink:  req.ButtonLink,
		ExternalURL: req.ExternalURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return h.contentError(c, err, 0, *req.Order, "Error creating content")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"content": content})
}

// UpdateContent applies a partial update: only fields present in the body are
// written, and an explicit null on start_date/end_date clears the date.
func (h *ContentHandler) UpdateContent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid content ID", "Validation failed")
	}

	raw, err := decodeRawBody(c.Body())
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}

	updates := map[string]interface{}{}
	order := 0

	for _, key := range []string{"title", "content_type", "subtitle", "description", "button_text", "button_link", "external_url"} {
		rm, ok := raw[key]
		if !ok {
			continue
		}
		value, err := decodeString(rm)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body",
				fmt.Sprintf("%s must be a string", key))
		}
		updates[key] = value
	}
	if rm, ok := raw["order"]; ok {
		order, err = decodeInt(rm)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body", "order must be an integer")
		}
		updates["order"] = order
	}
	for _, key := range []string{"start_date", "end_date"} {
		rm, ok := raw[key]
		if !ok {
			continue
		}
		value, err := decodeTime(rm)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body",
				fmt.Sprintf("%s must be a timestamp or null", key))
		}
		if value == nil {
			updates[key] = nil
		} else {
			updates[key] = *value
		}
	}

	content, err := h.service.UpdateContent(c.UserContext(), uint(id), updates)
	if err != nil {
		return h.contentError(c, err, uint(id), order, "Error updating content")
	}
	return c.JSON(fiber.Map{"content": content})
}

// DeleteContent removes a content item. A repeated delete is a 404.
func (h *ContentHandler) DeleteContent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid content ID", "Validation failed")
	}

	if err := h.service.DeleteContent(c.UserContext(), uint(id)); err != nil {
		return h.contentError(c, err, uint(id), 0, "Error deleting content")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadContentImage stores the multipart "file" field and records it on the
// content item.
func (h *ContentHandler) UploadContentImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fiber.StatusBadRequest, "Invalid content ID", "Validation failed")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "No file provided", "Missing 'file' form field")
	}
	if !uploads.IsAllowed(file.Filename) {
		return respondError(c, fiber.StatusBadRequest,
			"Unsupported file type. Allowed types: png, jpg, jpeg, gif", "Unsupported file type")
	}

	// Reject the upload before writing anything when the content is unknown.
	if _, err := h.service.GetContentByID(c.UserContext(), uint(id)); err != nil {
		return h.contentError(c, err, uint(id), 0, "Error uploading image")
	}

	stored, path, err := uploads.Save(h.uploadDir, file)
	if err != nil {
		configslog.Log.Error("Image save failed", zap.Int("content_id", id), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error saving image", err.Error())
	}

	content, err := h.service.AttachImage(c.UserContext(), uint(id), stored, path, "/uploads/"+stored)
	if err != nil {
		return h.contentError(c, err, uint(id), 0, "Error uploading image")
	}
	return c.JSON(fiber.Map{"content": content})
}

// contentError maps service errors onto the error envelope.
func (h *ContentHandler) contentError(c *fiber.Ctx, err error, id uint, order int, fallback string) error {
	switch {
	case errors.Is(err, services.ErrContentNotFound):
		return respondError(c, fiber.StatusNotFound,
			fmt.Sprintf("Content with the ID '%d' not found", id), "Content not found")
	case errors.Is(err, services.ErrContentCampaignNotFound):
		return respondError(c, fiber.StatusNotFound, "Campaign not found", "Campaign not found")
	case errors.Is(err, services.ErrContentTitleRequired):
		return respondError(c, fiber.StatusBadRequest, "Content title is required", "Validation failed")
	case errors.Is(err, services.ErrContentTypeInvalid):
		return respondError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Invalid content_type. Must be one of: %v", models.ContentTypes), "Validation failed")
	case errors.Is(err, services.ErrContentOrderTaken):
		return respondError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Content order must be unique within a campaign. Use a different content order apart from '%d'.", order),
			"Content order already exists")
	default:
		configslog.Log.Error("Content handler error", zap.Uint("id", id), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, fallback, err.Error())
	}
}
