package handlers

import (
	"recipe-feed/domain"
	"recipe-feed/internal/api/presenters"
	"recipe-feed/internal/utils"
	"recipe-feed/pkg/media"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MediaHandler interface {
		UploadImage(c *fiber.Ctx) error
		PresignUpload(c *fiber.Ctx) error
		CompleteUpload(c *fiber.Ctx) error
	}

	mediaHandler struct {
		mediaService media.MediaService
		validator    *validator.Validate
	}
)

func NewMediaHandler(mediaService media.MediaService, validator *validator.Validate) MediaHandler {
	return &mediaHandler{
		mediaService: mediaService,
		validator:    validator,
	}
}

func (h *mediaHandler) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadMediaRequest{Image: file}
	res, err := h.mediaService.UploadImage(c.Context(), req, userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedUploadMedia, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadMedia)
}

func (h *mediaHandler) PresignUpload(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.PresignUploadRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPresignUpload, utils.ValidationError(err))
	}

	res, err := h.mediaService.PresignUpload(c.Context(), *req, userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedPresignUpload, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessPresignUpload)
}

// CompleteUpload is called once the client has PUT the file to the
// presigned URL. The ticket identifies the uploader, no session required.
func (h *mediaHandler) CompleteUpload(c *fiber.Ctx) error {
	req := new(domain.CompleteUploadRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveMedia, utils.ValidationError(err))
	}

	res, err := h.mediaService.CompleteUpload(c.Context(), *req)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedSaveMedia, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveMedia)
}
