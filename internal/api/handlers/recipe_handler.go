package handlers

import (
	"strconv"

	"recipe-feed/domain"
	"recipe-feed/internal/api/presenters"
	"recipe-feed/internal/utils"
	"recipe-feed/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		CreateRecipe(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		EditRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		GetFeed(c *fiber.Ctx) error
		SearchRecipes(c *fiber.Ctx) error
		UpdateLike(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

// viewerID is empty for anonymous requests on optional-auth routes.
func viewerID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, utils.ValidationError(err))
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipe(c.Context(), c.Params("id"), viewerID(c))
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) EditRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.EditRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEditRecipe, utils.ValidationError(err))
	}

	res, err := h.recipeService.EditRecipe(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedEditRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessEditRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), userID); err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) GetFeed(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	res, err := h.recipeService.GetFeedPage(c.Context(), page, viewerID(c))
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetFeed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFeed)
}

func (h *recipeHandler) SearchRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.SearchRecipes(c.Context(), c.Query("query"))
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedSearchRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchRecipes)
}

func (h *recipeHandler) UpdateLike(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateLikeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLike, utils.ValidationError(err))
	}

	res, err := h.recipeService.UpdateLike(c.Context(), c.Params("id"), *req.Liked, userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedUpdateLike, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateLike)
}
