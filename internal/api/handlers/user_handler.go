package handlers

import (
	"recipe-feed/domain"
	"recipe-feed/internal/api/presenters"
	"recipe-feed/internal/utils"
	"recipe-feed/internal/middleware"
	"recipe-feed/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		SignUp(c *fiber.Ctx) error
		SignIn(c *fiber.Ctx) error
		SignOut(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		DeleteAccount(c *fiber.Ctx) error
		GetProfile(c *fiber.Ctx) error
		GetOwnProfile(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) SignUp(c *fiber.Ctx) error {
	req := new(domain.SignUpRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignUp, utils.ValidationError(err))
	}

	res, info, err := h.userService.SignUp(c.Context(), *req)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedSignUp, err)
	}

	middleware.SetSessionCookie(c, info)
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSignUp)
}

func (h *userHandler) SignIn(c *fiber.Ctx) error {
	req := new(domain.SignInRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignIn, utils.ValidationError(err))
	}

	res, info, err := h.userService.SignIn(c.Context(), *req)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedSignIn, err)
	}

	middleware.SetSessionCookie(c, info)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSignIn)
}

func (h *userHandler) SignOut(c *fiber.Ctx) error {
	info, ok := middleware.SessionFromLocals(c)
	if !ok {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrUnauthorized)
	}

	if err := h.userService.SignOut(c.Context(), info.SessionID); err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedSignOut, err)
	}

	middleware.ClearSessionCookie(c)
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSignOut)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.userService.DeleteAccount(c.Context(), userID); err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedDeleteAccount, err)
	}

	middleware.ClearSessionCookie(c)
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteAccount)
}

func (h *userHandler) GetProfile(c *fiber.Ctx) error {
	res, err := h.userService.GetProfile(c.Context(), c.Params("username"))
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *userHandler) GetOwnProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.GetProfileByID(c.Context(), userID)
	if err != nil {
		status, err := serviceError(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfile)
}
