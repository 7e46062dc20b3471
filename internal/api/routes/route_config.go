package routes

import (
	"recipe-feed/domain"
	"recipe-feed/internal/api/handlers"
	"recipe-feed/internal/api/presenters"
	"recipe-feed/internal/middleware"
	"recipe-feed/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	MediaHandler   handlers.MediaHandler
	Middleware     middleware.Middleware
	SessionService session.SessionService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipes()
	c.Media()
	c.NotFound()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/sign-up", c.UserHandler.SignUp)
		auth.Post("/sign-in", c.UserHandler.SignIn)
		auth.Post("/sign-out", c.Middleware.AuthMiddleware(c.SessionService), c.UserHandler.SignOut)
	}
}

func (c *Config) User() {
	requireAuth := c.Middleware.AuthMiddleware(c.SessionService)

	user := c.App.Group("/api/v1/users", requireAuth)
	{
		user.Get("/me", c.UserHandler.Me)
		user.Delete("/me", c.UserHandler.DeleteAccount)
	}

	c.App.Get("/api/v1/profile", requireAuth, c.UserHandler.GetOwnProfile)
	c.App.Get("/api/v1/profiles/:username", c.UserHandler.GetProfile)
}

func (c *Config) Recipes() {
	requireAuth := c.Middleware.AuthMiddleware(c.SessionService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.SessionService)

	c.App.Get("/api/v1/feed", optionalAuth, c.RecipeHandler.GetFeed)
	c.App.Get("/api/v1/search", c.RecipeHandler.SearchRecipes)

	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Post("", requireAuth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", optionalAuth, c.RecipeHandler.GetRecipe)
		recipes.Put("/:id", requireAuth, c.RecipeHandler.EditRecipe)
		recipes.Delete("/:id", requireAuth, c.RecipeHandler.DeleteRecipe)
		recipes.Put("/:id/like", requireAuth, c.RecipeHandler.UpdateLike)
	}
}

func (c *Config) Media() {
	requireAuth := c.Middleware.AuthMiddleware(c.SessionService)

	media := c.App.Group("/api/v1/media")
	{
		media.Post("", requireAuth, c.MediaHandler.UploadImage)
		media.Post("/presign", requireAuth, c.MediaHandler.PresignUpload)
		media.Post("/callback", c.MediaHandler.CompleteUpload)
	}
}

func (c *Config) NotFound() {
	c.App.Use(func(ctx *fiber.Ctx) error {
		return presenters.ErrorResponse(ctx, fiber.StatusNotFound, domain.MessageRouteNotFound, nil)
	})
}
