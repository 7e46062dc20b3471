package config

import (
	"context"
	"io"
	"os"
	"time"

	"recipe-feed/internal/api/handlers"
	"recipe-feed/internal/api/routes"
	"recipe-feed/internal/middleware"
	"recipe-feed/internal/utils"
	"recipe-feed/internal/utils/storage"
	"recipe-feed/pkg/jwt"
	"recipe-feed/pkg/media"
	"recipe-feed/pkg/recipe"
	"recipe-feed/pkg/session"
	"recipe-feed/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const (
	defaultRateLimit = 10
	// multipart overhead on top of the largest accepted image
	bodyLimit = 5 << 20
)

type AppOptions struct {
	// Storage defaults to the driver named by STORAGE_DRIVER.
	Storage storage.Storage
	// SessionCache is optional, sessions are read from the database without it.
	SessionCache session.Cache
	// LogOutput defaults to ./logs/app.log.
	LogOutput io.Writer
	// RateLimit is requests per second per client. Negative disables the
	// limiter, zero uses the default.
	RateLimit int
}

func NewApp(ctx context.Context, db *gorm.DB, opts AppOptions) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: !utils.IsProduction(),
		BodyLimit:         bodyLimit,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	output := opts.LogOutput
	if output == nil {
		file, err := openLogFile()
		if err != nil {
			return nil, err
		}
		output = file
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     output,
	}))

	rateLimit := opts.RateLimit
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}
	if rateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        rateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	// utils
	s3 := opts.Storage
	if s3 == nil {
		var err error
		s3, err = storage.New(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	sessionRepository := session.NewSessionRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	mediaRepository := media.NewMediaRepository(db)

	// Service
	jwtService, err := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	if err != nil {
		log.Errorf("upload tickets disabled: %v", err)
		return nil, err
	}
	sessionService := session.NewSessionService(sessionRepository, opts.SessionCache, utils.SessionTTL())
	userService := user.NewUserService(userRepository, recipeRepository, sessionService)
	mediaService := media.NewMediaService(mediaRepository, s3, jwtService)
	recipeService := recipe.NewRecipeService(recipeRepository, mediaRepository, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	mediaHandler := handlers.NewMediaHandler(mediaService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		MediaHandler:   mediaHandler,
		Middleware:     middlewares,
		SessionService: sessionService,
	}
	routesConfig.Setup()
	return app, nil
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		log.Errorf("error creating logs directory: %v", err)
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Errorf("error opening file: %v", err)
		return nil, err
	}
	return file, nil
}
