package user

import (
	"context"
	"errors"

	"recipe-feed/domain"
	"recipe-feed/entities"
	"recipe-feed/pkg/recipe"
	"recipe-feed/pkg/session"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultRedirect = "/"

type (
	UserService interface {
		SignUp(ctx context.Context, req domain.SignUpRequest) (domain.AuthResponse, domain.SessionInfo, error)
		SignIn(ctx context.Context, req domain.SignInRequest) (domain.AuthResponse, domain.SessionInfo, error)
		SignOut(ctx context.Context, sessionID string) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		DeleteAccount(ctx context.Context, userID string) error
		GetProfile(ctx context.Context, username string) (domain.ProfileResponse, error)
		GetProfileByID(ctx context.Context, userID string) (domain.ProfileResponse, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		sessionService   session.SessionService
	}
)

func NewUserService(userRepository UserRepository, recipeRepository recipe.RecipeRepository, sessionService session.SessionService) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		sessionService:   sessionService,
	}
}

func redirectOrDefault(redirectTo string) string {
	if redirectTo == "" {
		return defaultRedirect
	}
	return redirectTo
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func (s *userService) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.AuthResponse, domain.SessionInfo, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, domain.SessionInfo{}, err
	}

	user := &entities.User{
		ID:             uuid.New(),
		Username:       req.Username,
		HashedPassword: string(hashedPassword),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.AuthResponse{}, domain.SessionInfo{}, err
	}

	info, err := s.sessionService.CreateSession(ctx, user.ID.String())
	if err != nil {
		return domain.AuthResponse{}, domain.SessionInfo{}, err
	}
	info.Username = user.Username

	return domain.AuthResponse{
		User:       toUserResponse(user),
		RedirectTo: redirectOrDefault(req.RedirectTo),
	}, info, nil
}

func (s *userService) SignIn(ctx context.Context, req domain.SignInRequest) (domain.AuthResponse, domain.SessionInfo, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.SessionInfo{}, domain.ErrInvalidUsernamePassword
		}
		return domain.AuthResponse{}, domain.SessionInfo{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.SessionInfo{}, domain.ErrInvalidUsernamePassword
	}

	info, err := s.sessionService.CreateSession(ctx, user.ID.String())
	if err != nil {
		return domain.AuthResponse{}, domain.SessionInfo{}, err
	}
	info.Username = user.Username

	return domain.AuthResponse{
		User:       toUserResponse(user),
		RedirectTo: redirectOrDefault(req.RedirectTo),
	}, info, nil
}

func (s *userService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessionService.InvalidateSession(ctx, sessionID)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// DeleteAccount removes the user. Sessions and likes go with it, recipes and
// media stay behind without an owner.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrParseUUID
	}
	if err := s.sessionService.InvalidateUserSessions(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Infof("user %s deleted their account", userID)
	return nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (domain.ProfileResponse, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}
	return s.buildProfile(ctx, user)
}

func (s *userService) GetProfileByID(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}
	return s.buildProfile(ctx, user)
}

func (s *userService) buildProfile(ctx context.Context, user *entities.User) (domain.ProfileResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByUser(ctx, user.ID.String())
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	profile := domain.ProfileResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Recipes:  make([]domain.ProfileRecipe, 0, len(recipes)),
	}
	for _, r := range recipes {
		item := domain.ProfileRecipe{
			ID:    r.ID.String(),
			Title: r.Title,
		}
		if r.Media != nil {
			item.MediaURL = r.Media.URL
		}
		profile.Recipes = append(profile.Recipes, item)
	}
	return profile, nil
}
