package recipe

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"recipe-feed/domain"
	"recipe-feed/entities"
	"recipe-feed/internal/utils"
	"recipe-feed/internal/utils/storage"
	"recipe-feed/pkg/media"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.Recipe, error)
		GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.Recipe, error)
		EditRecipe(ctx context.Context, recipeID string, req domain.EditRecipeRequest, userID string) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetFeedPage(ctx context.Context, page int, viewerID string) (domain.FeedPage, error)
		SearchRecipes(ctx context.Context, query string) ([]domain.SearchResult, error)
		UpdateLike(ctx context.Context, recipeID string, liked bool, userID string) (domain.UpdateLikeResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		mediaRepository  media.MediaRepository
		s3               storage.Storage
	}
)

func NewRecipeService(recipeRepository RecipeRepository, mediaRepository media.MediaRepository, s3 storage.Storage) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		mediaRepository:  mediaRepository,
		s3:               s3,
	}
}

func newBody(ingredients []domain.IngredientRequest, content string) datatypes.JSONType[entities.RecipeBody] {
	body := entities.RecipeBody{
		Ingredients: make([]entities.Ingredient, 0, len(ingredients)),
		Content:     content,
	}
	for _, ingredient := range ingredients {
		body.Ingredients = append(body.Ingredients, entities.Ingredient{
			Content: strings.TrimSpace(ingredient.Content),
		})
	}
	return datatypes.NewJSONType(body)
}

// searchText is what SearchRecipes matches against: the title, every
// ingredient and the content with its markup removed.
func searchText(title string, body entities.RecipeBody) string {
	parts := make([]string, 0, len(body.Ingredients)+2)
	parts = append(parts, title)
	for _, ingredient := range body.Ingredients {
		parts = append(parts, ingredient.Content)
	}
	parts = append(parts, html.UnescapeString(utils.StripTags(body.Content)))
	return strings.ToLower(strings.Join(parts, "\n"))
}

func userSummary(user *entities.User) *domain.UserSummary {
	if user == nil {
		return nil
	}
	return &domain.UserSummary{
		ID:       user.ID.String(),
		Username: user.Username,
	}
}

func toRecipeResponse(recipe *entities.Recipe) domain.Recipe {
	body := recipe.Body.Data()
	ingredients := make([]domain.Ingredient, 0, len(body.Ingredients))
	for _, ingredient := range body.Ingredients {
		ingredients = append(ingredients, domain.Ingredient{Content: ingredient.Content})
	}

	res := domain.Recipe{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		Ingredients:  ingredients,
		Content:      body.Content,
		MediaKey:     recipe.MediaKey,
		User:         userSummary(recipe.User),
		Likes:        recipe.LikeCount,
		UserHasLiked: recipe.UserHasLiked,
		CreatedAt:    recipe.CreatedAt,
	}
	if recipe.Media != nil {
		res.MediaURL = recipe.Media.URL
	}
	return res
}

// findOwnedRecipe loads a recipe and checks that userID owns it. Recipes
// whose author was deleted belong to nobody.
func (s *recipeService) findOwnedRecipe(ctx context.Context, recipeID string, userID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.UserID == nil || recipe.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.Recipe, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Recipe{}, domain.ErrParseUUID
	}

	mediaRow, err := s.mediaRepository.GetMediaByKey(ctx, req.MediaKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Recipe{}, domain.ErrMediaNotFound
		}
		return domain.Recipe{}, err
	}
	if mediaRow.UserID == nil || *mediaRow.UserID != userUUID {
		return domain.Recipe{}, domain.ErrMediaNotOwned
	}
	inUse, err := s.recipeRepository.MediaInUse(ctx, mediaRow.Key)
	if err != nil {
		return domain.Recipe{}, err
	}
	if inUse {
		return domain.Recipe{}, domain.ErrMediaInUse
	}

	title := strings.TrimSpace(req.Title)
	body := newBody(req.Ingredients, req.Content)
	recipe := &entities.Recipe{
		ID:         uuid.New(),
		Title:      title,
		Body:       body,
		SearchText: searchText(title, body.Data()),
		UserID:     &userUUID,
		MediaKey:   mediaRow.Key,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		// lost a race with another recipe on the same media
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Recipe{}, domain.ErrMediaInUse
		}
		return domain.Recipe{}, err
	}

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeDetail(ctx, recipeID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Recipe{}, domain.ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) EditRecipe(ctx context.Context, recipeID string, req domain.EditRecipeRequest, userID string) (domain.Recipe, error) {
	recipe, err := s.findOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe.Title = strings.TrimSpace(req.Title)
	recipe.Body = newBody(req.Ingredients, req.Content)
	recipe.SearchText = searchText(recipe.Title, recipe.Body.Data())
	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, err
	}

	return s.GetRecipe(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.findOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipeWithMedia(ctx, recipeID, recipe.MediaKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if err := s.s3.DeleteFile(ctx, recipe.MediaKey); err != nil {
		log.Errorf("failed to delete file %s of recipe %s: %v", recipe.MediaKey, recipeID, err)
	}
	return nil
}

// GetFeedPage fetches one row more than a page holds; that extra row only
// tells us whether there is a next page.
func (s *recipeService) GetFeedPage(ctx context.Context, page int, viewerID string) (domain.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * domain.FeedItemsPerPage

	recipes, err := s.recipeRepository.GetFeed(ctx, viewerID, offset, domain.FeedItemsPerPage+1)
	if err != nil {
		return domain.FeedPage{}, err
	}

	feed := domain.FeedPage{Rows: make([]domain.Recipe, 0, domain.FeedItemsPerPage)}
	if len(recipes) > domain.FeedItemsPerPage {
		recipes = recipes[:domain.FeedItemsPerPage]
		next := page + 1
		feed.NextPage = &next
	}
	for _, recipe := range recipes {
		feed.Rows = append(feed.Rows, toRecipeResponse(recipe))
	}
	return feed, nil
}

func (s *recipeService) SearchRecipes(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	results := []domain.SearchResult{}
	if query == "" {
		return results, nil
	}

	recipes, err := s.recipeRepository.SearchRecipes(ctx, query, domain.SearchLimit)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		result := domain.SearchResult{
			ID:    recipe.ID.String(),
			Title: recipe.Title,
			User:  userSummary(recipe.User),
		}
		if recipe.Media != nil {
			result.MediaURL = recipe.Media.URL
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *recipeService) UpdateLike(ctx context.Context, recipeID string, liked bool, userID string) (domain.UpdateLikeResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.UpdateLikeResponse{}, domain.ErrParseUUID
	}
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.UpdateLikeResponse{}, domain.ErrRecipeNotFound
	}
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateLikeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.UpdateLikeResponse{}, err
	}

	var err error
	if liked {
		err = s.recipeRepository.AddLike(ctx, userID, recipeID)
	} else {
		err = s.recipeRepository.RemoveLike(ctx, userID, recipeID)
	}
	if err != nil {
		return domain.UpdateLikeResponse{}, err
	}

	likes, err := s.recipeRepository.CountLikes(ctx, recipeID)
	if err != nil {
		return domain.UpdateLikeResponse{}, err
	}
	return domain.UpdateLikeResponse{
		RecipeID:     recipeID,
		Likes:        likes,
		UserHasLiked: liked,
	}, nil
}
