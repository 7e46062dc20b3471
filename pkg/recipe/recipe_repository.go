package recipe

import (
	"context"
	"strings"
	"time"

	"recipe-feed/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		MediaInUse(ctx context.Context, mediaKey string) (bool, error)
		GetRecipeDetail(ctx context.Context, id string, viewerID string) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipeWithMedia(ctx context.Context, id string, mediaKey string) error
		GetFeed(ctx context.Context, viewerID string, offset, limit int) ([]*entities.Recipe, error)
		SearchRecipes(ctx context.Context, query string, limit int) ([]*entities.Recipe, error)
		GetRecipesByUser(ctx context.Context, userID string) ([]*entities.Recipe, error)
		AddLike(ctx context.Context, userID, recipeID string) error
		RemoveLike(ctx context.Context, userID, recipeID string) error
		CountLikes(ctx context.Context, recipeID string) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// withLikeStats selects the like count and whether viewerID liked each row.
// An empty viewerID (anonymous) never matches.
func withLikeStats(db *gorm.DB, viewerID string) *gorm.DB {
	const likeCount = "(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id) AS like_count"
	if viewerID == "" {
		return db.Select("recipes.*, " + likeCount + ", FALSE AS user_has_liked")
	}
	return db.Select(
		"recipes.*, "+likeCount+", EXISTS (SELECT 1 FROM likes WHERE likes.recipe_id = recipes.id AND likes.user_id = ?) AS user_has_liked",
		viewerID,
	)
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) MediaInUse(ctx context.Context, mediaKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("media_key = ?", mediaKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) GetRecipeDetail(ctx context.Context, id string, viewerID string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := withLikeStats(r.db.WithContext(ctx), viewerID).
		Preload("Media").
		Preload("User").
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the title, body and search text. Ownership and media are never
// touched by an edit.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("title", "body", "search_text", "updated_at").
		Updates(recipe).Error
}

// DeleteRecipeWithMedia removes the recipe (likes go with it through the
// foreign key) and then its media row, in one transaction. The stored file
// is the caller's job once this commits.
func (r *recipeRepository) DeleteRecipeWithMedia(ctx context.Context, id string, mediaKey string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&entities.Media{Key: mediaKey}).Error
	})
}

func (r *recipeRepository) GetFeed(ctx context.Context, viewerID string, offset, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := withLikeStats(r.db.WithContext(ctx), viewerID).
		Preload("Media").
		Preload("User").
		Order("recipes.created_at desc").
		Order("recipes.id desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchRecipes matches query against search_text, which is stored
// lowercased so the database never has to fold case.
func (r *recipeRepository) SearchRecipes(ctx context.Context, query string, limit int) ([]*entities.Recipe, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Media").
		Preload("User").
		Where(`recipes.search_text LIKE ? ESCAPE '\'`, pattern).
		Order("recipes.created_at desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipesByUser(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Media").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// AddLike is idempotent: a second like by the same user is a no-op.
func (r *recipeRepository) AddLike(ctx context.Context, userID, recipeID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return err
	}

	like := entities.Like{
		UserID:    userUUID,
		RecipeID:  recipeUUID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *recipeRepository) RemoveLike(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Like{}).Error
}

func (r *recipeRepository) CountLikes(ctx context.Context, recipeID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
