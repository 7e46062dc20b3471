package domain

import (
	"errors"
	"time"
)

const (
	FeedItemsPerPage = 4
	SearchLimit      = 20
)

var (
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessEditRecipe      = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessGetFeed         = "success get feed"
	MessageSuccessSearchRecipes   = "success search recipes"
	MessageSuccessUpdateLike      = "like updated"

	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedEditRecipe      = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedGetFeed         = "failed to get feed"
	MessageFailedSearchRecipes   = "failed to search recipes"
	MessageFailedUpdateLike      = "failed to update like"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrMediaInUse               = errors.New("media is already attached to a recipe")
)

type (
	IngredientRequest struct {
		Content string `json:"content" validate:"required,notblank"`
	}

	CreateRecipeRequest struct {
		Title       string              `json:"title" validate:"required,notblank"`
		Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Content     string              `json:"content" validate:"required,richtext_min=50"`
		MediaKey    string              `json:"media_key" validate:"required"`
	}

	EditRecipeRequest struct {
		Title       string              `json:"title" validate:"required,notblank"`
		Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Content     string              `json:"content" validate:"required,richtext_min=50"`
	}

	UpdateLikeRequest struct {
		Liked *bool `json:"liked" validate:"required"`
	}

	UpdateLikeResponse struct {
		RecipeID     string `json:"recipe_id"`
		Likes        int64  `json:"likes"`
		UserHasLiked bool   `json:"user_has_liked"`
	}

	Ingredient struct {
		Content string `json:"content"`
	}

	Recipe struct {
		ID           string       `json:"id"`
		Title        string       `json:"title"`
		Ingredients  []Ingredient `json:"ingredients"`
		Content      string       `json:"content"`
		MediaKey     string       `json:"media_key"`
		MediaURL     string       `json:"media_url"`
		User         *UserSummary `json:"user"`
		Likes        int64        `json:"likes"`
		UserHasLiked bool         `json:"user_has_liked"`
		CreatedAt    time.Time    `json:"created_at"`
	}

	FeedPage struct {
		Rows     []Recipe `json:"rows"`
		NextPage *int     `json:"next_page"`
	}

	SearchResult struct {
		ID       string       `json:"id"`
		Title    string       `json:"title"`
		MediaURL string       `json:"media_url"`
		User     *UserSummary `json:"user"`
	}
)
