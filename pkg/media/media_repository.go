package media

import (
	"context"

	"recipe-feed/entities"

	"gorm.io/gorm"
)

type (
	MediaRepository interface {
		CreateMedia(ctx context.Context, media *entities.Media) error
		GetMediaByKey(ctx context.Context, key string) (*entities.Media, error)
		CustomIDExists(ctx context.Context, customID string) (bool, error)
	}

	mediaRepository struct {
		db *gorm.DB
	}
)

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreateMedia(ctx context.Context, media *entities.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetMediaByKey(ctx context.Context, key string) (*entities.Media, error) {
	var media entities.Media
	if err := r.db.WithContext(ctx).Where(&entities.Media{Key: key}).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) CustomIDExists(ctx context.Context, customID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Media{}).
		Where("custom_id = ?", customID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
