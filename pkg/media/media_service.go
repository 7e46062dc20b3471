package media

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"recipe-feed/domain"
	"recipe-feed/entities"
	"recipe-feed/internal/utils/storage"
	"recipe-feed/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MediaService interface {
		UploadImage(ctx context.Context, req domain.UploadMediaRequest, userID string) (domain.MediaResponse, error)
		PresignUpload(ctx context.Context, req domain.PresignUploadRequest, userID string) (domain.PresignUploadResponse, error)
		CompleteUpload(ctx context.Context, req domain.CompleteUploadRequest) (domain.MediaResponse, error)
	}

	mediaService struct {
		mediaRepository MediaRepository
		s3              storage.Storage
		jwtService      jwt.JWTService
	}
)

func NewMediaService(mediaRepository MediaRepository, s3 storage.Storage, jwtService jwt.JWTService) MediaService {
	return &mediaService{
		mediaRepository: mediaRepository,
		s3:              s3,
		jwtService:      jwtService,
	}
}

func toMediaResponse(media *entities.Media) domain.MediaResponse {
	return domain.MediaResponse{
		Key:       media.Key,
		Name:      media.Name,
		URL:       media.URL,
		Size:      media.Size,
		CustomID:  media.CustomID,
		CreatedAt: media.CreatedAt,
	}
}

func (s *mediaService) UploadImage(ctx context.Context, req domain.UploadMediaRequest, userID string) (domain.MediaResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MediaResponse{}, domain.ErrParseUUID
	}
	if req.Image.Size > domain.MaxImageSizeBytes {
		return domain.MediaResponse{}, domain.ErrFileTooLarge
	}

	objectKey, err := s.s3.UploadFile(ctx, uuid.NewString(), req.Image, domain.MediaFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.MediaResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.MediaResponse{}, err
	}

	media := &entities.Media{
		Key:       objectKey,
		Name:      filepath.Base(req.Image.Filename),
		URL:       s.s3.GetPublicLinkKey(objectKey),
		Size:      req.Image.Size,
		UserID:    &userUUID,
		CreatedAt: time.Now(),
	}
	if err := s.mediaRepository.CreateMedia(ctx, media); err != nil {
		if delErr := s.s3.DeleteFile(ctx, objectKey); delErr != nil {
			log.Errorf("failed to remove orphaned upload %s: %v", objectKey, delErr)
		}
		return domain.MediaResponse{}, err
	}

	return toMediaResponse(media), nil
}

func (s *mediaService) PresignUpload(ctx context.Context, req domain.PresignUploadRequest, userID string) (domain.PresignUploadResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.PresignUploadResponse{}, domain.ErrParseUUID
	}
	if req.Size > domain.MaxImageSizeBytes {
		return domain.PresignUploadResponse{}, domain.ErrFileTooLarge
	}
	if err := storage.CheckContentType(req.ContentType, storage.AllowImage...); err != nil {
		return domain.PresignUploadResponse{}, domain.ErrInvalidImageFormat
	}

	if req.CustomID != nil {
		taken, err := s.mediaRepository.CustomIDExists(ctx, *req.CustomID)
		if err != nil {
			return domain.PresignUploadResponse{}, err
		}
		if taken {
			return domain.PresignUploadResponse{}, domain.ErrCustomIDTaken
		}
	}

	name := filepath.Base(req.Name)
	objectKey := storage.ObjectKey(domain.MediaFolder, uuid.NewString(), name)

	uploadURL, err := s.s3.PresignUpload(ctx, objectKey, strings.ToLower(req.ContentType), req.Size, domain.PresignedURLTTL)
	if err != nil {
		return domain.PresignUploadResponse{}, err
	}

	ticket, err := s.jwtService.GenerateUploadTicket(domain.UploadTicket{
		UserID:   userID,
		Key:      objectKey,
		Name:     name,
		Size:     req.Size,
		CustomID: req.CustomID,
	}, domain.PresignedURLTTL)
	if err != nil {
		return domain.PresignUploadResponse{}, err
	}

	return domain.PresignUploadResponse{
		Key:       objectKey,
		UploadURL: uploadURL,
		Ticket:    ticket,
		ExpiresAt: time.Now().Add(domain.PresignedURLTTL),
	}, nil
}

// checkUploadedObject applies the upload limits to what storage actually
// holds, since the client controls the presigned PUT.
func checkUploadedObject(info storage.ObjectInfo) error {
	if info.Size > domain.MaxImageSizeBytes {
		return domain.ErrFileTooLarge
	}
	if err := storage.CheckContentType(info.ContentType, storage.AllowImage...); err != nil {
		return domain.ErrInvalidImageFormat
	}
	return nil
}

// CompleteUpload is the upload callback: it trades a valid ticket for a
// media row once the object is actually in storage. Replaying a ticket
// returns the row created the first time.
func (s *mediaService) CompleteUpload(ctx context.Context, req domain.CompleteUploadRequest) (domain.MediaResponse, error) {
	ticket, err := s.jwtService.ValidateUploadTicket(req.Ticket)
	if err != nil {
		return domain.MediaResponse{}, err
	}
	userUUID, err := uuid.Parse(ticket.UserID)
	if err != nil {
		return domain.MediaResponse{}, domain.ErrUploadTicket
	}

	existing, err := s.mediaRepository.GetMediaByKey(ctx, ticket.Key)
	if err == nil {
		if existing.UserID == nil || *existing.UserID != userUUID {
			return domain.MediaResponse{}, domain.ErrMediaNotOwned
		}
		return toMediaResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MediaResponse{}, err
	}

	info, err := s.s3.StatObject(ctx, ticket.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.MediaResponse{}, domain.ErrUploadNotFound
		}
		return domain.MediaResponse{}, err
	}
	if err := checkUploadedObject(info); err != nil {
		if delErr := s.s3.DeleteFile(ctx, ticket.Key); delErr != nil {
			log.Errorf("failed to remove rejected upload %s: %v", ticket.Key, delErr)
		}
		return domain.MediaResponse{}, err
	}

	media := &entities.Media{
		Key:       ticket.Key,
		Name:      ticket.Name,
		URL:       s.s3.GetPublicLinkKey(ticket.Key),
		Size:      info.Size,
		UserID:    &userUUID,
		CustomID:  ticket.CustomID,
		CreatedAt: time.Now(),
	}
	if err := s.mediaRepository.CreateMedia(ctx, media); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.MediaResponse{}, domain.ErrCustomIDTaken
		}
		log.Errorf("failed to save media %s: %v", ticket.Key, err)
		return domain.MediaResponse{}, err
	}

	return toMediaResponse(media), nil
}
