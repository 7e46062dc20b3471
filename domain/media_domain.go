package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	MaxImageSizeBytes = int64(4 << 20)
	PresignedURLTTL   = 5 * time.Minute
	MediaFolder       = "recipes"
)

var (
	MessageSuccessUploadMedia   = "image uploaded successfully"
	MessageSuccessPresignUpload = "upload url created"
	MessageSuccessSaveMedia     = "media saved"

	MessageFailedUploadMedia   = "failed to upload image"
	MessageFailedPresignUpload = "failed to create upload url"
	MessageFailedSaveMedia     = "failed to save media"

	ErrMediaNotFound      = errors.New("media not found")
	ErrMediaNotOwned      = errors.New("media belongs to another user")
	ErrFileTooLarge       = errors.New("file exceeds 4MB")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrUploadNotFound     = errors.New("uploaded object not found")
	ErrUploadTicket       = errors.New("invalid upload ticket")
	ErrCustomIDTaken      = errors.New("custom id already in use")
)

type (
	UploadMediaRequest struct {
		Image *multipart.FileHeader `form:"image" validate:"required"`
	}

	PresignUploadRequest struct {
		Name        string  `json:"name" validate:"required,max=255"`
		Size        int64   `json:"size" validate:"required,min=1"`
		ContentType string  `json:"content_type" validate:"required"`
		CustomID    *string `json:"custom_id,omitempty" validate:"omitempty,notblank,max=255"`
	}

	PresignUploadResponse struct {
		Key       string    `json:"key"`
		UploadURL string    `json:"upload_url"`
		Ticket    string    `json:"ticket"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	CompleteUploadRequest struct {
		Ticket string `json:"ticket" validate:"required"`
	}

	// UploadTicket is the metadata carried from the presign call to the
	// upload callback.
	UploadTicket struct {
		UserID   string
		Key      string
		Name     string
		Size     int64
		CustomID *string
	}

	MediaResponse struct {
		Key       string    `json:"key"`
		Name      string    `json:"name"`
		URL       string    `json:"url"`
		Size      int64     `json:"size"`
		CustomID  *string   `json:"custom_id,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
)
