package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"
	"gympulse/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPhotoNotFound      = errors.New("progress photo not found")
	ErrInvalidContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// PhotoDetails pairs stored metadata with a temporary viewing URL.
type PhotoDetails struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// MediaService handles the progress-photo upload flow: the client PUTs the
// image straight to S3 via a presigned URL, then confirms so the metadata
// record is written.
type MediaService interface {
	RequestUploadURL(ctx context.Context, memberID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, memberID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType, caption string) (*domain.ProgressPhoto, error)
	GetMyPhotos(ctx context.Context, memberID primitive.ObjectID) ([]PhotoDetails, error)
	DeletePhoto(ctx context.Context, memberID, photoID primitive.ObjectID) error
}

// mediaService implements the MediaService interface.
type mediaService struct {
	photoRepo   repository.ProgressPhotoRepository
	fileStorage storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(photoRepo repository.ProgressPhotoRepository, fileStorage storage.FileStorage) MediaService {
	return &mediaService{
		photoRepo:   photoRepo,
		fileStorage: fileStorage,
	}
}

// RequestUploadURL generates a pre-signed PUT URL for a member's progress photo.
func (s *mediaService) RequestUploadURL(ctx context.Context, memberID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("progress-photos", memberID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmUpload writes the metadata record after the client has PUT the image to S3.
func (s *mediaService) ConfirmUpload(ctx context.Context, memberID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType, caption string) (*domain.ProgressPhoto, error) {
	if memberID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("member ID and object key are required")
	}
	// The key embeds the member's own ID; refuse confirmations for keys that
	// were presigned for someone else.
	if !strings.HasPrefix(objectKey, path.Join("progress-photos", memberID.Hex())+"/") {
		return nil, errors.New("object key does not belong to this member")
	}

	photo := &domain.ProgressPhoto{
		MemberID:    memberID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
		Caption:     caption,
	}

	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID
	return photo, nil
}

// GetMyPhotos lists the member's photos, newest first, each with a temporary
// download URL.
func (s *mediaService) GetMyPhotos(ctx context.Context, memberID primitive.ObjectID) ([]PhotoDetails, error) {
	photos, err := s.photoRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	details := make([]PhotoDetails, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrDownloadURLError
		}
		details = append(details, PhotoDetails{ProgressPhoto: photo, DownloadURL: url})
	}
	return details, nil
}

// DeletePhoto removes the S3 object and then the metadata record.
func (s *mediaService) DeletePhoto(ctx context.Context, memberID, photoID primitive.ObjectID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.MemberID != memberID {
		return ErrPhotoNotFound
	}

	if err := s.fileStorage.DeleteObject(ctx, photo.S3ObjectKey); err != nil {
		return err
	}
	if err := s.photoRepo.Delete(ctx, photoID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	return nil
}
